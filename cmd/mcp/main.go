package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/akarasev/docsearch/internal/adapters/mcp"
	"github.com/akarasev/docsearch/internal/bootstrap"
	"github.com/akarasev/docsearch/internal/config"
)

const serviceName = "docsearch-mcp"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(app.RetrieveUC, app.Reader, nil, app.Logger)
	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
