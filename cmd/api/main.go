package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/akarasev/docsearch/internal/adapters/http"
	"github.com/akarasev/docsearch/internal/bootstrap"
	"github.com/akarasev/docsearch/internal/config"
	"github.com/akarasev/docsearch/internal/observability/metrics"
)

const serviceName = "docsearch-api"

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

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	retrievalMetrics := metrics.NewRetrievalMetrics(serviceName, serverMetrics.Registry())

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.Reader,
		app.RetrieveUC,
		retrievalMetrics,
		httpadapter.TrafficControlConfig{
			RateLimitRPS: cfg.HTTPRateLimitRPS,
			RateBurst:    cfg.HTTPRateBurst,
			MaxInFlight:  cfg.HTTPMaxInFlight,
		},
		app.Logger,
	).Handler()

	mux := http.NewServeMux()
	mux.Handle("/metrics", serverMetrics.Handler())
	mux.Handle("/", serverMetrics.Middleware(serviceName, router))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("api shutdown error", "error", err)
	}
}
