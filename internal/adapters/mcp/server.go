// Package mcpadapter exposes document retrieval over the Model Context
// Protocol so LLM agents can search tenant documents through stdio.
package mcpadapter

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/akarasev/docsearch/internal/core/ports"
)

const (
	// ServerName is the MCP server name
	ServerName = "docsearch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	retriever ports.DocumentRetriever
	reader    ports.DocumentReader
	metrics   ports.RetrievalMetrics
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(
	retriever ports.DocumentRetriever,
	reader ports.DocumentReader,
	metrics ports.RetrievalMetrics,
	logger *slog.Logger,
) *Server {
	if metrics == nil {
		metrics = ports.NopRetrievalMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		retriever: retriever,
		reader:    reader,
		metrics:   metrics,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until the client disconnects.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool(), s.handleSearchDocuments)
	s.mcp.AddTool(getDocumentStatusTool(), s.handleGetDocumentStatus)
}
