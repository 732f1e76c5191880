package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchDocumentsTool returns the tool definition for search_documents
func searchDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_documents",
		Description: "Search a tenant's indexed documents with hybrid (semantic + keyword) retrieval",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tenant_id": map[string]interface{}{
					"type":        "string",
					"description": "Tenant whose documents are searched",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional document id to restrict the search to a single document",
				},
			},
			Required: []string{"tenant_id", "query"},
		},
	}
}

// getDocumentStatusTool returns the tool definition for get_document_status
func getDocumentStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_document_status",
		Description: "Query processing status and metadata for an uploaded document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tenant_id": map[string]interface{}{
					"type":        "string",
					"description": "Tenant that owns the document",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Document id returned by the upload endpoint",
				},
			},
			Required: []string{"tenant_id", "document_id"},
		},
	}
}
