package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/usecase"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Document does not exist for this tenant
	ErrorCodeEmptyQuery       = -32002 // Query parameter is empty
)

const maxTopK = 100

// handleSearchDocuments handles the search_documents tool invocation
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	tenantID, err := requiredString(args, "tenant_id")
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	// top_k omitted means the server default; when given it must be sane.
	topK := 0
	if _, present := args["top_k"]; present {
		topK = getIntDefault(args, "top_k", 0)
		if topK < 1 || topK > maxTopK {
			return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("top_k must be between 1 and %d", maxTopK), map[string]interface{}{
				"param": "top_k",
				"value": topK,
			})
		}
	}

	filter := domain.SearchFilter{
		TenantID:   tenantID,
		DocumentID: strings.TrimSpace(getStringDefault(args, "document_id", "")),
	}

	results, err := s.retriever.Retrieve(ctx, query, topK, filter, s.metrics)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"query":        query,
		"results":      results,
		"citations":    usecase.BuildCitations(results),
		"source_block": usecase.FormatSourceBlock(results),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetDocumentStatus handles the get_document_status tool invocation
func (s *Server) handleGetDocumentStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	tenantID, err := requiredString(args, "tenant_id")
	if err != nil {
		return nil, err
	}
	documentID, err := requiredString(args, "document_id")
	if err != nil {
		return nil, err
	}

	doc, err := s.reader.GetByID(ctx, tenantID, documentID)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			return nil, newMCPError(ErrorCodeDocumentNotFound, "document not found", map[string]interface{}{
				"document_id": documentID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to get document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"mime_type":   doc.MimeType,
		"version":     doc.Version,
		"status":      string(doc.Status),
		"created_at":  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at":  doc.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if doc.Error != "" {
		response["error_message"] = doc.Error
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
