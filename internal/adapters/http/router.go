package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
	"github.com/akarasev/docsearch/internal/core/usecase"
)

const tenantHeader = "X-Tenant-Id"

type Router struct {
	ingestor  ports.DocumentIngestor
	reader    ports.DocumentReader
	retriever ports.DocumentRetriever
	metrics   ports.RetrievalMetrics
	traffic   TrafficControlConfig
	logger    *slog.Logger
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	retriever ports.DocumentRetriever,
	metrics ports.RetrievalMetrics,
	traffic TrafficControlConfig,
	logger *slog.Logger,
) *Router {
	if metrics == nil {
		metrics = ports.NopRetrievalMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		ingestor:  ingestor,
		reader:    reader,
		retriever: retriever,
		metrics:   metrics,
		traffic:   traffic,
		logger:    logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/search", rt.search)

	var handler http.Handler = mux
	handler = trafficControlMiddleware(rt.traffic, handler)
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		tenantID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := rt.reader.GetByID(r.Context(), tenantID, id)
		if err != nil {
			writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := rt.ingestor.Remove(r.Context(), tenantID, id); err != nil {
			writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	DocumentID string `json:"document_id"`
}

type searchResponse struct {
	Results     []domain.SearchResult `json:"results"`
	Citations   []domain.Citation     `json:"citations"`
	SourceBlock string                `json:"source_block,omitempty"`
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	filter := domain.SearchFilter{
		TenantID:   tenantID,
		DocumentID: strings.TrimSpace(req.DocumentID),
	}
	results, err := rt.retriever.Retrieve(r.Context(), req.Query, req.TopK, filter, rt.metrics)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:     results,
		Citations:   usecase.BuildCitations(results),
		SourceBlock: usecase.FormatSourceBlock(results),
	})
}

func tenantFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID := strings.TrimSpace(r.Header.Get(tenantHeader))
	if tenantID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "header X-Tenant-Id is required"})
		return "", false
	}
	return tenantID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
