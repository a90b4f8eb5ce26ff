package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-cms/inkwell-api/internal/api/shared"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/platform/embedding"
	"github.com/inkwell-cms/inkwell-api/internal/store"
	"github.com/pgvector/pgvector-go"
)

// Search result bounds.
const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// CreateDocumentRequest represents the request body for indexing a document.
type CreateDocumentRequest struct {
	Content  string          `json:"content" validate:"required,min=1"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// DocumentResponse represents the response data for a document.
type DocumentResponse struct {
	ID       int64           `json:"id"`
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata"`
}

// DocumentHandler handles document indexing and semantic search requests.
type DocumentHandler struct {
	documentStore store.DocumentStore
	embedder      embedding.Generator
	validator     *validator.Validate
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentStore store.DocumentStore, embedder embedding.Generator) *DocumentHandler {
	return &DocumentHandler{
		documentStore: documentStore,
		embedder:      embedder,
		validator:     validator.New(),
	}
}

// CreateDocument handles POST /api/documents requests. The document text
// is embedded via the external provider before being stored.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	vector, err := h.embedder.Embed(r.Context(), req.Content)
	if err != nil {
		slog.Error("Failed to embed document", "error", err)
		shared.RespondWithError(w, r, http.StatusBadGateway, "Embedding provider unavailable")
		return
	}

	doc, err := domain.NewDocument(req.Content, req.Metadata, vector)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.documentStore.Create(r.Context(), doc); err != nil {
		slog.Error("Failed to create document", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
}

// SearchDocuments handles GET /api/documents/search?q=...&limit=N requests.
// The query text is embedded and documents are returned in ascending order
// of vector distance.
func (h *DocumentHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	limit := defaultSearchLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 || parsed > maxSearchLimit {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	vector, err := h.embedder.Embed(r.Context(), query)
	if err != nil {
		slog.Error("Failed to embed search query", "error", err)
		shared.RespondWithError(w, r, http.StatusBadGateway, "Embedding provider unavailable")
		return
	}

	docs, err := h.documentStore.SemanticSearch(r.Context(), pgvector.NewVector(vector), limit)
	if err != nil {
		slog.Error("Semantic search failed", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Search failed")
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, toDocumentResponse(doc))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// toDocumentResponse maps a domain Document onto the API response shape.
func toDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}
}
