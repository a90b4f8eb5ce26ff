package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell-api/internal/api/middleware"
	"github.com/inkwell-cms/inkwell-api/internal/api/shared"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// CreateContentRequest represents the request body for creating a content entry.
type CreateContentRequest struct {
	Title string `json:"title" validate:"required,min=1"`
	Body  string `json:"body" validate:"required,min=1"`
}

// UpdateContentRequest represents the request body for updating a content entry.
type UpdateContentRequest struct {
	Title  string `json:"title" validate:"required,min=1"`
	Body   string `json:"body" validate:"required,min=1"`
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

// ContentResponse represents the response data for a content entry.
type ContentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentHandler handles content-related HTTP requests.
type ContentHandler struct {
	contentStore store.ContentStore
	validator    *validator.Validate
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentStore store.ContentStore) *ContentHandler {
	return &ContentHandler{
		contentStore: contentStore,
		validator:    validator.New(),
	}
}

// CreateContent handles POST /api/content requests.
// New entries always start in draft status.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	content, err := domain.NewContent(userID, req.Title, req.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contentStore.Create(r.Context(), content); err != nil {
		slog.Error("Failed to create content", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toContentResponse(content))
}

// ListContent handles GET /api/content requests, returning the
// authenticated user's entries.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	entries, err := h.contentStore.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to list content", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list content")
		return
	}

	responses := make([]ContentResponse, 0, len(entries))
	for _, content := range entries {
		responses = append(responses, toContentResponse(content))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetContent handles GET /api/content/{id} requests.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	content, ok := h.loadOwnedContent(w, r, userID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toContentResponse(content))
}

// UpdateContent handles PUT /api/content/{id} requests.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	content, ok := h.loadOwnedContent(w, r, userID)
	if !ok {
		return
	}

	content.Title = req.Title
	content.Body = req.Body
	if err := content.UpdateStatus(domain.ContentStatus(req.Status)); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contentStore.Update(r.Context(), content); err != nil {
		slog.Error("Failed to update content", "error", err, "content_id", content.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toContentResponse(content))
}

// DeleteContent handles DELETE /api/content/{id} requests.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	content, ok := h.loadOwnedContent(w, r, userID)
	if !ok {
		return
	}

	if err := h.contentStore.Delete(r.Context(), content.ID); err != nil {
		slog.Error("Failed to delete content", "error", err, "content_id", content.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete content")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedContent parses the {id} URL parameter, loads the entry and
// verifies the authenticated user owns it. On failure it writes the error
// response and returns false.
func (h *ContentHandler) loadOwnedContent(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
) (*domain.Content, bool) {
	contentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid content ID")
		return nil, false
	}

	content, err := h.contentStore.GetByID(r.Context(), contentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Content not found")
			return nil, false
		}
		slog.Error("Failed to get content", "error", err, "content_id", contentID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get content")
		return nil, false
	}

	// Ownership check; respond with 404 rather than 403 to avoid
	// confirming the entry exists.
	if content.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Content not found")
		return nil, false
	}

	return content, true
}

// toContentResponse maps a domain Content onto the API response shape.
func toContentResponse(content *domain.Content) ContentResponse {
	return ContentResponse{
		ID:        content.ID.String(),
		UserID:    content.UserID.String(),
		Title:     content.Title,
		Body:      content.Body,
		Status:    string(content.Status),
		CreatedAt: content.CreatedAt,
		UpdatedAt: content.UpdatedAt,
	}
}
