package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testContent(userID uuid.UUID) *domain.Content {
	now := time.Now().UTC()
	return &domain.Content{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "First post",
		Body:      "Hello from the test suite.",
		Status:    domain.ContentStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestContentHandler_CreateContent(t *testing.T) {
	t.Parallel()

	t.Run("creates draft content", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		contentStore := &mockContentStore{
			createFn: func(ctx context.Context, content *domain.Content) error {
				assert.Equal(t, userID, content.UserID)
				assert.Equal(t, domain.ContentStatusDraft, content.Status)
				return nil
			},
		}
		handler := NewContentHandler(contentStore)

		body := strings.NewReader(`{"title":"First post","body":"Hello"}`)
		req := authenticatedRequest(t, http.MethodPost, "/api/content", body, userID)
		rr := httptest.NewRecorder()

		handler.CreateContent(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp ContentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "First post", resp.Title)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, userID.String(), resp.UserID)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		t.Parallel()

		handler := NewContentHandler(&mockContentStore{})

		body := strings.NewReader(`{"body":"no title"}`)
		req := authenticatedRequest(t, http.MethodPost, "/api/content", body, uuid.New())
		rr := httptest.NewRecorder()

		handler.CreateContent(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		handler := NewContentHandler(&mockContentStore{})

		body := strings.NewReader(`{"title":`)
		req := authenticatedRequest(t, http.MethodPost, "/api/content", body, uuid.New())
		rr := httptest.NewRecorder()

		handler.CreateContent(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires authenticated user", func(t *testing.T) {
		t.Parallel()

		handler := NewContentHandler(&mockContentStore{})

		req := httptest.NewRequest(http.MethodPost, "/api/content", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		handler.CreateContent(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestContentHandler_ListContent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	contentStore := &mockContentStore{
		listByUserFn: func(ctx context.Context, id uuid.UUID) ([]*domain.Content, error) {
			assert.Equal(t, userID, id)
			return []*domain.Content{testContent(userID), testContent(userID)}, nil
		},
	}
	handler := NewContentHandler(contentStore)

	req := authenticatedRequest(t, http.MethodGet, "/api/content", nil, userID)
	rr := httptest.NewRecorder()

	handler.ListContent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []ContentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestContentHandler_GetContent(t *testing.T) {
	t.Parallel()

	t.Run("returns owned content", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		content := testContent(userID)
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				assert.Equal(t, content.ID, id)
				return content, nil
			},
		}
		handler := NewContentHandler(contentStore)

		req := authenticatedRequest(t, http.MethodGet, "/api/content/"+content.ID.String(), nil, userID)
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.GetContent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp ContentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, content.ID.String(), resp.ID)
	})

	t.Run("hides other users' content as not found", func(t *testing.T) {
		t.Parallel()

		owner := uuid.New()
		content := testContent(owner)
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return content, nil
			},
		}
		handler := NewContentHandler(contentStore)

		req := authenticatedRequest(t, http.MethodGet, "/api/content/"+content.ID.String(), nil, uuid.New())
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.GetContent(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("returns 404 for missing content", func(t *testing.T) {
		t.Parallel()

		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return nil, store.ErrContentNotFound
			},
		}
		handler := NewContentHandler(contentStore)

		contentID := uuid.New()
		req := authenticatedRequest(t, http.MethodGet, "/api/content/"+contentID.String(), nil, uuid.New())
		req = withURLParam(req, "id", contentID.String())
		rr := httptest.NewRecorder()

		handler.GetContent(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		t.Parallel()

		handler := NewContentHandler(&mockContentStore{})

		req := authenticatedRequest(t, http.MethodGet, "/api/content/not-a-uuid", nil, uuid.New())
		req = withURLParam(req, "id", "not-a-uuid")
		rr := httptest.NewRecorder()

		handler.GetContent(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestContentHandler_UpdateContent(t *testing.T) {
	t.Parallel()

	t.Run("updates fields and status", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		content := testContent(userID)

		var updated *domain.Content
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return content, nil
			},
			updateFn: func(ctx context.Context, c *domain.Content) error {
				updated = c
				return nil
			},
		}
		handler := NewContentHandler(contentStore)

		body := strings.NewReader(`{"title":"Revised","body":"New body","status":"published"}`)
		req := authenticatedRequest(t, http.MethodPut, "/api/content/"+content.ID.String(), body, userID)
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.UpdateContent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "Revised", updated.Title)
		assert.Equal(t, domain.ContentStatusPublished, updated.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		content := testContent(userID)
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return content, nil
			},
		}
		handler := NewContentHandler(contentStore)

		body := strings.NewReader(`{"title":"Revised","body":"New body","status":"retracted"}`)
		req := authenticatedRequest(t, http.MethodPut, "/api/content/"+content.ID.String(), body, userID)
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.UpdateContent(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestContentHandler_DeleteContent(t *testing.T) {
	t.Parallel()

	t.Run("deletes owned content", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		content := testContent(userID)

		var deletedID uuid.UUID
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return content, nil
			},
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				deletedID = id
				return nil
			},
		}
		handler := NewContentHandler(contentStore)

		req := authenticatedRequest(t, http.MethodDelete, "/api/content/"+content.ID.String(), nil, userID)
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.DeleteContent(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, content.ID, deletedID)
	})

	t.Run("does not delete other users' content", func(t *testing.T) {
		t.Parallel()

		content := testContent(uuid.New())

		var deleteCalled bool
		contentStore := &mockContentStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
				return content, nil
			},
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				deleteCalled = true
				return nil
			},
		}
		handler := NewContentHandler(contentStore)

		req := authenticatedRequest(t, http.MethodDelete, "/api/content/"+content.ID.String(), nil, uuid.New())
		req = withURLParam(req, "id", content.ID.String())
		rr := httptest.NewRecorder()

		handler.DeleteContent(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, deleteCalled)
	})
}
