package api

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/inkwell-cms/inkwell-api/internal/api/shared"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// mockUserStore is a configurable in-memory store.UserStore.
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	updateFn     func(ctx context.Context, user *domain.User) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockContentStore is a configurable in-memory store.ContentStore.
type mockContentStore struct {
	createFn     func(ctx context.Context, content *domain.Content) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Content, error)
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Content, error)
	updateFn     func(ctx context.Context, content *domain.Content) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

var _ store.ContentStore = (*mockContentStore)(nil)

func (m *mockContentStore) Create(ctx context.Context, content *domain.Content) error {
	if m.createFn != nil {
		return m.createFn(ctx, content)
	}
	return nil
}

func (m *mockContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrContentNotFound
}

func (m *mockContentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Content, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockContentStore) Update(ctx context.Context, content *domain.Content) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, content)
	}
	return nil
}

func (m *mockContentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockContentStore) WithTx(tx *sql.Tx) store.ContentStore { return m }

// mockDocumentStore is a configurable in-memory store.DocumentStore.
type mockDocumentStore struct {
	createFn func(ctx context.Context, doc *domain.Document) error
	searchFn func(ctx context.Context, embedding pgvector.Vector, limit int) ([]*domain.Document, error)
}

var _ store.DocumentStore = (*mockDocumentStore)(nil)

func (m *mockDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	doc.ID = 1
	return nil
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	return nil, store.ErrDocumentNotFound
}

func (m *mockDocumentStore) SemanticSearch(
	ctx context.Context,
	embedding pgvector.Vector,
	limit int,
) ([]*domain.Document, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, embedding, limit)
	}
	return nil, nil
}

func (m *mockDocumentStore) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore { return m }

// stubEmbedder returns a fixed-size vector for any input.
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, domain.EmbeddingDimensions), nil
}

// authenticatedRequest builds a request whose context carries the given
// user ID, as the auth middleware would have set it.
func authenticatedRequest(t *testing.T, method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}
