package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
)

// ContentStore defines the interface for content entry persistence.
type ContentStore interface {
	// Create saves a new content entry to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	// Returns validation errors from the domain Content if data is invalid.
	Create(ctx context.Context, content *domain.Content) error

	// GetByID retrieves a content entry by its unique ID.
	// Returns ErrContentNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Content, error)

	// ListByUser retrieves all content entries owned by the given user,
	// most recently created first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Content, error)

	// Update modifies an existing entry's title, body and status.
	// Returns ErrContentNotFound if the entry does not exist.
	Update(ctx context.Context, content *domain.Content) error

	// Delete removes a content entry from the store by its ID.
	// Returns ErrContentNotFound if the entry does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ContentStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ContentStore
}
