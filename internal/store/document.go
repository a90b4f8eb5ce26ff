package store

import (
	"context"
	"database/sql"

	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/pgvector/pgvector-go"
)

// DocumentStore defines the interface for document persistence and
// vector similarity search.
type DocumentStore interface {
	// Create saves a new document to the store and populates its
	// database-assigned ID on success.
	// Returns validation errors from the domain Document if data is
	// invalid, including embeddings that are not exactly 1536-dimensional.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Document, error)

	// SemanticSearch returns up to limit documents ordered by ascending
	// L2 distance between their embedding and the query embedding.
	SemanticSearch(ctx context.Context, embedding pgvector.Vector, limit int) ([]*domain.Document, error)

	// Delete removes a document from the store by its ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new DocumentStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) DocumentStore
}
