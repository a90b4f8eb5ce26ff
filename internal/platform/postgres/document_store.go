package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/platform/logger"
	"github.com/inkwell-cms/inkwell-api/internal/store"
	"github.com/pgvector/pgvector-go"
)

// DocumentStore implements the store.DocumentStore interface using a
// PostgreSQL database with the pgvector extension as the storage backend.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.Create
// It saves a new document and populates its database-assigned ID.
// The embedding length is validated before the insert so a wrong-sized
// vector fails here rather than as an opaque column-type error.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO documents (content, metadata, embedding)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		doc.Content,
		string(doc.Metadata),
		doc.Embedding,
	).Scan(&doc.ID)

	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()))
		return err
	}

	log.Info("document created successfully",
		slog.Int64("document_id", doc.ID))
	return nil
}

// GetByID implements store.DocumentStore.GetByID
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *DocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	query := `
		SELECT id, content, metadata, embedding
		FROM documents
		WHERE id = $1
	`
	return s.scanDocument(s.db.QueryRowContext(ctx, query, id))
}

// SemanticSearch implements store.DocumentStore.SemanticSearch
// It returns up to limit documents ordered by ascending L2 distance from
// the query embedding, using the pgvector <-> operator so the HNSW index
// can serve the scan.
func (s *DocumentStore) SemanticSearch(
	ctx context.Context,
	embedding pgvector.Vector,
	limit int,
) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if got := len(embedding.Slice()); got != domain.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidEmbeddingLength, got)
	}

	query := `
		SELECT id, content, metadata, embedding
		FROM documents
		ORDER BY embedding <-> $1
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, embedding, limit)
	if err != nil {
		log.Error("semantic search query failed",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows",
				slog.String("error", closeErr.Error()))
		}
	}()

	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		var metadata string
		if err := rows.Scan(&doc.ID, &doc.Content, &metadata, &doc.Embedding); err != nil {
			return nil, err
		}
		doc.Metadata = []byte(metadata)
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// Delete implements store.DocumentStore.Delete
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return store.ErrDocumentNotFound
	}

	return nil
}

// WithTx implements store.DocumentStore.WithTx
func (s *DocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &DocumentStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanDocument maps a single-row query result onto a domain Document.
func (s *DocumentStore) scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var metadata string

	err := row.Scan(&doc.ID, &doc.Content, &metadata, &doc.Embedding)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, err
	}

	doc.Metadata = []byte(metadata)
	return &doc, nil
}
