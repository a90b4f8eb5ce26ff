package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/platform/logger"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// ContentStore implements the store.ContentStore interface using a
// PostgreSQL database as the storage backend.
type ContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewContentStore creates a new PostgreSQL implementation of the
// ContentStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewContentStore(db store.DBTX, logger *slog.Logger) *ContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure ContentStore implements store.ContentStore interface
var _ store.ContentStore = (*ContentStore)(nil)

// Create implements store.ContentStore.Create
// It saves a new content entry to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owning user does not exist
// (foreign key violation).
func (s *ContentStore) Create(ctx context.Context, content *domain.Content) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("content validation failed during create",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	query := `
		INSERT INTO content (id, user_id, title, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		content.ID,
		content.UserID,
		content.Title,
		content.Body,
		content.Status,
		content.CreatedAt,
		content.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during content creation",
				slog.String("error", err.Error()),
				slog.String("content_id", content.ID.String()),
				slog.String("user_id", content.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, content.UserID)
		}

		log.Error("failed to create content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()),
			slog.String("user_id", content.UserID.String()))
		return err
	}

	log.Info("content created successfully",
		slog.String("content_id", content.ID.String()),
		slog.String("user_id", content.UserID.String()),
		slog.String("status", string(content.Status)))
	return nil
}

// GetByID implements store.ContentStore.GetByID
// Returns store.ErrContentNotFound if the entry does not exist.
func (s *ContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	query := `
		SELECT id, user_id, title, body, status, created_at, updated_at
		FROM content
		WHERE id = $1
	`

	var content domain.Content
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&content.ID,
		&content.UserID,
		&content.Title,
		&content.Body,
		&content.Status,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContentNotFound
		}
		return nil, err
	}

	return &content, nil
}

// ListByUser implements store.ContentStore.ListByUser
// Entries are returned most recently created first.
func (s *ContentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Content, error) {
	query := `
		SELECT id, user_id, title, body, status, created_at, updated_at
		FROM content
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows",
				slog.String("error", closeErr.Error()))
		}
	}()

	var entries []*domain.Content
	for rows.Next() {
		var content domain.Content
		if err := rows.Scan(
			&content.ID,
			&content.UserID,
			&content.Title,
			&content.Body,
			&content.Status,
			&content.CreatedAt,
			&content.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &content)
	}

	return entries, rows.Err()
}

// Update implements store.ContentStore.Update
// Returns store.ErrContentNotFound if the entry does not exist.
func (s *ContentStore) Update(ctx context.Context, content *domain.Content) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE content
		SET title = $2, body = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, content.ID, content.Title, content.Body, content.Status)
	if err != nil {
		log.Error("failed to update content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return store.ErrContentNotFound
	}

	return nil
}

// Delete implements store.ContentStore.Delete
// Returns store.ErrContentNotFound if the entry does not exist.
func (s *ContentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return store.ErrContentNotFound
	}

	return nil
}

// WithTx implements store.ContentStore.WithTx
func (s *ContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return &ContentStore{
		db:     tx,
		logger: s.logger,
	}
}
