package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the fixed length of document embedding vectors.
// It matches the vector(1536) column type; the database rejects any other
// length, so we validate before issuing the insert.
const EmbeddingDimensions = 1536

// Common validation errors for Document
var (
	ErrEmptyDocumentContent   = errors.New("document content cannot be empty")
	ErrInvalidMetadata        = errors.New("document metadata must be valid JSON")
	ErrInvalidEmbeddingLength = fmt.Errorf(
		"document embedding must have exactly %d dimensions",
		EmbeddingDimensions,
	)
)

// Document represents a searchable text fragment with free-form JSON
// metadata and a fixed-dimension embedding used for nearest-neighbor
// queries. Unlike User and Content it is keyed by a database-assigned
// serial ID, so ID is zero until the document has been stored.
type Document struct {
	ID        int64           `json:"id"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata"`
	Embedding pgvector.Vector `json:"-"`
}

// NewDocument creates a new Document with the given content, metadata and
// embedding. Nil metadata defaults to an empty JSON object, mirroring the
// column default. Returns an error if validation fails.
func NewDocument(content string, metadata json.RawMessage, embedding []float32) (*Document, error) {
	if metadata == nil {
		metadata = json.RawMessage("{}")
	}

	doc := &Document{
		Content:   content,
		Metadata:  metadata,
		Embedding: pgvector.NewVector(embedding),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
// Returns an error if any field fails validation.
func (d *Document) Validate() error {
	if d.Content == "" {
		return ErrEmptyDocumentContent
	}

	if !json.Valid(d.Metadata) {
		return ErrInvalidMetadata
	}

	if len(d.Embedding.Slice()) != EmbeddingDimensions {
		return ErrInvalidEmbeddingLength
	}

	return nil
}
