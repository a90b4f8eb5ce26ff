//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
	"github.com/inkwell-cms/inkwell-api/internal/testdb"
)

// embeddingAt returns a 1536-dim vector whose first component is v, so
// L2 distance from the zero vector orders documents by |v|.
func embeddingAt(v float32) []float32 {
	e := make([]float32, domain.EmbeddingDimensions)
	e[0] = v
	return e
}

func mustCreateDocument(t *testing.T, tdb *testdb.TestDB, content string, v float32) *domain.Document {
	t.Helper()

	doc, err := domain.NewDocument(content, json.RawMessage(`{"source":"test"}`), embeddingAt(v))
	require.NoError(t, err)
	require.NoError(t, tdb.Documents.Create(context.Background(), doc))
	require.NotZero(t, doc.ID, "Create must populate the assigned ID")
	return doc
}

func TestDocumentStore_CreateAndGet(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, tdb, "stored text", 0.5)

	got, err := tdb.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored text", got.Content)
	assert.JSONEq(t, `{"source":"test"}`, string(got.Metadata))
	assert.Len(t, got.Embedding.Slice(), domain.EmbeddingDimensions)
}

func TestDocumentStore_CreateRejectsWrongDimensions(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	doc := &domain.Document{
		Content:   "bad vector",
		Metadata:  json.RawMessage(`{}`),
		Embedding: pgvector.NewVector(make([]float32, 3)),
	}

	err := tdb.Documents.Create(ctx, doc)
	assert.ErrorIs(t, err, domain.ErrInvalidEmbeddingLength)
}

func TestDocumentStore_SemanticSearchOrdersByDistance(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	mustCreateDocument(t, tdb, "far", 10)
	mustCreateDocument(t, tdb, "near", 1)
	mustCreateDocument(t, tdb, "middle", 5)

	docs, err := tdb.Documents.SemanticSearch(ctx, pgvector.NewVector(embeddingAt(0)), 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "near", docs[0].Content)
	assert.Equal(t, "middle", docs[1].Content)
	assert.Equal(t, "far", docs[2].Content)
}

func TestDocumentStore_SemanticSearchHonoursLimit(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreateDocument(t, tdb, "doc", float32(i))
	}

	docs, err := tdb.Documents.SemanticSearch(ctx, pgvector.NewVector(embeddingAt(0)), 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentStore_SemanticSearchRejectsWrongQueryDimensions(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	_, err := tdb.Documents.SemanticSearch(ctx, pgvector.NewVector(make([]float32, 768)), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidEmbeddingLength)
}

func TestDocumentStore_Delete(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, tdb, "short lived", 1)
	require.NoError(t, tdb.Documents.Delete(ctx, doc.ID))

	_, err := tdb.Documents.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	err = tdb.Documents.Delete(ctx, doc.ID)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentStore_MetadataColumnDefault(t *testing.T) {
	tdb := testdb.MustProvision(t)
	ctx := context.Background()

	doc, err := domain.NewDocument("defaulted metadata", nil, embeddingAt(1))
	require.NoError(t, err)
	require.NoError(t, tdb.Documents.Create(ctx, doc))

	got, err := tdb.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Metadata))
}
