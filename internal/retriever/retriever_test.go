package retriever

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragpartner/internal/domain"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

func (s *stubEmbedder) Dimension() int { return len(s.vector) }

type stubStore struct {
	results   []domain.SearchResult
	err       error
	namespace string
}

func (s *stubStore) EnsureIndex(ctx context.Context, dimension int) error { return nil }

func (s *stubStore) Upsert(ctx context.Context, namespace string, entries []domain.Entry) error {
	return nil
}

func (s *stubStore) Query(ctx context.Context, namespace string, vector []float32, k, fetchK int, lambda float64) ([]domain.SearchResult, error) {
	s.namespace = namespace
	return s.results, s.err
}

func (s *stubStore) DeleteNamespace(ctx context.Context, namespace string) error { return nil }

func (s *stubStore) DeleteAll(ctx context.Context) error { return nil }

type stubReranker struct {
	results []domain.SearchResult
	err     error
	called  bool
}

func (s *stubReranker) Rerank(ctx context.Context, query string, candidates []domain.SearchResult, topN int) ([]domain.SearchResult, error) {
	s.called = true
	return s.results, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chunkResults(ids ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, len(ids))
	for i, id := range ids {
		out[i] = domain.SearchResult{Chunk: domain.Chunk{ID: id, Text: "text " + id}, Score: 1 - float64(i)*0.1}
	}
	return out
}

func TestRetrieveRerankedOrder(t *testing.T) {
	store := &stubStore{results: chunkResults("a", "b", "c")}
	reranker := &stubReranker{results: chunkResults("c", "a")}
	r := New(&stubEmbedder{vector: []float32{1}}, store, reranker, Config{K: 3, FetchK: 6, Lambda: 0.5, TopN: 2}, testLogger())

	results, err := r.Retrieve(context.Background(), "query", "docs")
	require.NoError(t, err)
	require.True(t, reranker.called)
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].Chunk.ID)
	assert.Equal(t, "a", results[1].Chunk.ID)
	assert.Equal(t, "docs", store.namespace)
}

func TestRetrieveFallsBackWhenRerankerFails(t *testing.T) {
	store := &stubStore{results: chunkResults("a", "b", "c", "d")}
	reranker := &stubReranker{err: errors.New("rerank service unavailable")}
	r := New(&stubEmbedder{vector: []float32{1}}, store, reranker, Config{K: 4, FetchK: 8, Lambda: 0.5, TopN: 3}, testLogger())

	results, err := r.Retrieve(context.Background(), "query", "docs")
	require.NoError(t, err)
	require.True(t, reranker.called)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
	assert.Equal(t, "c", results[2].Chunk.ID)
}

func TestRetrieveWithoutRerankerTruncatesSimilarityOrder(t *testing.T) {
	store := &stubStore{results: chunkResults("a", "b", "c", "d")}
	r := New(&stubEmbedder{vector: []float32{1}}, store, nil, Config{K: 4, FetchK: 8, Lambda: 0.5, TopN: 2}, testLogger())

	results, err := r.Retrieve(context.Background(), "query", "docs")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
}

func TestRetrieveEmptyNamespaceIsNotAnError(t *testing.T) {
	store := &stubStore{}
	reranker := &stubReranker{}
	r := New(&stubEmbedder{vector: []float32{1}}, store, reranker, Config{}, testLogger())

	results, err := r.Retrieve(context.Background(), "query", "empty")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, reranker.called, "reranker must not run on empty candidate sets")
}

func TestRetrievePropagatesEmbedderError(t *testing.T) {
	r := New(&stubEmbedder{err: errors.New("rate limited")}, &stubStore{}, nil, Config{}, testLogger())
	_, err := r.Retrieve(context.Background(), "query", "docs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrievePropagatesStoreError(t *testing.T) {
	store := &stubStore{err: errors.New("index outage")}
	r := New(&stubEmbedder{vector: []float32{1}}, store, nil, Config{}, testLogger())
	_, err := r.Retrieve(context.Background(), "query", "docs")
	require.Error(t, err)
}
