package domain

import "context"

// Document is a single ingested source, mapped 1:1 to an index namespace.
type Document struct {
	SourceName string
	Title      string
	Namespace  string
}

// Chunk is a bounded, overlapping segment of a document used for indexing.
type Chunk struct {
	ID         string
	Text       string
	SourceName string
	Title      string
	Section    string
	Position   int
}

// Entry is what the index store persists for one chunk.
type Entry struct {
	ID     string
	Vector []float32
	Chunk  Chunk
}

// SearchResult is a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Source is a retrieved chunk annotated with its 1-based citation number.
type Source struct {
	Citation   int
	SourceName string
	Title      string
	Text       string
}

// Answer is generated text together with the sources its citations refer to.
type Answer struct {
	Text    string
	Sources []Source
}

// Chunker splits raw document text into an ordered chunk sequence.
type Chunker interface {
	Chunk(text string) ([]Chunk, error)
}

// Embedder converts free text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Store persists vectors under namespaces and supports similarity search
// with diversity-weighted (MMR) selection.
type Store interface {
	EnsureIndex(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, namespace string, entries []Entry) error
	Query(ctx context.Context, namespace string, vector []float32, k, fetchK int, lambda float64) ([]SearchResult, error)
	DeleteNamespace(ctx context.Context, namespace string) error
	DeleteAll(ctx context.Context) error
}

// Reranker reorders candidates by query relevance and truncates to topN.
// On error, callers fall back to the pre-rerank ordering.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []SearchResult, topN int) ([]SearchResult, error)
}

// Generator produces answer text for a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
