package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"ragpartner/internal/domain"
)

// Config holds the two-stage retrieval parameters. FetchK candidates are
// pulled from the store, K survive MMR selection, TopN survive reranking.
type Config struct {
	K      int
	FetchK int
	Lambda float64
	TopN   int
}

func DefaultConfig() Config {
	return Config{K: 10, FetchK: 20, Lambda: 0.5, TopN: 5}
}

// Retriever performs diversity-aware similarity search followed by
// relevance reranking. A nil reranker means the capability is absent and
// the similarity ordering is used directly.
type Retriever struct {
	embedder domain.Embedder
	store    domain.Store
	reranker domain.Reranker
	cfg      Config
	logger   *slog.Logger
}

func New(embedder domain.Embedder, store domain.Store, reranker domain.Reranker, cfg Config, logger *slog.Logger) *Retriever {
	if cfg.K <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.FetchK < cfg.K {
		cfg.FetchK = cfg.K
	}
	if cfg.TopN <= 0 || cfg.TopN > cfg.K {
		cfg.TopN = cfg.K
	}
	return &Retriever{embedder: embedder, store: store, reranker: reranker, cfg: cfg, logger: logger}
}

// Retrieve returns up to TopN chunks for the query, ordered by relevance.
// An empty namespace or no matches yields an empty slice, not an error.
// A reranker failure degrades to the pre-rerank ordering.
func (r *Retriever) Retrieve(ctx context.Context, query, namespace string) ([]domain.SearchResult, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.store.Query(ctx, namespace, vector, r.cfg.K, r.cfg.FetchK, r.cfg.Lambda)
	if err != nil {
		return nil, fmt.Errorf("query namespace %q: %w", namespace, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if r.reranker == nil {
		return head(candidates, r.cfg.TopN), nil
	}
	reranked, err := r.reranker.Rerank(ctx, query, candidates, r.cfg.TopN)
	if err != nil {
		r.logger.Warn("reranking failed, using similarity order",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()))
		return head(candidates, r.cfg.TopN), nil
	}
	return head(reranked, r.cfg.TopN), nil
}

func head(results []domain.SearchResult, n int) []domain.SearchResult {
	if n < len(results) {
		return results[:n]
	}
	return results
}
