package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ragpartner/internal/domain"
)

// CohereClient reorders retrieval candidates with the Cohere rerank API.
type CohereClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewCohereClient(cfg Config, logger *slog.Logger) (*CohereClient, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cohere.com"
	}
	if cfg.Model == "" {
		cfg.Model = "rerank-english-v3.0"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &CohereClient{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank scores the candidates against the query and returns up to topN of
// them in relevance order. Results keep their chunks; scores become the
// reranker's relevance scores.
func (c *CohereClient) Rerank(ctx context.Context, query string, candidates []domain.SearchResult, topN int) ([]domain.SearchResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	start := time.Now()

	documents := make([]string, len(candidates))
	for i, cand := range candidates {
		documents[i] = cand.Chunk.Text
	}
	payload, err := json.Marshal(rerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rerank endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rerank endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var out rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Index < 0 || r.Index >= len(candidates) {
			return nil, fmt.Errorf("invalid rerank index %d for %d candidates", r.Index, len(candidates))
		}
		results = append(results, domain.SearchResult{
			Chunk: candidates[r.Index].Chunk,
			Score: r.RelevanceScore,
		})
	}

	c.logger.Info("reranking completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(results)),
		slog.String("model", c.model),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return results, nil
}
