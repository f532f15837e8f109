package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"ragpartner/internal/domain"
	"ragpartner/internal/vectorstore"
)

const (
	controlPlaneURL = "https://api.pinecone.io"
	apiVersion      = "2024-07"
	// Pinecone rejects oversized upsert requests, so batches are capped.
	upsertBatchSize = 100
)

// Store is a minimal REST client to a Pinecone serverless index. The index
// is created on EnsureIndex with cosine metric; the data-plane host is
// resolved from the control plane and cached.
type Store struct {
	apiKey    string
	indexName string
	cloud     string
	region    string
	dimension int
	host      string
	client    *http.Client
}

type Config struct {
	APIKeyEnv string
	IndexName string
	Cloud     string
	Region    string
	Timeout   time.Duration
}

func NewStore(cfg Config) (*Store, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.IndexName == "" {
		return nil, errors.New("pinecone index name is required")
	}
	if cfg.Cloud == "" {
		cfg.Cloud = "aws"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		apiKey:    key,
		indexName: cfg.IndexName,
		cloud:     cfg.Cloud,
		region:    cfg.Region,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// EnsureIndex creates the serverless index if missing. An existing index
// with the same name is success; safe to call repeatedly.
func (s *Store) EnsureIndex(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"name":      s.indexName,
		"dimension": dimension,
		"metric":    "cosine",
		"spec": map[string]any{
			"serverless": map[string]any{
				"cloud":  s.cloud,
				"region": s.region,
			},
		},
	}
	status, err := s.doJSON(ctx, http.MethodPost, controlPlaneURL+"/indexes", body, nil)
	if err != nil {
		return err
	}
	// 409 means the index already exists.
	if status >= 300 && status != http.StatusConflict {
		return fmt.Errorf("pinecone create index failed: status %d", status)
	}
	return nil
}

// Upsert writes entries under the namespace in provider-safe batches.
// A failing batch fails the whole call; earlier batches are not rolled back.
func (s *Store) Upsert(ctx context.Context, namespace string, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(entries); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		vectors := make([]map[string]any, 0, end-start)
		for _, e := range entries[start:end] {
			vectors = append(vectors, map[string]any{
				"id":     e.ID,
				"values": e.Vector,
				"metadata": map[string]any{
					"text":     e.Chunk.Text,
					"source":   e.Chunk.SourceName,
					"title":    e.Chunk.Title,
					"section":  e.Chunk.Section,
					"position": e.Chunk.Position,
				},
			})
		}
		body := map[string]any{"vectors": vectors, "namespace": namespace}
		status, err := s.doJSON(ctx, http.MethodPost, host+"/vectors/upsert", body, nil)
		if err != nil {
			return err
		}
		if status >= 300 {
			return fmt.Errorf("pinecone upsert failed: status %d", status)
		}
	}
	return nil
}

// Query fetches the fetchK nearest entries in the namespace and MMR-selects
// k of them client-side, using the vectors returned with each match.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, k, fetchK int, lambda float64) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 5
	}
	if fetchK < k {
		fetchK = k
	}
	host, err := s.resolveHost(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"namespace":       namespace,
		"vector":          vector,
		"topK":            fetchK,
		"includeMetadata": true,
		"includeValues":   true,
	}
	var resp struct {
		Matches []struct {
			ID       string    `json:"id"`
			Score    float64   `json:"score"`
			Values   []float32 `json:"values"`
			Metadata struct {
				Text     string  `json:"text"`
				Source   string  `json:"source"`
				Title    string  `json:"title"`
				Section  string  `json:"section"`
				Position float64 `json:"position"`
			} `json:"metadata"`
		} `json:"matches"`
	}
	status, err := s.doJSON(ctx, http.MethodPost, host+"/query", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("pinecone query failed: status %d", status)
	}
	if len(resp.Matches) == 0 {
		return nil, nil
	}

	candidates := make([]vectorstore.Candidate, len(resp.Matches))
	for i, m := range resp.Matches {
		candidates[i] = vectorstore.Candidate{Vector: m.Values, Score: m.Score}
	}
	picked := vectorstore.MaximalMarginalRelevance(candidates, k, lambda)

	results := make([]domain.SearchResult, 0, len(picked))
	for _, i := range picked {
		m := resp.Matches[i]
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:         m.ID,
				Text:       m.Metadata.Text,
				SourceName: m.Metadata.Source,
				Title:      m.Metadata.Title,
				Section:    m.Metadata.Section,
				Position:   int(m.Metadata.Position),
			},
			Score: m.Score,
		})
	}
	return results, nil
}

// DeleteNamespace removes every entry in the namespace. A namespace the
// index has never seen reports success.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	return s.deleteAll(ctx, namespace)
}

// DeleteAll wipes the default namespace and every named one.
func (s *Store) DeleteAll(ctx context.Context) error {
	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}
	var resp struct {
		Namespaces map[string]any `json:"namespaces"`
	}
	status, err := s.doJSON(ctx, http.MethodGet, host+"/describe_index_stats", nil, &resp)
	if err != nil {
		return err
	}
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("pinecone describe index failed: status %d", status)
	}
	for ns := range resp.Namespaces {
		if err := s.deleteAll(ctx, ns); err != nil {
			return err
		}
	}
	return s.deleteAll(ctx, "")
}

func (s *Store) deleteAll(ctx context.Context, namespace string) error {
	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{"deleteAll": true}
	if namespace != "" {
		body["namespace"] = namespace
	}
	status, err := s.doJSON(ctx, http.MethodPost, host+"/vectors/delete", body, nil)
	if err != nil {
		return err
	}
	// Deleting an absent namespace is idempotent success.
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("pinecone delete failed: status %d", status)
	}
	return nil
}

// resolveHost looks up the index data-plane host once and caches it.
func (s *Store) resolveHost(ctx context.Context) (string, error) {
	if s.host != "" {
		return s.host, nil
	}
	var resp struct {
		Host string `json:"host"`
	}
	status, err := s.doJSON(ctx, http.MethodGet, controlPlaneURL+"/indexes/"+s.indexName, nil, &resp)
	if err != nil {
		return "", err
	}
	if status >= 300 {
		return "", fmt.Errorf("pinecone describe index %q failed: status %d", s.indexName, status)
	}
	if resp.Host == "" {
		return "", fmt.Errorf("pinecone index %q has no host", s.indexName)
	}
	s.host = "https://" + resp.Host
	return s.host, nil
}

func (s *Store) doJSON(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
