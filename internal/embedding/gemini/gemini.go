package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ragpartner/internal/domain"
)

// Client embeds text with a Google Gemini embedding model.
type Client struct {
	client    *genai.Client
	model     string
	dimension int
}

type Config struct {
	APIKeyEnv string
	Model     string
	Dimension int
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 768
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	return &Client{client: client, model: cfg.Model, dimension: cfg.Dimension}, nil
}

// Embed returns the embedding vector for the given text. Provider failures
// are wrapped; a reply without a vector is domain.ErrNoEmbedding.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, domain.ErrNoEmbedding
	}
	if c.dimension == 0 {
		c.dimension = len(resp.Embedding.Values)
	}
	return resp.Embedding.Values, nil
}

// Dimension returns the dimensionality of produced vectors.
func (c *Client) Dimension() int { return c.dimension }

func (c *Client) Close() error { return c.client.Close() }
