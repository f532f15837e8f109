package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Gemini)
	assert.Equal(t, "text-embedding-004", cfg.Embedder.Gemini.Model)
	assert.Equal(t, 768, cfg.Embedder.Gemini.Dimension)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Embedder.Gemini.APIKeyEnv)

	assert.Equal(t, 4000, cfg.Chunker.MaxChars)
	assert.Equal(t, 600, cfg.Chunker.OverlapChars)

	require.NotNil(t, cfg.VectorStore.Pinecone)
	assert.Equal(t, "rag-app-index", cfg.VectorStore.Pinecone.Index)
	assert.Equal(t, "aws", cfg.VectorStore.Pinecone.Cloud)
	assert.Equal(t, "us-east-1", cfg.VectorStore.Pinecone.Region)

	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 20, cfg.Retrieval.FetchK)
	assert.InDelta(t, 0.5, cfg.Retrieval.Lambda, 1e-9)
	assert.Equal(t, 5, cfg.Retrieval.RerankTopN)

	require.NotNil(t, cfg.Reranker.Cohere)
	assert.Equal(t, "rerank-english-v3.0", cfg.Reranker.Cohere.Model)

	require.NotNil(t, cfg.Generator.Groq)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Generator.Groq.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Generator.Groq.BaseURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultConfig()
	cfg.VectorStore.Pinecone.Index = "custom-index"
	cfg.Retrieval.TopK = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-index", loaded.VectorStore.Pinecone.Index)
	assert.Equal(t, 7, loaded.Retrieval.TopK)
	assert.Equal(t, cfg.Generator.Groq.Model, loaded.Generator.Groq.Model)
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "vector_store:\n  type: pinecone\n  pinecone:\n    index: my-index\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-index", cfg.VectorStore.Pinecone.Index)
	assert.Equal(t, "PINECONE_API_KEY", cfg.VectorStore.Pinecone.APIKeyEnv)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, "gemini", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Gemini)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
