package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GeminiEmbedderConfig holds settings for the Gemini embedding model.
type GeminiEmbedderConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Gemini *GeminiEmbedderConfig `yaml:"gemini,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type         string `yaml:"type"`
	MaxChars     int    `yaml:"max_chars"`
	OverlapChars int    `yaml:"overlap_chars"`
}

// PineconeConfig contains connection details for a Pinecone index.
type PineconeConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	Index       string `yaml:"index"`
	Cloud       string `yaml:"cloud"`
	Region      string `yaml:"region"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type     string          `yaml:"type"`
	Pinecone *PineconeConfig `yaml:"pinecone,omitempty"`
}

// RetrievalConfig holds the two-stage retrieval parameters.
type RetrievalConfig struct {
	TopK       int     `yaml:"top_k"`
	FetchK     int     `yaml:"fetch_k"`
	Lambda     float64 `yaml:"lambda"`
	RerankTopN int     `yaml:"rerank_top_n"`
}

// CohereRerankerConfig holds settings for the Cohere rerank API.
type CohereRerankerConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RerankerConfig selects the reranking stage. Type "none" disables it and
// the retriever truncates the similarity ordering instead.
type RerankerConfig struct {
	Type   string                `yaml:"type"`
	Cohere *CohereRerankerConfig `yaml:"cohere,omitempty"`
}

// GroqGeneratorConfig holds settings for the Groq chat completions API.
type GroqGeneratorConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeneratorConfig selects and configures the answer generator model.
type GeneratorConfig struct {
	Type string               `yaml:"type"`
	Groq *GroqGeneratorConfig `yaml:"groq,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Reranker    RerankerConfig    `yaml:"reranker"`
	Generator   GeneratorConfig   `yaml:"generator"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragpartner/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragpartner", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "gemini"},
		Chunker:     ChunkerConfig{Type: "recursive"},
		VectorStore: VectorStoreConfig{Type: "pinecone"},
		Reranker:    RerankerConfig{Type: "cohere"},
		Generator:   GeneratorConfig{Type: "groq"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "recursive"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "pinecone"
	}
	if cfg.Reranker.Type == "" {
		cfg.Reranker.Type = "cohere"
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "groq"
	}
	if cfg.Chunker.MaxChars == 0 {
		// Character proxy for 800-1200 token chunks with ~15% overlap.
		cfg.Chunker.MaxChars = 4000
	}
	if cfg.Chunker.OverlapChars == 0 {
		cfg.Chunker.OverlapChars = 600
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.FetchK == 0 {
		cfg.Retrieval.FetchK = 20
	}
	if cfg.Retrieval.Lambda == 0 {
		cfg.Retrieval.Lambda = 0.5
	}
	if cfg.Retrieval.RerankTopN == 0 {
		cfg.Retrieval.RerankTopN = 5
	}
	if cfg.Embedder.Type == "gemini" {
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &GeminiEmbedderConfig{}
		}
		if cfg.Embedder.Gemini.APIKeyEnv == "" {
			cfg.Embedder.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if cfg.Embedder.Gemini.Model == "" {
			cfg.Embedder.Gemini.Model = "text-embedding-004"
		}
		if cfg.Embedder.Gemini.Dimension == 0 {
			cfg.Embedder.Gemini.Dimension = 768
		}
	}
	if cfg.VectorStore.Type == "pinecone" {
		if cfg.VectorStore.Pinecone == nil {
			cfg.VectorStore.Pinecone = &PineconeConfig{}
		}
		if cfg.VectorStore.Pinecone.APIKeyEnv == "" {
			cfg.VectorStore.Pinecone.APIKeyEnv = "PINECONE_API_KEY"
		}
		if cfg.VectorStore.Pinecone.Index == "" {
			cfg.VectorStore.Pinecone.Index = "rag-app-index"
		}
		if cfg.VectorStore.Pinecone.Cloud == "" {
			cfg.VectorStore.Pinecone.Cloud = "aws"
		}
		if cfg.VectorStore.Pinecone.Region == "" {
			cfg.VectorStore.Pinecone.Region = "us-east-1"
		}
		if cfg.VectorStore.Pinecone.TimeoutSecs == 0 {
			cfg.VectorStore.Pinecone.TimeoutSecs = 30
		}
	}
	if cfg.Reranker.Type == "cohere" {
		if cfg.Reranker.Cohere == nil {
			cfg.Reranker.Cohere = &CohereRerankerConfig{}
		}
		if cfg.Reranker.Cohere.APIKeyEnv == "" {
			cfg.Reranker.Cohere.APIKeyEnv = "COHERE_API_KEY"
		}
		if cfg.Reranker.Cohere.Model == "" {
			cfg.Reranker.Cohere.Model = "rerank-english-v3.0"
		}
		if cfg.Reranker.Cohere.TimeoutSecs == 0 {
			cfg.Reranker.Cohere.TimeoutSecs = 30
		}
	}
	if cfg.Generator.Type == "groq" {
		if cfg.Generator.Groq == nil {
			cfg.Generator.Groq = &GroqGeneratorConfig{}
		}
		if cfg.Generator.Groq.BaseURL == "" {
			cfg.Generator.Groq.BaseURL = "https://api.groq.com/openai/v1"
		}
		if cfg.Generator.Groq.APIKeyEnv == "" {
			cfg.Generator.Groq.APIKeyEnv = "GROQ_API_KEY"
		}
		if cfg.Generator.Groq.Model == "" {
			cfg.Generator.Groq.Model = "llama-3.3-70b-versatile"
		}
		if cfg.Generator.Groq.TimeoutSecs == 0 {
			cfg.Generator.Groq.TimeoutSecs = 60
		}
	}
}
