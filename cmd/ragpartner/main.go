package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragpartner/internal/chunker"
	"ragpartner/internal/config"
	"ragpartner/internal/domain"
	"ragpartner/internal/embedding/gemini"
	"ragpartner/internal/generator"
	"ragpartner/internal/generator/groq"
	"ragpartner/internal/logging"
	"ragpartner/internal/registry"
	"ragpartner/internal/rerank"
	"ragpartner/internal/retriever"
	"ragpartner/internal/service"
	"ragpartner/internal/tui"
	"ragpartner/internal/vectorstore/memory"
	"ragpartner/internal/vectorstore/pinecone"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragpartner/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: ragpartner [--config=config.yaml] file1.txt [file2.pdf ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New()
	ctx := context.Background()

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "gemini", "":
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKeyEnv: cfg.Embedder.Gemini.APIKeyEnv,
			Model:     cfg.Embedder.Gemini.Model,
			Dimension: cfg.Embedder.Gemini.Dimension,
		})
		if err != nil {
			log.Fatalf("gemini embedder init failed: %v", err)
		}
		defer client.Close()
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "recursive", "":
		ch = chunker.NewRecursiveChunker(cfg.Chunker.MaxChars, cfg.Chunker.OverlapChars)
	default:
		log.Fatalf("unknown chunker: %s", cfg.Chunker.Type)
	}

	var st domain.Store
	switch cfg.VectorStore.Type {
	case "pinecone", "":
		pc := cfg.VectorStore.Pinecone
		store, err := pinecone.NewStore(pinecone.Config{
			APIKeyEnv: pc.APIKeyEnv,
			IndexName: pc.Index,
			Cloud:     pc.Cloud,
			Region:    pc.Region,
			Timeout:   time.Duration(pc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("pinecone store init failed: %v", err)
		}
		st = store
	case "memory":
		st = memory.NewStore()
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	// Reranking is an explicit capability: nil means the retriever keeps
	// the similarity ordering.
	var rr domain.Reranker
	switch cfg.Reranker.Type {
	case "cohere", "":
		client, err := rerank.NewCohereClient(rerank.Config{
			APIKeyEnv: cfg.Reranker.Cohere.APIKeyEnv,
			Model:     cfg.Reranker.Cohere.Model,
			Timeout:   time.Duration(cfg.Reranker.Cohere.TimeoutSecs) * time.Second,
		}, logger)
		if err != nil {
			log.Fatalf("cohere reranker init failed: %v", err)
		}
		rr = client
	case "none":
		rr = nil
	default:
		log.Fatalf("unknown reranker: %s", cfg.Reranker.Type)
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "groq", "":
		client, err := groq.NewClient(groq.Config{
			BaseURL:   cfg.Generator.Groq.BaseURL,
			APIKeyEnv: cfg.Generator.Groq.APIKeyEnv,
			Model:     cfg.Generator.Groq.Model,
			Timeout:   time.Duration(cfg.Generator.Groq.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("groq generator init failed: %v", err)
		}
		gen = client
	default:
		log.Fatalf("unknown generator: %s", cfg.Generator.Type)
	}

	if err := st.EnsureIndex(ctx, emb.Dimension()); err != nil {
		log.Fatalf("ensure index failed: %v", err)
	}

	ret := retriever.New(emb, st, rr, retriever.Config{
		K:      cfg.Retrieval.TopK,
		FetchK: cfg.Retrieval.FetchK,
		Lambda: cfg.Retrieval.Lambda,
		TopN:   cfg.Retrieval.RerankTopN,
	}, logger)
	reg := registry.New(st)
	svc := service.NewRAGService(ch, emb, st, ret, generator.NewAnswerer(gen), reg, logger)

	for _, path := range inputs {
		if _, err := svc.IngestFile(ctx, path); err != nil {
			log.Fatalf("ingest %s failed: %v", path, err)
		}
	}

	m := tui.New(svc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
