package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ragpartner/internal/config"
	"ragpartner/internal/vectorstore/pinecone"
)

// Ensures the vector index exists (idempotent) and optionally wipes all
// entries with -reset.
func main() {
	_ = godotenv.Load()

	var cfgPath string
	var reset bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.BoolVar(&reset, "reset", false, "Delete every entry in the index after ensuring it exists")
	flag.Parse()

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
	if cfg.VectorStore.Type != "pinecone" && cfg.VectorStore.Type != "" {
		log.Fatalf("reset-index only supports the pinecone store, got %q", cfg.VectorStore.Type)
	}

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

	ctx := context.Background()
	dimension := 768
	if cfg.Embedder.Gemini != nil && cfg.Embedder.Gemini.Dimension > 0 {
		dimension = cfg.Embedder.Gemini.Dimension
	}
	if err := store.EnsureIndex(ctx, dimension); err != nil {
		log.Fatalf("ensure index failed: %v", err)
	}
	fmt.Printf("Index %q ready (dimension %d, cosine).\n", pc.Index, dimension)

	if reset {
		if err := store.DeleteAll(ctx); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		fmt.Println("Index cleared.")
	}
	os.Exit(0)
}
