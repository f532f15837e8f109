package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"ragpartner/internal/domain"
	"ragpartner/internal/extract"
	"ragpartner/internal/generator"
	"ragpartner/internal/registry"
	"ragpartner/internal/retriever"
)

// RAGService wires the ingestion and answering pipelines together. One
// request runs to completion before the next; there is no retry layer.
type RAGService struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.Store
	retriever *retriever.Retriever
	answerer  *generator.Answerer
	registry  *registry.Registry
	logger    *slog.Logger
}

func NewRAGService(
	chunker domain.Chunker,
	embedder domain.Embedder,
	store domain.Store,
	ret *retriever.Retriever,
	answerer *generator.Answerer,
	reg *registry.Registry,
	logger *slog.Logger,
) *RAGService {
	return &RAGService{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		retriever: ret,
		answerer:  answerer,
		registry:  reg,
		logger:    logger,
	}
}

// Ingest chunks the text, embeds every chunk and upserts the batch into the
// namespace. Chunk metadata carries source, title, section and position for
// citation rendering at query time.
func (s *RAGService) Ingest(ctx context.Context, text, sourceName, title, namespace string) error {
	chunks, err := s.chunker.Chunk(text)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", sourceName, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%s: %w", sourceName, domain.ErrEmptyDocument)
	}

	entries := make([]domain.Entry, 0, len(chunks))
	for _, ch := range chunks {
		ch.ID = uuid.NewString()
		ch.SourceName = sourceName
		ch.Title = title
		vector, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %s: %w", ch.Position, sourceName, err)
		}
		entries = append(entries, domain.Entry{ID: ch.ID, Vector: vector, Chunk: ch})
	}

	if err := s.store.Upsert(ctx, namespace, entries); err != nil {
		return fmt.Errorf("upsert %s: %w", sourceName, err)
	}
	s.logger.Info("document ingested",
		slog.String("source", sourceName),
		slog.String("namespace", namespace),
		slog.Int("chunks", len(entries)))
	return nil
}

// IngestFile extracts text from a .txt or .pdf file, registers the document
// and ingests it under the derived namespace. The new document becomes the
// active one.
func (s *RAGService) IngestFile(ctx context.Context, path string) (domain.Document, error) {
	text, err := extract.FromFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	name := filepath.Base(path)
	doc := s.registry.Register(name, name)
	if err := s.Ingest(ctx, text, doc.SourceName, doc.Title, doc.Namespace); err != nil {
		return domain.Document{}, err
	}
	s.registry.SetActive(doc.SourceName)
	return doc, nil
}

// AnswerQuery retrieves and reranks chunks from the namespace and generates
// a cited answer. No retrieved chunks means the fixed insufficient-
// information answer without a model call.
func (s *RAGService) AnswerQuery(ctx context.Context, query, namespace string) (domain.Answer, error) {
	results, err := s.retriever.Retrieve(ctx, query, namespace)
	if err != nil {
		return domain.Answer{}, err
	}
	return s.answerer.Answer(ctx, query, results)
}

// Documents lists this session's registered documents.
func (s *RAGService) Documents() []domain.Document { return s.registry.List() }

// ActiveDocument returns the document queries currently run against.
func (s *RAGService) ActiveDocument() (domain.Document, bool) { return s.registry.Active() }

// SelectDocument switches the active document.
func (s *RAGService) SelectDocument(sourceName string) bool { return s.registry.SetActive(sourceName) }

// RemoveDocument clears the document's namespace and forgets it.
func (s *RAGService) RemoveDocument(ctx context.Context, sourceName string) error {
	return s.registry.Unregister(ctx, sourceName)
}

// Clear removes every entry in one namespace. Absent namespaces succeed.
func (s *RAGService) Clear(ctx context.Context, namespace string) error {
	return s.store.DeleteNamespace(ctx, namespace)
}

// ClearAll wipes the whole index and this session's registry.
func (s *RAGService) ClearAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.registry.Clear()
	return nil
}
