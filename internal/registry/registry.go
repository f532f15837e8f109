package registry

import (
	"context"
	"strings"
	"sync"

	"ragpartner/internal/domain"
)

// Registry tracks which documents this session has ingested and which one
// queries run against. State lives for the process only; index data in the
// store outlives it and is not reconciled.
type Registry struct {
	mu     sync.Mutex
	store  domain.Store
	docs   []domain.Document
	active string
}

func New(store domain.Store) *Registry {
	return &Registry{store: store}
}

// DeriveNamespace maps a source name to its namespace: lowercased, with
// spaces and dots replaced. Deterministic, so re-ingesting the same file
// lands in the same namespace.
func DeriveNamespace(sourceName string) string {
	ns := strings.ToLower(sourceName)
	ns = strings.ReplaceAll(ns, " ", "_")
	ns = strings.ReplaceAll(ns, ".", "_")
	return ns
}

// Register records a document and returns it with its namespace. An already
// registered name returns the existing document unchanged.
func (r *Registry) Register(sourceName, title string) domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.SourceName == sourceName {
			return d
		}
	}
	doc := domain.Document{
		SourceName: sourceName,
		Title:      title,
		Namespace:  DeriveNamespace(sourceName),
	}
	r.docs = append(r.docs, doc)
	return doc
}

// Unregister deletes the document's namespace from the store and drops the
// mapping. An unknown name is a no-op, mirroring idempotent delete.
func (r *Registry) Unregister(ctx context.Context, sourceName string) error {
	r.mu.Lock()
	idx := -1
	var doc domain.Document
	for i, d := range r.docs {
		if d.SourceName == sourceName {
			idx = i
			doc = d
			break
		}
	}
	r.mu.Unlock()
	if idx < 0 {
		return nil
	}
	if err := r.store.DeleteNamespace(ctx, doc.Namespace); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs[:idx], r.docs[idx+1:]...)
	if r.active == sourceName {
		r.active = ""
	}
	return nil
}

// List returns documents in registration order.
func (r *Registry) List() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// SetActive selects the document queries run against.
func (r *Registry) SetActive(sourceName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.SourceName == sourceName {
			r.active = sourceName
			return true
		}
	}
	return false
}

// Active returns the selected document, if any.
func (r *Registry) Active() (domain.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.SourceName == r.active {
			return d, true
		}
	}
	return domain.Document{}, false
}

// Clear drops every mapping without touching the store.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = nil
	r.active = ""
}
