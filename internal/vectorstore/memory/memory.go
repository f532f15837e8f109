package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"ragpartner/internal/domain"
	"ragpartner/internal/vectorstore"
)

type entry struct {
	vector []float32
	chunk  domain.Chunk
}

// Store is an in-memory namespaced vector store using brute-force cosine
// similarity. Intended for tests and offline runs.
type Store struct {
	mu         sync.RWMutex
	dimension  int
	namespaces map[string]map[string]entry
	order      map[string][]string
}

func NewStore() *Store {
	return &Store{
		namespaces: make(map[string]map[string]entry),
		order:      make(map[string][]string),
	}
}

func (s *Store) EnsureIndex(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != dimension {
		return errors.New("index already exists with a different dimension")
	}
	s.dimension = dimension
	return nil
}

// Upsert writes entries into the namespace, overwriting on id.
func (s *Store) Upsert(ctx context.Context, namespace string, entries []domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if s.dimension != 0 && len(e.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]entry)
		s.namespaces[namespace] = ns
	}
	for _, e := range entries {
		if _, exists := ns[e.ID]; !exists {
			s.order[namespace] = append(s.order[namespace], e.ID)
		}
		ns[e.ID] = entry{vector: e.Vector, chunk: e.Chunk}
	}
	return nil
}

// Query scores every entry in the namespace, keeps the fetchK most similar
// and MMR-selects k of them. An unknown namespace yields no results.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, k, fetchK int, lambda float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		k = 5
	}
	if fetchK < k {
		fetchK = k
	}
	ns := s.namespaces[namespace]
	if len(ns) == 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		score float64
	}
	scores := make([]scored, 0, len(ns))
	for _, id := range s.order[namespace] {
		e, ok := ns[id]
		if !ok {
			continue
		}
		scores = append(scores, scored{id: id, score: vectorstore.Cosine(e.vector, vector)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if fetchK < len(scores) {
		scores = scores[:fetchK]
	}

	candidates := make([]vectorstore.Candidate, len(scores))
	for i, sc := range scores {
		candidates[i] = vectorstore.Candidate{Vector: ns[sc.id].vector, Score: sc.score}
	}
	picked := vectorstore.MaximalMarginalRelevance(candidates, k, lambda)

	results := make([]domain.SearchResult, 0, len(picked))
	for _, i := range picked {
		results = append(results, domain.SearchResult{Chunk: ns[scores[i].id].chunk, Score: scores[i].score})
	}
	return results, nil
}

// DeleteNamespace removes a namespace. Absent namespaces are a no-op.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	delete(s.order, namespace)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespaces = make(map[string]map[string]entry)
	s.order = make(map[string][]string)
	return nil
}
