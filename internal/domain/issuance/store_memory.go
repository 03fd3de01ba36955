package issuance

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a thread-safe, in-memory Store. Counters do not survive a
// process restart; use PGStore when copies must be counted across sessions.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	// ordered keys for deterministic pagination
	order []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Record(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[documentID]
	if !ok {
		rec = &Record{DocumentID: documentID}
		s.records[documentID] = rec
		s.order = append(s.order, documentID)
	}
	rec.Count++
	rec.UpdatedAt = time.Now().UTC()
	return rec.Count, nil
}

func (s *MemoryStore) Reset(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[documentID]; !ok {
		return nil
	}
	delete(s.records, documentID)
	for i, id := range s.order {
		if id == documentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Peek(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[documentID]
	if !ok {
		return 0, nil
	}
	return rec.Count, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	result := make([]*Record, 0, end-offset)
	for _, id := range s.order[offset:end] {
		rec := *s.records[id]
		result = append(result, &rec)
	}
	return result, total, nil
}
