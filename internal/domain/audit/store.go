// Package audit keeps an accounting of document issuances: who issued which
// document through which channel, and whether it went out masked. Repeat
// copies of clinical and financial documents are disclosures worth tracing,
// so every issue and reset lands here regardless of outcome downstream.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded issuance or reset.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	DocumentID string    `json:"document_id"`
	Purpose    string    `json:"purpose,omitempty"`
	Action     string    `json:"action,omitempty"`
	Event      string    `json:"event"` // "issue" or "reset"
	Masked     bool      `json:"masked"`
	Count      int       `json:"count"`
	ActorID    string    `json:"actor_id"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event type constants.
const (
	EventIssue = "issue"
	EventReset = "reset"
)

// Store keeps audit entries in memory. Like the issuance counters, the trail
// is process-local; a database-backed recorder can replace it behind the
// same interface when cross-session accounting is required.
type Store struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make([]*Entry, 0)}
}

// Record appends an entry, assigning ID and CreatedAt if unset.
func (s *Store) Record(e *Entry) error {
	if e.DocumentID == "" {
		return fmt.Errorf("audit: document_id is required")
	}
	if e.Event != EventIssue && e.Event != EventReset {
		return fmt.Errorf("audit: unknown event %q", e.Event)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// List returns entries newest-first, optionally filtered by document ID.
func (s *Store) List(documentID string, limit, offset int) ([]*Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if documentID != "" && e.DocumentID != documentID {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}
