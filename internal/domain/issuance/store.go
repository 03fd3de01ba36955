package issuance

import "context"

// Store is the persistence interface behind the tracker. Implementations
// must make Record atomic per key: two concurrent calls for the same
// document may never observe the same pre-increment count.
type Store interface {
	// Record increments the counter for documentID, creating it at 1 if
	// absent, and returns the new count.
	Record(ctx context.Context, documentID string) (int, error)
	// Reset removes the counter so the next Record starts a fresh series.
	Reset(ctx context.Context, documentID string) error
	// Peek returns the current count without mutating it; 0 if absent.
	Peek(ctx context.Context, documentID string) (int, error)
	// List returns counters in a stable order for inspection.
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
}
