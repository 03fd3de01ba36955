package issuance

import "context"

// Tracker decides masked-vs-unmasked per issuance by counting how many
// times each document identity has been issued.
type Tracker struct {
	store Store
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Record increments and returns the issuance count for documentID. There is
// no undo: if the caller's rendering fails after Record, a retry counts as a
// repeat and is masked. Under-disclosure beats over-disclosure.
func (t *Tracker) Record(ctx context.Context, documentID string) (int, error) {
	return t.store.Record(ctx, documentID)
}

// Reset clears the counter for documentID. Called once right after the
// underlying record is created or edited, so its next document is issued in
// full rather than being treated as a repeat.
func (t *Tracker) Reset(ctx context.Context, documentID string) error {
	return t.store.Reset(ctx, documentID)
}

// Peek returns the current count without recording an issuance.
func (t *Tracker) Peek(ctx context.Context, documentID string) (int, error) {
	return t.store.Peek(ctx, documentID)
}

// List returns counters for inspection, paginated.
func (t *Tracker) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return t.store.List(ctx, limit, offset)
}
