// Package issuance tracks how many times each logical document has been
// issued. The first issuance in a series goes out in full; every repeat is
// masked. Counters are scoped by an opaque document identity and live in an
// injected Store so the tracker carries no package-level state.
package issuance

import (
	"fmt"
	"time"
)

// Record is one counter in a series: the number of times the document
// identified by DocumentID has been issued since the series started.
type Record struct {
	DocumentID string    `json:"document_id"`
	Count      int       `json:"count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Masked reports whether an issuance with the given count must be redacted.
// Only the first issuance of a series goes out unmasked.
func Masked(count int) bool {
	return count > 1
}

// DocumentID composes the identity key scoping one counter series. Subject,
// purpose, and action are all part of the key: a receipt and a report card
// for the same patient count independently, as do download and print copies
// of the same purpose (separate audit trails per channel).
func DocumentID(subjectID, purpose, action string) string {
	return fmt.Sprintf("%s_%s_%s", subjectID, purpose, action)
}
