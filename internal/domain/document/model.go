// Package document assembles printable documents from raw record fields.
// The assembler owns the policy wiring: it consults the issuance tracker for
// masked-vs-unmasked, runs fields through the redaction policy on repeat
// copies, and names the output file. What turns the result into pixels (PDF
// drawing, HTML templates, print dialogs) is an external renderer; the
// assembler hands it a fully resolved, already sanitized field set and never
// calls it directly.
package document

import "github.com/clinicdesk/clinicdesk/internal/domain/redaction"

// Field is one raw entity value tagged with the redaction rule that applies
// to it. Fields are owned transiently by the caller; the assembler never
// writes a transformed value back.
type Field struct {
	Kind  redaction.FieldKind `json:"kind"`
	Label string              `json:"label"`
	Value string              `json:"value"`
}

// ResolvedField is the read-only output form of a Field after policy
// resolution. Value holds the raw value on a first issue and the masked
// transform on repeats.
type ResolvedField struct {
	Kind  redaction.FieldKind `json:"kind"`
	Label string              `json:"label"`
	Value string              `json:"value"`
}

// IssueRequest carries everything needed to issue one document.
type IssueRequest struct {
	// DocumentID is the opaque identity scoping the issuance counter
	// series (subject + purpose + action).
	DocumentID string `json:"document_id"`
	// ResetFirst clears the counter before recording, so the very next
	// document for a freshly created or edited record is never treated
	// as a repeat. Callers set it exactly once, right after the write.
	ResetFirst bool    `json:"reset_first"`
	Fields     []Field `json:"fields"`
}

// Issuance is the assembler's result: the resolved field set, the masked
// flag the renderer uses to decide on a watermark, and the output filename.
type Issuance struct {
	DocumentID string          `json:"document_id"`
	Count      int             `json:"count"`
	Masked     bool            `json:"masked"`
	Filename   string          `json:"filename"`
	Fields     []ResolvedField `json:"fields"`
}
