package document

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/issuance"
	"github.com/clinicdesk/clinicdesk/internal/domain/redaction"
)

// Assembler orchestrates one document issuance: resolve identity, consult
// the tracker, redact on repeats, compose the filename. A masking failure
// never blocks issuance; the affected field degrades to its raw value and
// the miss is logged.
type Assembler struct {
	tracker  *issuance.Tracker
	policy   *redaction.Policy
	composer *FilenameComposer
	logger   zerolog.Logger
}

// NewAssembler wires the assembler's collaborators.
func NewAssembler(tracker *issuance.Tracker, policy *redaction.Policy, composer *FilenameComposer, logger zerolog.Logger) *Assembler {
	return &Assembler{tracker: tracker, policy: policy, composer: composer, logger: logger}
}

// Issue records the issuance and returns the resolved field set, the masked
// flag, and the filename. The counter is not rolled back if the caller's
// rendering later fails: a retried issuance counts as a repeat and goes out
// masked.
func (a *Assembler) Issue(ctx context.Context, req IssueRequest) (*Issuance, error) {
	if req.DocumentID == "" {
		return nil, fmt.Errorf("document_id is required")
	}

	if req.ResetFirst {
		if err := a.tracker.Reset(ctx, req.DocumentID); err != nil {
			return nil, fmt.Errorf("reset issuance counter: %w", err)
		}
	}

	count, err := a.tracker.Record(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("record issuance: %w", err)
	}
	masked := issuance.Masked(count)

	resolved := make([]ResolvedField, 0, len(req.Fields))
	var subjectName, identifier string
	for _, f := range req.Fields {
		// Filename inputs come from the raw field set, before masking.
		if subjectName == "" && f.Kind == redaction.KindName {
			subjectName = f.Value
		}
		if identifier == "" && f.Kind == redaction.KindIdentifier {
			identifier = f.Value
		}

		value := f.Value
		// Fields without a PII kind carry non-sensitive content (bill
		// totals, statuses) and pass through on masked copies too.
		if masked && f.Kind != "" {
			out, err := a.policy.Apply(f.Value, f.Kind)
			if err != nil {
				a.logger.Warn().
					Str("document_id", req.DocumentID).
					Str("field_kind", string(f.Kind)).
					Err(err).
					Msg("redaction fallback: emitting raw field value")
			}
			value = out
		}
		resolved = append(resolved, ResolvedField{Kind: f.Kind, Label: f.Label, Value: value})
	}

	return &Issuance{
		DocumentID: req.DocumentID,
		Count:      count,
		Masked:     masked,
		Filename:   a.composer.Compose(subjectName, identifier, masked),
		Fields:     resolved,
	}, nil
}
