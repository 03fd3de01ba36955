package document

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/issuance"
	"github.com/clinicdesk/clinicdesk/internal/domain/redaction"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	tracker := issuance.NewTracker(issuance.NewMemoryStore())
	composer := NewFilenameComposer(fixedClock(t, "2024-05-01"))
	return NewAssembler(tracker, redaction.NewPolicy(), composer, zerolog.Nop())
}

func patientFields() []Field {
	return []Field{
		{Kind: redaction.KindName, Label: "Patient Name", Value: "John Doe"},
		{Kind: redaction.KindIdentifier, Label: "Patient ID", Value: "P-2024-0001"},
		{Kind: redaction.KindPhone, Label: "Phone", Value: "9876543210"},
		{Kind: redaction.KindEmail, Label: "Email", Value: "john.doe@example.com"},
		{Kind: redaction.KindAddress, Label: "Address", Value: "12, MG Road, Blue Town, Springfield, State - 500001"},
	}
}

func fieldValue(t *testing.T, fields []ResolvedField, label string) string {
	t.Helper()
	for _, f := range fields {
		if f.Label == label {
			return f.Value
		}
	}
	t.Fatalf("field %q not found", label)
	return ""
}

func TestIssue_FirstIssueUnmasked(t *testing.T) {
	a := newTestAssembler(t)
	result, err := a.Issue(context.Background(), IssueRequest{
		DocumentID: "patient_001_receipt_download",
		Fields:     patientFields(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Masked {
		t.Error("first issue must not be masked")
	}
	if result.Count != 1 {
		t.Errorf("expected count 1, got %d", result.Count)
	}
	if got := fieldValue(t, result.Fields, "Patient Name"); got != "John Doe" {
		t.Errorf("expected full name on first issue, got %q", got)
	}
	if got := fieldValue(t, result.Fields, "Phone"); got != "9876543210" {
		t.Errorf("expected full phone on first issue, got %q", got)
	}
	if result.Filename != "John_Doe_P-2024-0001_2024-05-01.pdf" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
}

func TestIssue_RepeatIsMasked(t *testing.T) {
	a := newTestAssembler(t)
	ctx := context.Background()
	req := IssueRequest{DocumentID: "patient_001_receipt_download", Fields: patientFields()}

	if _, err := a.Issue(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := a.Issue(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Masked {
		t.Fatal("second issue must be masked")
	}
	if got := fieldValue(t, result.Fields, "Patient Name"); got != "John D***" {
		t.Errorf("expected masked name, got %q", got)
	}
	if got := fieldValue(t, result.Fields, "Phone"); got != "******3210" {
		t.Errorf("expected masked phone, got %q", got)
	}
	if got := fieldValue(t, result.Fields, "Email"); got != "jo******@example.com" {
		t.Errorf("expected masked email, got %q", got)
	}
	if got := fieldValue(t, result.Fields, "Address"); got != "*****, Springfield, State - 500001" {
		t.Errorf("expected masked address, got %q", got)
	}
	if result.Filename != "John_Doe_P-2024-0001_2024-05-01_Masked.pdf" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
}

func TestIssue_ResetFirstStartsFreshSeries(t *testing.T) {
	a := newTestAssembler(t)
	ctx := context.Background()
	req := IssueRequest{DocumentID: "patient_001_receipt_download", Fields: patientFields()}

	a.Issue(ctx, req)
	a.Issue(ctx, req)

	// after the record was edited, the next copy goes out in full
	req.ResetFirst = true
	result, err := a.Issue(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Masked {
		t.Error("issue after reset must not be masked")
	}
	if result.Count != 1 {
		t.Errorf("expected count 1 after reset, got %d", result.Count)
	}
}

func TestIssue_IndependentPurposes(t *testing.T) {
	a := newTestAssembler(t)
	ctx := context.Background()

	a.Issue(ctx, IssueRequest{DocumentID: "patient_001_receipt_download", Fields: patientFields()})
	a.Issue(ctx, IssueRequest{DocumentID: "patient_001_receipt_download", Fields: patientFields()})

	result, err := a.Issue(ctx, IssueRequest{DocumentID: "patient_001_report_download", Fields: patientFields()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Masked {
		t.Error("a different purpose must start its own unmasked series")
	}
}

func TestIssue_UnknownKindDegradesToRaw(t *testing.T) {
	a := newTestAssembler(t)
	ctx := context.Background()
	fields := []Field{
		{Kind: redaction.FieldKind("blood-group"), Label: "Blood Group", Value: "O+"},
		{Kind: redaction.KindName, Label: "Patient Name", Value: "John Doe"},
	}
	req := IssueRequest{DocumentID: "patient_001_report_print", Fields: fields}

	a.Issue(ctx, req)
	result, err := a.Issue(ctx, req)
	if err != nil {
		t.Fatalf("masking failure must not block issuance: %v", err)
	}
	if !result.Masked {
		t.Fatal("second issue must be masked")
	}
	if got := fieldValue(t, result.Fields, "Blood Group"); got != "O+" {
		t.Errorf("field with no rule must pass through raw, got %q", got)
	}
	if got := fieldValue(t, result.Fields, "Patient Name"); got != "John D***" {
		t.Errorf("fields with rules must still be masked, got %q", got)
	}
}

func TestIssue_RequiresDocumentID(t *testing.T) {
	a := newTestAssembler(t)
	if _, err := a.Issue(context.Background(), IssueRequest{Fields: patientFields()}); err == nil {
		t.Error("expected error for missing document id")
	}
}

func TestIssue_DoesNotMutateInputFields(t *testing.T) {
	a := newTestAssembler(t)
	ctx := context.Background()
	fields := patientFields()
	req := IssueRequest{DocumentID: "patient_001_invoice_download", Fields: fields}

	a.Issue(ctx, req)
	a.Issue(ctx, req)

	if fields[0].Value != "John Doe" {
		t.Errorf("input field mutated to %q", fields[0].Value)
	}
}
