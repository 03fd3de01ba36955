package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/audit"
	"github.com/clinicdesk/clinicdesk/internal/domain/document"
	"github.com/clinicdesk/clinicdesk/internal/domain/issuance"
	"github.com/clinicdesk/clinicdesk/internal/domain/redaction"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

var validInvoiceStatuses = map[string]bool{
	"draft": true, "issued": true, "paid": true, "cancelled": true,
}

// Service owns the record CRUD and the document call paths built on top of
// it. Creating or editing a record resets its counter series, so the next
// copy of each document purpose goes out in full.
type Service struct {
	patients PatientRepository
	invoices InvoiceRepository
	tracker  *issuance.Tracker
	asm      *document.Assembler
	trail    *audit.Store
}

// NewService wires the record repositories to the document pipeline.
func NewService(patients PatientRepository, invoices InvoiceRepository, tracker *issuance.Tracker, asm *document.Assembler, trail *audit.Store) *Service {
	return &Service{patients: patients, invoices: invoices, tracker: tracker, asm: asm, trail: trail}
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return err
	}
	return s.resetPatientSeries(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	// The edited record's next document must not look like a repeat.
	return s.resetPatientSeries(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) resetPatientSeries(ctx context.Context, p *Patient) error {
	for _, purpose := range patientPurposes {
		for _, action := range actions {
			docID := issuance.DocumentID(p.SubjectID(), purpose, action)
			if err := s.tracker.Reset(ctx, docID); err != nil {
				return fmt.Errorf("reset %s: %w", docID, err)
			}
			s.trail.Record(&audit.Entry{
				DocumentID: docID,
				Purpose:    purpose,
				Action:     action,
				Event:      audit.EventReset,
				ActorID:    auth.UserIDFromContext(ctx),
			})
		}
	}
	return nil
}

// -- Invoices --

func (s *Service) CreateInvoice(ctx context.Context, i *Invoice) error {
	if i.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if i.InvoiceNumber == "" {
		return fmt.Errorf("invoice_number is required")
	}
	if i.Status == "" {
		i.Status = "issued"
	}
	if !validInvoiceStatuses[i.Status] {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if i.IssuedOn.IsZero() {
		i.IssuedOn = time.Now()
	}
	if err := s.invoices.Create(ctx, i); err != nil {
		return err
	}
	for _, action := range actions {
		docID := issuance.DocumentID(i.SubjectID(), PurposeInvoice, action)
		if err := s.tracker.Reset(ctx, docID); err != nil {
			return fmt.Errorf("reset %s: %w", docID, err)
		}
		s.trail.Record(&audit.Entry{
			DocumentID: docID,
			Purpose:    PurposeInvoice,
			Action:     action,
			Event:      audit.EventReset,
			ActorID:    auth.UserIDFromContext(ctx),
		})
	}
	return nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

// -- Document call paths --

// ValidAction reports whether the issuance channel is recognized.
func ValidAction(action string) bool {
	return action == ActionDownload || action == ActionPrint
}

func patientFields(p *Patient) []document.Field {
	fields := []document.Field{
		{Kind: redaction.KindName, Label: "Patient Name", Value: p.FullName},
		{Kind: redaction.KindIdentifier, Label: "MRN", Value: p.MRN},
	}
	if p.Phone != nil {
		fields = append(fields, document.Field{Kind: redaction.KindPhone, Label: "Phone", Value: *p.Phone})
	}
	if p.Email != nil {
		fields = append(fields, document.Field{Kind: redaction.KindEmail, Label: "Email", Value: *p.Email})
	}
	if p.Address != nil {
		fields = append(fields, document.Field{Kind: redaction.KindAddress, Label: "Address", Value: *p.Address})
	}
	return fields
}

// IssuePatientDocument issues one of the patient-scoped purposes (receipt,
// report card, consultation summary) through the given channel.
func (s *Service) IssuePatientDocument(ctx context.Context, patientID uuid.UUID, purpose, action, requestID string) (*document.Issuance, error) {
	if !ValidAction(action) {
		return nil, fmt.Errorf("invalid action: %s", action)
	}
	valid := false
	for _, p := range patientPurposes {
		if p == purpose {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid purpose: %s", purpose)
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	docID := issuance.DocumentID(p.SubjectID(), purpose, action)
	iss, err := s.asm.Issue(ctx, document.IssueRequest{
		DocumentID: docID,
		Fields:     patientFields(p),
	})
	if err != nil {
		return nil, err
	}

	s.trail.Record(&audit.Entry{
		DocumentID: docID,
		Purpose:    purpose,
		Action:     action,
		Event:      audit.EventIssue,
		Masked:     iss.Masked,
		Count:      iss.Count,
		ActorID:    auth.UserIDFromContext(ctx),
		RequestID:  requestID,
	})
	return iss, nil
}

// IssueInvoiceDocument issues the printable invoice through the given
// channel. Patient PII on the invoice masks on repeats; the monetary fields
// do not.
func (s *Service) IssueInvoiceDocument(ctx context.Context, invoiceID uuid.UUID, action, requestID string) (*document.Issuance, error) {
	if !ValidAction(action) {
		return nil, fmt.Errorf("invalid action: %s", action)
	}

	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	p, err := s.patients.GetByID(ctx, inv.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	fields := []document.Field{
		{Kind: redaction.KindName, Label: "Patient Name", Value: p.FullName},
		{Kind: redaction.KindIdentifier, Label: "Invoice Number", Value: inv.InvoiceNumber},
		{Label: "Amount", Value: fmt.Sprintf("%.2f", inv.Amount)},
		{Label: "Status", Value: inv.Status},
		{Label: "Issued On", Value: inv.IssuedOn.Format("2006-01-02")},
	}
	if p.Phone != nil {
		fields = append(fields, document.Field{Kind: redaction.KindPhone, Label: "Phone", Value: *p.Phone})
	}
	if p.Address != nil {
		fields = append(fields, document.Field{Kind: redaction.KindAddress, Label: "Address", Value: *p.Address})
	}

	docID := issuance.DocumentID(inv.SubjectID(), PurposeInvoice, action)
	iss, err := s.asm.Issue(ctx, document.IssueRequest{DocumentID: docID, Fields: fields})
	if err != nil {
		return nil, err
	}

	s.trail.Record(&audit.Entry{
		DocumentID: docID,
		Purpose:    PurposeInvoice,
		Action:     action,
		Event:      audit.EventIssue,
		Masked:     iss.Masked,
		Count:      iss.Count,
		ActorID:    auth.UserIDFromContext(ctx),
		RequestID:  requestID,
	})
	return iss, nil
}
