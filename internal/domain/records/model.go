// Package records adapts the clinic's record store (patients, invoices) to
// the document pipeline. It owns the concrete document call paths:
// registration receipt, patient report card, invoice, and consultation
// summary, each built from stored record fields and issued through the
// assembler.
package records

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the registration record behind patient-facing documents.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MRN       string    `db:"mrn" json:"mrn"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is the billing record behind invoice documents. Totals are
// computed upstream by the billing ledger; this service only prints them.
type Invoice struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	IssuedOn      time.Time `db:"issued_on" json:"issued_on"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Document purposes issued from these records.
const (
	PurposeReceipt      = "receipt"
	PurposeReportCard   = "report_card"
	PurposeConsultation = "consultation_summary"
	PurposeInvoice      = "invoice"
)

// Issuance channels.
const (
	ActionDownload = "download"
	ActionPrint    = "print"
)

// patientPurposes are the purposes whose counter series restart when the
// patient record is created or edited.
var patientPurposes = []string{PurposeReceipt, PurposeReportCard, PurposeConsultation}

// actions are the channels a document can be issued through. Download and
// print keep independent counter series.
var actions = []string{ActionDownload, ActionPrint}

// SubjectID returns the identity prefix scoping a patient's document series.
func (p *Patient) SubjectID() string {
	return "patient_" + p.ID.String()
}

// SubjectID returns the identity prefix scoping an invoice's document series.
func (i *Invoice) SubjectID() string {
	return "invoice_" + i.ID.String()
}
