package document

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/issuance"
	"github.com/clinicdesk/clinicdesk/internal/domain/redaction"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

func newHandlerTestServer(t *testing.T) *echo.Echo {
	tracker := issuance.NewTracker(issuance.NewMemoryStore())
	asm := NewAssembler(tracker, redaction.NewPolicy(), NewFilenameComposer(fixedClock(t, "2024-05-01")), zerolog.Nop())

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), auth.UserRolesKey, []string{"frontdesk"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(asm).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func postIssue(t *testing.T, e *echo.Echo, body string) (*httptest.ResponseRecorder, *Issuance) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/issue", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var iss Issuance
	if err := json.Unmarshal(rec.Body.Bytes(), &iss); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return rec, &iss
}

func TestIssueDocumentEndpoint(t *testing.T) {
	e := newHandlerTestServer(t)

	body := `{
		"subject_id": "patient_7",
		"purpose": "receipt",
		"action": "download",
		"fields": [
			{"kind": "name", "label": "Patient Name", "value": "John Doe"},
			{"kind": "phone", "label": "Phone", "value": "9876543210"}
		]
	}`

	rec, first := postIssue(t, e, body)
	if first == nil {
		t.Fatalf("first issue failed: %d %s", rec.Code, rec.Body.String())
	}
	if first.Count != 1 || first.Masked {
		t.Fatalf("first: count=%d masked=%v", first.Count, first.Masked)
	}
	if first.DocumentID != "patient_7_receipt_download" {
		t.Errorf("document id = %q", first.DocumentID)
	}

	_, second := postIssue(t, e, body)
	if second == nil {
		t.Fatal("second issue failed")
	}
	if !second.Masked {
		t.Fatal("second copy should be masked")
	}
	for _, f := range second.Fields {
		if f.Label == "Phone" && f.Value != "******3210" {
			t.Errorf("masked phone = %q", f.Value)
		}
	}
}

func TestIssueDocumentResetFirst(t *testing.T) {
	e := newHandlerTestServer(t)

	body := `{"document_id": "patient_7_receipt_download", "fields": []}`
	postIssue(t, e, body)
	postIssue(t, e, body)

	_, iss := postIssue(t, e, `{"document_id": "patient_7_receipt_download", "reset_first": true, "fields": []}`)
	if iss == nil {
		t.Fatal("reset_first issue failed")
	}
	if iss.Count != 1 || iss.Masked {
		t.Errorf("after reset: count=%d masked=%v", iss.Count, iss.Masked)
	}
}

func TestIssueDocumentRequiresIdentity(t *testing.T) {
	e := newHandlerTestServer(t)

	rec, _ := postIssue(t, e, `{"fields": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec, _ = postIssue(t, e, `{"subject_id": "patient_7", "purpose": "receipt", "fields": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("partial triple: status = %d, want 400", rec.Code)
	}
}
