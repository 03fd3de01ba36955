package audit

import "testing"

func TestStore_RecordAndList(t *testing.T) {
	s := NewStore()
	err := s.Record(&Entry{
		DocumentID: "patient_001_receipt_download",
		Event:      EventIssue,
		Count:      1,
		ActorID:    "dr-smith",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := s.List("", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 entry, got total=%d len=%d", total, len(items))
	}
	if items[0].ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected assigned ID")
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}
}

func TestStore_RequiresDocumentID(t *testing.T) {
	s := NewStore()
	if err := s.Record(&Entry{Event: EventIssue}); err == nil {
		t.Error("expected error for missing document id")
	}
}

func TestStore_RejectsUnknownEvent(t *testing.T) {
	s := NewStore()
	if err := s.Record(&Entry{DocumentID: "doc", Event: "download"}); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestStore_FiltersByDocumentID(t *testing.T) {
	s := NewStore()
	s.Record(&Entry{DocumentID: "a", Event: EventIssue})
	s.Record(&Entry{DocumentID: "b", Event: EventIssue})
	s.Record(&Entry{DocumentID: "a", Event: EventReset})

	items, total, _ := s.List("a", 10, 0)
	if total != 2 {
		t.Errorf("expected 2 entries for a, got %d", total)
	}
	// newest first
	if items[0].Event != EventReset {
		t.Errorf("expected newest entry first, got %q", items[0].Event)
	}
}

func TestStore_Pagination(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Record(&Entry{DocumentID: "doc", Event: EventIssue, Count: i + 1})
	}

	items, total, _ := s.List("", 2, 0)
	if total != 5 || len(items) != 2 {
		t.Errorf("expected total 5 page 2, got total=%d len=%d", total, len(items))
	}
	items, _, _ = s.List("", 2, 4)
	if len(items) != 1 {
		t.Errorf("expected final page of 1, got %d", len(items))
	}
	items, _, _ = s.List("", 2, 10)
	if len(items) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(items))
	}
}
