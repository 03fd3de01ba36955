package issuance

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStore_FirstRecordReturnsOne(t *testing.T) {
	s := NewMemoryStore()
	count, err := s.Record(context.Background(), "patient_001_receipt_download")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1 on first record, got %d", count)
	}
	if Masked(count) {
		t.Error("first issuance must not be masked")
	}
}

func TestMemoryStore_CountIncrementsByOne(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		count, err := s.Record(ctx, "doc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != i {
			t.Errorf("record %d: expected count %d, got %d", i, i, count)
		}
	}
}

func TestMemoryStore_SecondRecordMasks(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Record(ctx, "doc")
	count, _ := s.Record(ctx, "doc")
	if !Masked(count) {
		t.Error("second issuance must be masked")
	}
}

func TestMemoryStore_IndependentKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Record(ctx, "patient_001_receipt_download")
	s.Record(ctx, "patient_001_receipt_download")

	count, _ := s.Record(ctx, "patient_001_receipt_print")
	if count != 1 {
		t.Errorf("print counter must be independent of download, got %d", count)
	}
	count, _ = s.Record(ctx, "patient_001_report_download")
	if count != 1 {
		t.Errorf("report counter must be independent of receipt, got %d", count)
	}
}

func TestMemoryStore_ResetStartsFreshSeries(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Record(ctx, "doc")
	s.Record(ctx, "doc")

	if err := s.Reset(ctx, "doc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ := s.Record(ctx, "doc")
	if count != 1 {
		t.Errorf("expected count 1 after reset, got %d", count)
	}
}

func TestMemoryStore_ResetUnknownKeyIsNoop(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Reset(context.Background(), "never-seen"); err != nil {
		t.Errorf("reset of unknown key should not fail: %v", err)
	}
}

func TestMemoryStore_PeekDoesNotMutate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	count, err := s.Peek(ctx, "doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 for absent key, got %d", count)
	}

	s.Record(ctx, "doc")
	s.Peek(ctx, "doc")
	s.Peek(ctx, "doc")
	count, _ = s.Peek(ctx, "doc")
	if count != 1 {
		t.Errorf("peek must not increment, got %d", count)
	}
}

func TestMemoryStore_ConcurrentRecordsAreSerialized(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 100
	counts := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count, err := s.Record(ctx, "doc")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			counts <- count
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int]bool, n)
	for c := range counts {
		if seen[c] {
			t.Errorf("two callers observed the same count %d", c)
		}
		seen[c] = true
	}
	final, _ := s.Peek(ctx, "doc")
	if final != n {
		t.Errorf("expected final count %d, got %d", n, final)
	}
}

func TestMemoryStore_ListPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Record(ctx, "a")
	s.Record(ctx, "b")
	s.Record(ctx, "c")

	items, total, err := s.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
	if items[0].DocumentID != "a" || items[1].DocumentID != "b" {
		t.Errorf("expected insertion order, got %s, %s", items[0].DocumentID, items[1].DocumentID)
	}

	items, _, _ = s.List(ctx, 2, 2)
	if len(items) != 1 || items[0].DocumentID != "c" {
		t.Errorf("expected final page with c, got %+v", items)
	}

	items, _, _ = s.List(ctx, 2, 10)
	if len(items) != 0 {
		t.Errorf("expected empty page past the end, got %d items", len(items))
	}
}

func TestDocumentID_EmbedsPurposeAndAction(t *testing.T) {
	got := DocumentID("patient_001", "receipt", "download")
	want := "patient_001_receipt_download"
	if got != want {
		t.Errorf("DocumentID = %q, want %q", got, want)
	}
	if DocumentID("patient_001", "receipt", "print") == got {
		t.Error("download and print must yield distinct identities")
	}
}
