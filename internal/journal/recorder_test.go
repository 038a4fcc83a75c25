package journal

import (
	"context"
	"testing"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

func TestRecorder_JournalsEveryDispatch(t *testing.T) {
	j := createTestJournal(t)
	s := store.New(store.WithTokens(store.NewFixedGenerator("flow-1", "flow-2")))
	rec := NewRecorder(j, s)
	defer rec.Close()

	s.Dispatch(action.CartAdded{Product: keyboard()})
	// Removing an absent product reduces to the same tree; the no-op
	// still belongs in the journal.
	s.Dispatch(action.CartRemoved{ProductID: "p-99"})

	records, err := j.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Kind != action.KindCartAdded {
		t.Errorf("records[0].Kind = %q, want %q", records[0].Kind, action.KindCartAdded)
	}
	if records[1].Kind != action.KindCartRemoved {
		t.Errorf("records[1].Kind = %q, want %q", records[1].Kind, action.KindCartRemoved)
	}
	if records[0].Token != "flow-1" || records[1].Token != "flow-2" {
		t.Errorf("tokens = %q, %q, want flow-1, flow-2", records[0].Token, records[1].Token)
	}

	dropped, lastErr := rec.Dropped()
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if lastErr != nil {
		t.Errorf("lastErr = %v, want nil", lastErr)
	}
}

func TestRecorder_CloseStopsJournaling(t *testing.T) {
	j := createTestJournal(t)
	s := store.New()
	rec := NewRecorder(j, s)

	s.Dispatch(action.CartAdded{Product: keyboard()})
	rec.Close()
	s.Dispatch(action.CartAdded{Product: mug()})

	n, err := j.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1 (dispatch after Close not journaled)", n)
	}
}

func TestRecorder_DroppedCountsFailedAppends(t *testing.T) {
	j := createTestJournal(t)
	s := store.New()
	rec := NewRecorder(j, s)
	defer rec.Close()

	s.Dispatch(action.CartAdded{Product: keyboard()})

	// Closing the database makes every further append fail. Dispatch must
	// carry on regardless.
	j.Close()
	s.Dispatch(action.CartAdded{Product: mug()})

	if got := len(s.State().Cart.Items); got != 2 {
		t.Errorf("cart items = %d, want 2 (dispatch survives journal failure)", got)
	}

	dropped, lastErr := rec.Dropped()
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if lastErr == nil {
		t.Error("lastErr = nil, want append failure")
	}
}
