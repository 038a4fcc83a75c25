package journal

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// createTestJournal creates a journal backed by a throwaway database file.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// captureEvents dispatches the given actions on a fresh store with
// predictable tokens (flow-1, flow-2, ...) and returns the events.
func captureEvents(t *testing.T, acts ...action.Action) []store.Event {
	t.Helper()

	tokens := make([]string, len(acts))
	for i := range acts {
		tokens[i] = fmt.Sprintf("flow-%d", i+1)
	}

	s := store.New(store.WithTokens(store.NewFixedGenerator(tokens...)))
	var events []store.Event
	s.Listen(func(ev store.Event) { events = append(events, ev) })

	for _, a := range acts {
		s.Dispatch(a)
	}

	if len(events) != len(acts) {
		t.Fatalf("captured %d events, want %d", len(events), len(acts))
	}
	return events
}

func keyboard() shop.Product {
	price, err := decimal.NewFromString("19.99")
	if err != nil {
		panic(err)
	}
	return shop.Product{ID: "p-1", Name: "Mechanical Keyboard", Price: price}
}

func mug() shop.Product {
	price, err := decimal.NewFromString("5.00")
	if err != nil {
		panic(err)
	}
	return shop.Product{ID: "p-2", Name: "Mug", Price: price}
}
