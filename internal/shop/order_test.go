package shop

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("Shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_CanTransition(t *testing.T) {
	// Pending may move to either terminal state.
	assert.True(t, StatusPending.CanTransition(StatusCompleted))
	assert.True(t, StatusPending.CanTransition(StatusCancelled))

	// Terminal states never move, not even back to Pending.
	assert.False(t, StatusCompleted.CanTransition(StatusPending))
	assert.False(t, StatusCompleted.CanTransition(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransition(StatusPending))
	assert.False(t, StatusCancelled.CanTransition(StatusCompleted))

	// No self-transitions.
	assert.False(t, StatusPending.CanTransition(StatusPending))
}

func TestTotalFromItems(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 1, Price: dec(t, "10.00")},
		{ProductID: "p2", Quantity: 1, Price: dec(t, "5.00")},
	}
	assert.Equal(t, "15.00", TotalFromItems(items).String())
}

func TestTotalFromItems_Quantities(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 3, Price: dec(t, "2.50")},
		{ProductID: "p2", Quantity: 2, Price: dec(t, "0.99")},
	}
	assert.Equal(t, "9.48", TotalFromItems(items).String())
}

func TestTotalFromItems_Empty(t *testing.T) {
	assert.True(t, TotalFromItems(nil).IsZero())
}

func TestDraftFromEntries_DuplicatesStaySeparate(t *testing.T) {
	p1 := Product{ID: "p1", Name: "Widget", Price: dec(t, "10.00")}
	p2 := Product{ID: "p2", Name: "Gadget", Price: dec(t, "5.00")}

	draft := DraftFromEntries([]CartEntry{{Product: p1}, {Product: p1}, {Product: p2}})

	require.Len(t, draft.Items, 3)
	assert.Equal(t, "p1", draft.Items[0].ProductID)
	assert.Equal(t, "p1", draft.Items[1].ProductID)
	assert.Equal(t, "p2", draft.Items[2].ProductID)
	for _, it := range draft.Items {
		assert.Equal(t, 1, it.Quantity)
	}
	assert.Equal(t, "25.00", draft.TotalAmount.String())
}

func TestDraftFromEntries_PriceIsSnapshot(t *testing.T) {
	p := Product{ID: "p1", Name: "Widget", Price: dec(t, "10.00")}
	draft := DraftFromEntries([]CartEntry{{Product: p}})

	// Changing the product afterwards must not reach into the draft.
	p.Price = dec(t, "99.00")
	assert.Equal(t, "10.00", draft.Items[0].Price.String())
	assert.Equal(t, "10.00", draft.TotalAmount.String())
}
