// Package cart exposes the shopping cart's mutation surface as a facade
// over the store. All changes flow through dispatch, so cart observers and
// state subscribers see the same ordered history.
package cart

import (
	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Manager is the cart's mutation and observation surface.
type Manager struct {
	store *store.Store
}

// NewManager wraps the store's cart slice.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Add appends an entry for the product to the end of the cart. Adding a
// product already present appends another entry; entries accumulate
// rather than incrementing a count.
func (m *Manager) Add(p shop.Product) {
	m.store.Dispatch(action.CartAdded{Product: p})
}

// Remove deletes every entry whose product id matches, not just one
// instance. Removing an absent id changes nothing.
func (m *Manager) Remove(productID string) {
	m.store.Dispatch(action.CartRemoved{ProductID: productID})
}

// Snapshot returns a copy of the current items. The placement workflow
// snapshots the cart at submission time and totals from the copy.
func (m *Manager) Snapshot() []shop.CartEntry {
	items := m.store.State().Cart.Items
	out := make([]shop.CartEntry, len(items))
	copy(out, items)
	return out
}

// Watch registers a cart observer. Each delivery carries the complete
// item sequence after one change; observers never see a sequence
// mid-append or mid-removal. The sequence is immutable and must not be
// modified. The returned function removes the observer.
//
// Deliveries happen for every cart change regardless of origin, including
// the clear that rides a successful order placement.
func (m *Manager) Watch(fn func([]shop.CartEntry)) func() {
	prev := m.store.State().Cart
	return m.store.Subscribe(func(t *state.Tree) {
		if t.Cart == prev {
			return
		}
		prev = t.Cart
		fn(t.Cart.Items)
	})
}
