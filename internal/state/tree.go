// Package state holds the immutable application state tree and the pure
// reducers that advance it. Reducers never perform I/O and never mutate
// their input; an action that changes nothing yields the same pointer, so
// consumers detect change by reference comparison alone.
package state

import "github.com/SniraJavas/EcommerceWebApp/internal/shop"

// Catalog is the product catalog slice.
//
// Loading is never set by any reducer; a load request clears only the
// error field.
type Catalog struct {
	Products Collection[shop.Product]
	Loading  bool
	Err      string
}

// Cart is the shopping cart slice. Entries for the same product
// accumulate rather than incrementing a count.
type Cart struct {
	Items []shop.CartEntry
}

// Orders is the order history slice. Selected is nil when no order detail
// is open.
type Orders struct {
	History  Collection[shop.Order]
	Selected *shop.Order
	Err      string
}

// Session is the authentication slice. Only the boolean is state; the
// token itself lives in the vault.
type Session struct {
	Authenticated bool
}

// Tree is the complete application state. Each slice is referenced by
// pointer so unchanged slices carry over between trees and change is
// detectable per slice.
type Tree struct {
	Catalog *Catalog
	Cart    *Cart
	Orders  *Orders
	Session *Session
}

// NewTree returns the initial state: empty catalog, empty cart, no
// history, logged out.
func NewTree() *Tree {
	return &Tree{
		Catalog: &Catalog{},
		Cart:    &Cart{Items: []shop.CartEntry{}},
		Orders:  &Orders{},
		Session: &Session{},
	}
}
