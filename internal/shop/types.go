// Package shop defines the storefront domain types shared by every layer:
// products, cart entries, orders, and the order status machine.
//
// Prices and totals are decimal values, never floats. They serialize as
// quoted decimal strings on every wire (HTTP JSON, journal, fixtures) so
// that content-addressed digests stay deterministic.
package shop

import "github.com/shopspring/decimal"

// Product is one catalog record. Immutable once loaded; the catalog is
// replaced wholesale on each successful reload.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// Key returns the collection key for a product.
func (p Product) Key() string { return p.ID }

// CartEntry is one line of the cart. The product is a value copy taken at
// add time, so a later catalog reload does not rewrite entries already in
// the cart. Quantity is implicit: adding the same product twice yields two
// entries, not an incremented counter.
type CartEntry struct {
	Product Product `json:"product"`
}

// Credentials are the login request fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
