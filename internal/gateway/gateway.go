// Package gateway talks to the storefront backend. Effects are its only
// production caller; the in-memory implementation stands in for tests,
// scenarios, and offline demos.
package gateway

import (
	"context"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Operation names, used in errors and by the memory gateway's test hooks.
const (
	OpListProducts = "ListProducts"
	OpGetProduct   = "GetProduct"
	OpLogin        = "Login"
	OpRegister     = "Register"
	OpPlaceOrder   = "PlaceOrder"
	OpListOrders   = "ListOrders"
	OpGetOrder     = "GetOrder"
)

// Gateway is the storefront backend surface. Every call is one request;
// retries, caching, and de-duplication are the caller's concern and the
// engine deliberately adds none.
type Gateway interface {
	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) ([]shop.Product, error)
	// GetProduct returns one product. Missing ids surface as a not-found
	// StatusError.
	GetProduct(ctx context.Context, id string) (shop.Product, error)
	// Login exchanges credentials for an opaque bearer token.
	Login(ctx context.Context, creds shop.Credentials) (string, error)
	// Register creates an account. It does not log the account in.
	Register(ctx context.Context, reg shop.Registration) error
	// PlaceOrder submits a draft and returns the stored order.
	PlaceOrder(ctx context.Context, draft shop.OrderDraft) (shop.Order, error)
	// ListOrders returns the caller's order history.
	ListOrders(ctx context.Context) ([]shop.Order, error)
	// GetOrder returns one order. Missing ids surface as a not-found
	// StatusError.
	GetOrder(ctx context.Context, id string) (shop.Order, error)
}

// TokenVault persists the session's bearer token between calls. The state
// tree only ever holds the derived authenticated boolean; the token
// itself never enters the store.
type TokenVault interface {
	// Save stores the token, replacing any previous one.
	Save(token string)
	// Load returns the stored token, reporting whether one is present.
	Load() (string, bool)
	// Clear removes the stored token.
	Clear()
}
