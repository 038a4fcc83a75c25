package selector

import (
	"github.com/shopspring/decimal"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
)

// Products derives the product list in catalog order.
func Products() *Memo1[*state.Catalog, []shop.Product] {
	return NewMemo1(
		func(t *state.Tree) *state.Catalog { return t.Catalog },
		func(c *state.Catalog) []shop.Product { return c.Products.All() },
	)
}

// CatalogError derives the catalog slice's error message, empty when
// healthy.
func CatalogError() *Memo1[*state.Catalog, string] {
	return NewMemo1(
		func(t *state.Tree) *state.Catalog { return t.Catalog },
		func(c *state.Catalog) string { return c.Err },
	)
}

// CartItems derives the cart entries in insertion order.
func CartItems() *Memo1[*state.Cart, []shop.CartEntry] {
	return NewMemo1(
		func(t *state.Tree) *state.Cart { return t.Cart },
		func(c *state.Cart) []shop.CartEntry { return c.Items },
	)
}

// CartCount derives the number of cart entries. Duplicate products count
// once per entry.
func CartCount() *Memo1[*state.Cart, int] {
	return NewMemo1(
		func(t *state.Tree) *state.Cart { return t.Cart },
		func(c *state.Cart) int { return len(c.Items) },
	)
}

// CartTotal derives the sum of entry prices.
func CartTotal() *Memo1[*state.Cart, decimal.Decimal] {
	return NewMemo1(
		func(t *state.Tree) *state.Cart { return t.Cart },
		func(c *state.Cart) decimal.Decimal {
			total := decimal.Zero
			for _, e := range c.Items {
				total = total.Add(e.Product.Price)
			}
			return total
		},
	)
}

// OrderHistory derives the placed orders in history order.
func OrderHistory() *Memo1[*state.Orders, []shop.Order] {
	return NewMemo1(
		func(t *state.Tree) *state.Orders { return t.Orders },
		func(o *state.Orders) []shop.Order { return o.History.All() },
	)
}

// SelectedOrder derives the open order detail, nil when none.
func SelectedOrder() *Memo1[*state.Orders, *shop.Order] {
	return NewMemo1(
		func(t *state.Tree) *state.Orders { return t.Orders },
		func(o *state.Orders) *shop.Order { return o.Selected },
	)
}

// OrdersError derives the orders slice's error message, empty when
// healthy.
func OrdersError() *Memo1[*state.Orders, string] {
	return NewMemo1(
		func(t *state.Tree) *state.Orders { return t.Orders },
		func(o *state.Orders) string { return o.Err },
	)
}

// IsAuthenticated derives whether a user is logged in.
func IsAuthenticated() *Memo1[*state.Session, bool] {
	return NewMemo1(
		func(t *state.Tree) *state.Session { return t.Session },
		func(s *state.Session) bool { return s.Authenticated },
	)
}

// CheckoutView is the aggregate the checkout screen renders.
type CheckoutView struct {
	ItemCount int
	Total     decimal.Decimal
	CanPlace  bool
}

// Checkout composes the cart and session slices: placement is offered
// only to an authenticated user with a non-empty cart.
func Checkout() *Memo2[*state.Cart, *state.Session, CheckoutView] {
	return NewMemo2(
		func(t *state.Tree) *state.Cart { return t.Cart },
		func(t *state.Tree) *state.Session { return t.Session },
		func(c *state.Cart, s *state.Session) CheckoutView {
			total := decimal.Zero
			for _, e := range c.Items {
				total = total.Add(e.Product.Price)
			}
			return CheckoutView{
				ItemCount: len(c.Items),
				Total:     total,
				CanPlace:  s.Authenticated && len(c.Items) > 0,
			}
		},
	)
}

// HeaderView is the storefront chrome: catalog size, cart badge, session
// indicator.
type HeaderView struct {
	ProductCount int
	CartCount    int
	SignedIn     bool
}

// Header composes the catalog, cart, and session slices.
func Header() *Memo3[*state.Catalog, *state.Cart, *state.Session, HeaderView] {
	return NewMemo3(
		func(t *state.Tree) *state.Catalog { return t.Catalog },
		func(t *state.Tree) *state.Cart { return t.Cart },
		func(t *state.Tree) *state.Session { return t.Session },
		func(cat *state.Catalog, c *state.Cart, s *state.Session) HeaderView {
			return HeaderView{
				ProductCount: cat.Products.Len(),
				CartCount:    len(c.Items),
				SignedIn:     s.Authenticated,
			}
		},
	)
}
