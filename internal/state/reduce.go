package state

import (
	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Reduce applies one action to the tree. When no slice changed, the input
// tree itself is returned. Actions a slice does not recognize leave that
// slice untouched by reference.
func Reduce(t *Tree, a action.Action) *Tree {
	catalog := reduceCatalog(t.Catalog, a)
	cart := reduceCart(t.Cart, a)
	orders := reduceOrders(t.Orders, a)
	session := reduceSession(t.Session, a)

	if catalog == t.Catalog && cart == t.Cart && orders == t.Orders && session == t.Session {
		return t
	}
	return &Tree{Catalog: catalog, Cart: cart, Orders: orders, Session: session}
}

// reduceCatalog follows the catalog contract exactly: a load request
// clears the error and nothing else, success replaces the product
// collection wholesale without touching the error, failure records the
// error.
func reduceCatalog(c *Catalog, a action.Action) *Catalog {
	switch v := a.(type) {
	case action.CatalogLoadRequested:
		if c.Err == "" {
			return c
		}
		next := *c
		next.Err = ""
		return &next
	case action.CatalogLoadSucceeded:
		next := *c
		next.Products = FromSlice(v.Products)
		return &next
	case action.CatalogLoadFailed:
		next := *c
		next.Err = v.Message
		return &next
	default:
		return c
	}
}

func reduceCart(c *Cart, a action.Action) *Cart {
	switch v := a.(type) {
	case action.CartAdded:
		items := make([]shop.CartEntry, len(c.Items)+1)
		copy(items, c.Items)
		items[len(c.Items)] = shop.CartEntry{Product: v.Product}
		next := *c
		next.Items = items
		return &next
	case action.CartRemoved:
		kept := make([]shop.CartEntry, 0, len(c.Items))
		removed := false
		for _, e := range c.Items {
			if e.Product.ID == v.ProductID {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		if !removed {
			return c
		}
		next := *c
		next.Items = kept
		return &next
	case action.PlaceOrderSucceeded:
		// Cleared in the same reduction that appends the order to the
		// history, so observers never see the order placed with the cart
		// still full.
		if len(c.Items) == 0 {
			return c
		}
		next := *c
		next.Items = []shop.CartEntry{}
		return &next
	default:
		return c
	}
}

func reduceOrders(o *Orders, a action.Action) *Orders {
	switch v := a.(type) {
	case action.OrdersLoadRequested:
		if o.Err == "" {
			return o
		}
		next := *o
		next.Err = ""
		return &next
	case action.OrdersLoadSucceeded:
		next := *o
		next.History = FromSlice(v.Orders)
		return &next
	case action.OrdersLoadFailed:
		next := *o
		next.Err = v.Message
		return &next
	case action.OrderFetchRequested:
		if o.Err == "" {
			return o
		}
		next := *o
		next.Err = ""
		return &next
	case action.OrderFetchSucceeded:
		next := *o
		order := v.Order
		next.Selected = &order
		return &next
	case action.OrderFetchFailed:
		next := *o
		next.Err = v.Message
		return &next
	case action.OrderSelectionCleared:
		if o.Selected == nil {
			return o
		}
		next := *o
		next.Selected = nil
		return &next
	case action.PlaceOrderSucceeded:
		next := *o
		next.History = o.History.Put(v.Order)
		return &next
	case action.PlaceOrderFailed:
		next := *o
		next.Err = v.Message
		return &next
	default:
		return o
	}
}

func reduceSession(s *Session, a action.Action) *Session {
	switch a.(type) {
	case action.LoginSucceeded:
		if s.Authenticated {
			return s
		}
		return &Session{Authenticated: true}
	case action.LoggedOut:
		if !s.Authenticated {
			return s
		}
		return &Session{}
	default:
		return s
	}
}
