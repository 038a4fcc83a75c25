package state

import "github.com/SniraJavas/EcommerceWebApp/internal/shop"

// Document renders the tree in the canonical document vocabulary used for
// state digests and traces. The "selected" key is present only while an
// order detail is open.
func Document(t *Tree) map[string]any {
	products := make([]any, 0, t.Catalog.Products.Len())
	for _, p := range t.Catalog.Products.All() {
		products = append(products, shop.ProductDoc(p))
	}

	items := make([]any, 0, len(t.Cart.Items))
	for _, e := range t.Cart.Items {
		items = append(items, map[string]any{"product": shop.ProductDoc(e.Product)})
	}

	history := make([]any, 0, t.Orders.History.Len())
	for _, o := range t.Orders.History.All() {
		history = append(history, shop.OrderDoc(o))
	}
	orders := map[string]any{
		"history": history,
		"error":   t.Orders.Err,
	}
	if t.Orders.Selected != nil {
		orders["selected"] = shop.OrderDoc(*t.Orders.Selected)
	}

	return map[string]any{
		"catalog": map[string]any{
			"products": products,
			"loading":  t.Catalog.Loading,
			"error":    t.Catalog.Err,
		},
		"cart":    map[string]any{"items": items},
		"orders":  orders,
		"session": map[string]any{"authenticated": t.Session.Authenticated},
	}
}
