package shop

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Document forms of the domain types: map[string]any trees ready for
// canonical JSON. Decimals become strings and times RFC 3339 strings so
// the canonical encoder never sees a float. Field names match the JSON
// wire contract.

// ProductDoc returns the canonical document for a product.
func ProductDoc(p Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price.String(),
		"description": p.Description,
		"image":       p.Image,
	}
}

// ProductFromDoc rebuilds a product from its document form.
func ProductFromDoc(m map[string]any) (Product, error) {
	var p Product
	var err error
	if p.ID, err = docString(m, "id"); err != nil {
		return Product{}, err
	}
	if p.Name, err = docString(m, "name"); err != nil {
		return Product{}, err
	}
	if p.Price, err = docDecimal(m, "price"); err != nil {
		return Product{}, err
	}
	if p.Description, err = docString(m, "description"); err != nil {
		return Product{}, err
	}
	if p.Image, err = docString(m, "image"); err != nil {
		return Product{}, err
	}
	return p, nil
}

// OrderItemDoc returns the canonical document for an order item.
func OrderItemDoc(it OrderItem) map[string]any {
	return map[string]any{
		"productId":   it.ProductID,
		"productName": it.ProductName,
		"quantity":    int64(it.Quantity),
		"price":       it.Price.String(),
	}
}

// OrderItemFromDoc rebuilds an order item from its document form.
func OrderItemFromDoc(m map[string]any) (OrderItem, error) {
	var it OrderItem
	var err error
	if it.ProductID, err = docString(m, "productId"); err != nil {
		return OrderItem{}, err
	}
	if it.ProductName, err = docString(m, "productName"); err != nil {
		return OrderItem{}, err
	}
	qty, err := docInt(m, "quantity")
	if err != nil {
		return OrderItem{}, err
	}
	it.Quantity = int(qty)
	if it.Price, err = docDecimal(m, "price"); err != nil {
		return OrderItem{}, err
	}
	return it, nil
}

// OrderDoc returns the canonical document for an order.
func OrderDoc(o Order) map[string]any {
	items := make([]any, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDoc(it)
	}
	return map[string]any{
		"id":          o.ID,
		"userId":      o.UserID,
		"items":       items,
		"totalAmount": o.TotalAmount.String(),
		"orderDate":   o.OrderDate.UTC().Format(time.RFC3339Nano),
		"status":      string(o.Status),
	}
}

// OrderFromDoc rebuilds an order from its document form.
func OrderFromDoc(m map[string]any) (Order, error) {
	var o Order
	var err error
	if o.ID, err = docString(m, "id"); err != nil {
		return Order{}, err
	}
	if o.UserID, err = docString(m, "userId"); err != nil {
		return Order{}, err
	}

	rawItems, ok := m["items"].([]any)
	if !ok {
		return Order{}, fmt.Errorf("order document: items must be an array")
	}
	o.Items = make([]OrderItem, len(rawItems))
	for i, raw := range rawItems {
		itemMap, ok := raw.(map[string]any)
		if !ok {
			return Order{}, fmt.Errorf("order document: items[%d] must be an object", i)
		}
		it, err := OrderItemFromDoc(itemMap)
		if err != nil {
			return Order{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		o.Items[i] = it
	}

	if o.TotalAmount, err = docDecimal(m, "totalAmount"); err != nil {
		return Order{}, err
	}

	dateStr, err := docString(m, "orderDate")
	if err != nil {
		return Order{}, err
	}
	if o.OrderDate, err = time.Parse(time.RFC3339Nano, dateStr); err != nil {
		return Order{}, fmt.Errorf("order document: orderDate: %w", err)
	}

	statusStr, err := docString(m, "status")
	if err != nil {
		return Order{}, err
	}
	o.Status = OrderStatus(statusStr)
	if !o.Status.Valid() {
		return Order{}, fmt.Errorf("order document: unknown status %q", statusStr)
	}

	return o, nil
}

func docString(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("document missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("document field %q must be a string, got %T", key, v)
	}
	return s, nil
}

func docDecimal(m map[string]any, key string) (decimal.Decimal, error) {
	s, err := docString(m, key)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("document field %q: %w", key, err)
	}
	return d, nil
}

func docInt(m map[string]any, key string) (int64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("document missing field %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("document field %q must be an integer, got %T", key, v)
	}
}
