package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next. Transitions are
// one-way: Pending may become Completed or Cancelled; Completed and
// Cancelled are terminal. The engine exposes no action that performs a
// transition, so this predicate is the contract a backend must honor.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusCompleted || next == StatusCancelled
}

// OrderItem is one line of a placed order. Price is a snapshot taken at
// placement time; later catalog price changes never touch it.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderDate   time.Time       `json:"orderDate"`
	Status      OrderStatus     `json:"status"`
}

// Key returns the collection key for an order.
func (o Order) Key() string { return o.ID }

// OrderDraft is the placement request: the snapshotted items plus the
// total the client computed from them. Backends recompute and reject
// drafts whose total does not match the items.
type OrderDraft struct {
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// TotalFromItems sums quantity times price over the items. This is the
// invariant total; Order.TotalAmount must always equal it.
func TotalFromItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// DraftFromEntries maps a cart snapshot to an order draft. Each entry
// becomes one item with quantity 1; duplicate entries for the same product
// stay separate lines, mirroring how the cart accumulates them.
func DraftFromEntries(entries []CartEntry) OrderDraft {
	items := make([]OrderItem, len(entries))
	for i, e := range entries {
		items[i] = OrderItem{
			ProductID:   e.Product.ID,
			ProductName: e.Product.Name,
			Quantity:    1,
			Price:       e.Product.Price,
		}
	}
	return OrderDraft{Items: items, TotalAmount: TotalFromItems(items)}
}
