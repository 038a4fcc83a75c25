package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Memory is an in-process Gateway. Results are deterministic: order ids
// count up from one, timestamps come from an injectable clock, and logins
// derive the user from the scripted account table. Tests can script
// per-operation failures and install hooks that hold a call open to force
// a completion order.
//
// Thread-safety: safe for concurrent use. A call's outcome is decided at
// arrival, under the lock; hooks only delay the return.
type Memory struct {
	mu          sync.Mutex
	products    []shop.Product
	orders      []shop.Order
	users       map[string]string
	currentUser string
	nextOrder   int
	now         func() time.Time

	failures map[string]error
	hooks    map[string]func(call int)
	calls    map[string]int
}

// MemoryOption configures a Memory gateway.
type MemoryOption func(*Memory)

// WithProducts seeds the catalog.
func WithProducts(products []shop.Product) MemoryOption {
	return func(m *Memory) {
		m.products = append([]shop.Product(nil), products...)
	}
}

// WithUsers seeds the account table (email to password).
func WithUsers(users map[string]string) MemoryOption {
	return func(m *Memory) {
		for email, password := range users {
			m.users[email] = password
		}
	}
}

// WithNow replaces the order timestamp source. Scenarios pass a fixed
// clock so order dates are reproducible.
func WithNow(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an empty backend: no products, no accounts, no
// orders.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		users:     make(map[string]string),
		nextOrder: 1,
		now:       time.Now,
		failures:  make(map[string]error),
		hooks:     make(map[string]func(call int)),
		calls:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetProducts replaces the catalog. Calls already in flight keep the
// snapshot they took at arrival.
func (m *Memory) SetProducts(products []shop.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append([]shop.Product(nil), products...)
}

// FailWith scripts op to fail with err until cleared with a nil err.
// Failing calls perform no mutation.
func (m *Memory) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// SetHook installs fn to run on every call to op, after the call's
// outcome is decided and before it returns. The call argument counts
// arrivals per op from zero. A blocking hook delays only the return, so
// tests can dictate which of two in-flight calls completes last.
func (m *Memory) SetHook(op string, fn func(call int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn == nil {
		delete(m.hooks, op)
		return
	}
	m.hooks[op] = fn
}

// bump returns the zero-based arrival index for op. Caller holds m.mu.
func (m *Memory) bump(op string) (int, func(call int)) {
	idx := m.calls[op]
	m.calls[op] = idx + 1
	return idx, m.hooks[op]
}

// ListProducts implements Gateway.
func (m *Memory) ListProducts(ctx context.Context) ([]shop.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpListProducts)
	err := m.failures[OpListProducts]
	out := append([]shop.Product(nil), m.products...)
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct implements Gateway.
func (m *Memory) GetProduct(ctx context.Context, id string) (shop.Product, error) {
	if err := ctx.Err(); err != nil {
		return shop.Product{}, err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpGetProduct)
	err := m.failures[OpGetProduct]
	var found shop.Product
	ok := false
	if err == nil {
		for _, p := range m.products {
			if p.ID == id {
				found = p
				ok = true
				break
			}
		}
		if !ok {
			err = &StatusError{Op: OpGetProduct, Status: http.StatusNotFound, Message: fmt.Sprintf("product %s not found", id)}
		}
	}
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return shop.Product{}, err
	}
	return found, nil
}

// Login implements Gateway. A successful login records the account as the
// current user for subsequent placements.
func (m *Memory) Login(ctx context.Context, creds shop.Credentials) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpLogin)
	err := m.failures[OpLogin]
	var token string
	if err == nil {
		password, ok := m.users[creds.Email]
		if !ok || password != creds.Password {
			err = &StatusError{Op: OpLogin, Status: http.StatusUnauthorized, Message: "invalid credentials"}
		} else {
			m.currentUser = creds.Email
			token = "token-" + creds.Email
		}
	}
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Register implements Gateway. Registration does not log the account in.
func (m *Memory) Register(ctx context.Context, reg shop.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpRegister)
	err := m.failures[OpRegister]
	if err == nil {
		if _, exists := m.users[reg.Email]; exists {
			err = &StatusError{Op: OpRegister, Status: http.StatusConflict, Message: "email already registered"}
		} else {
			m.users[reg.Email] = reg.Password
		}
	}
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	return err
}

// PlaceOrder implements Gateway. The backend recomputes the total and
// rejects drafts that do not add up. Orders belong to the current user,
// or to "guest" when nobody is logged in.
func (m *Memory) PlaceOrder(ctx context.Context, draft shop.OrderDraft) (shop.Order, error) {
	if err := ctx.Err(); err != nil {
		return shop.Order{}, err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpPlaceOrder)
	err := m.failures[OpPlaceOrder]
	var order shop.Order
	if err == nil {
		switch {
		case len(draft.Items) == 0:
			err = &StatusError{Op: OpPlaceOrder, Status: http.StatusBadRequest, Message: "order has no items"}
		case !draft.TotalAmount.Equal(shop.TotalFromItems(draft.Items)):
			err = &StatusError{Op: OpPlaceOrder, Status: http.StatusBadRequest, Message: "total does not match items"}
		default:
			user := m.currentUser
			if user == "" {
				user = "guest"
			}
			order = shop.Order{
				ID:          fmt.Sprintf("order-%d", m.nextOrder),
				UserID:      user,
				Items:       append([]shop.OrderItem(nil), draft.Items...),
				TotalAmount: draft.TotalAmount,
				OrderDate:   m.now().UTC(),
				Status:      shop.StatusPending,
			}
			m.nextOrder++
			m.orders = append(m.orders, order)
		}
	}
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return shop.Order{}, err
	}
	return order, nil
}

// ListOrders implements Gateway.
func (m *Memory) ListOrders(ctx context.Context) ([]shop.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpListOrders)
	err := m.failures[OpListOrders]
	out := append([]shop.Order(nil), m.orders...)
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder implements Gateway.
func (m *Memory) GetOrder(ctx context.Context, id string) (shop.Order, error) {
	if err := ctx.Err(); err != nil {
		return shop.Order{}, err
	}

	m.mu.Lock()
	idx, hook := m.bump(OpGetOrder)
	err := m.failures[OpGetOrder]
	var found shop.Order
	ok := false
	if err == nil {
		for _, o := range m.orders {
			if o.ID == id {
				found = o
				ok = true
				break
			}
		}
		if !ok {
			err = &StatusError{Op: OpGetOrder, Status: http.StatusNotFound, Message: fmt.Sprintf("order %s not found", id)}
		}
	}
	m.mu.Unlock()

	if hook != nil {
		hook(idx)
	}
	if err != nil {
		return shop.Order{}, err
	}
	return found, nil
}
