package gateway

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
}

func demoProducts() []shop.Product {
	return []shop.Product{
		{ID: "p-1", Name: "Mechanical Keyboard", Price: price("19.99")},
		{ID: "p-2", Name: "Mug", Price: price("5.00")},
	}
}

func TestMemory_ListAndGetProducts(t *testing.T) {
	m := NewMemory(WithProducts(demoProducts()))
	ctx := context.Background()

	products, err := m.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	got, err := m.GetProduct(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)

	_, err = m.GetProduct(ctx, "p-404")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMemory_LoginLifecycle(t *testing.T) {
	m := NewMemory(WithUsers(map[string]string{"ada@example.com": "hunter2"}))
	ctx := context.Background()

	_, err := m.Login(ctx, shop.Credentials{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	token, err := m.Login(ctx, shop.Credentials{Email: "ada@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "token-ada@example.com", token)
}

func TestMemory_RegisterThenLogin(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	reg := shop.Registration{Name: "Ada", Email: "ada@example.com", Password: "hunter2"}
	require.NoError(t, m.Register(ctx, reg))

	err := m.Register(ctx, reg)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)

	_, err = m.Login(ctx, shop.Credentials{Email: "ada@example.com", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestMemory_PlaceOrderDeterministic(t *testing.T) {
	m := NewMemory(WithNow(fixedNow), WithUsers(map[string]string{"ada@example.com": "hunter2"}))
	ctx := context.Background()

	draft := shop.DraftFromEntries([]shop.CartEntry{
		{Product: demoProducts()[0]},
		{Product: demoProducts()[0]},
	})

	first, err := m.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "order-1", first.ID)
	assert.Equal(t, "guest", first.UserID)
	assert.Equal(t, shop.StatusPending, first.Status)
	assert.Equal(t, fixedNow(), first.OrderDate)
	assert.Equal(t, "39.98", first.TotalAmount.String())

	_, err = m.Login(ctx, shop.Credentials{Email: "ada@example.com", Password: "hunter2"})
	require.NoError(t, err)

	second, err := m.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "order-2", second.ID)
	assert.Equal(t, "ada@example.com", second.UserID)

	orders, err := m.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	got, err := m.GetOrder(ctx, "order-2")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.UserID)
}

func TestMemory_PlaceOrderRejectsBadDrafts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.PlaceOrder(ctx, shop.OrderDraft{Items: []shop.OrderItem{}, TotalAmount: decimal.Zero})
	require.Error(t, err)

	draft := shop.DraftFromEntries([]shop.CartEntry{{Product: demoProducts()[0]}})
	draft.TotalAmount = price("1.00")
	_, err = m.PlaceOrder(ctx, draft)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
}

func TestMemory_ScriptedFailure(t *testing.T) {
	m := NewMemory(WithProducts(demoProducts()))
	ctx := context.Background()

	scripted := &StatusError{Op: OpListProducts, Status: http.StatusServiceUnavailable, Message: "maintenance"}
	m.FailWith(OpListProducts, scripted)

	_, err := m.ListProducts(ctx)
	require.ErrorIs(t, err, scripted)

	m.FailWith(OpListProducts, nil)
	_, err = m.ListProducts(ctx)
	assert.NoError(t, err)
}

func TestMemory_HookDelaysReturnNotOutcome(t *testing.T) {
	m := NewMemory(WithProducts(demoProducts()))
	ctx := context.Background()

	arrived := make(chan struct{})
	release := make(chan struct{})
	m.SetHook(OpListProducts, func(call int) {
		if call == 0 {
			close(arrived)
			<-release
		}
	})

	var wg sync.WaitGroup
	var blocked []shop.Product
	var blockedErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		blocked, blockedErr = m.ListProducts(ctx)
	}()

	// Swap the catalog while the first call is held open; its outcome was
	// decided at arrival.
	<-arrived
	swapped := []shop.Product{{ID: "p-9", Name: "New Thing", Price: price("1.00")}}
	m.SetProducts(swapped)

	second, err := m.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "p-9", second[0].ID)

	close(release)
	wg.Wait()

	require.NoError(t, blockedErr)
	require.Len(t, blocked, 2)
	assert.Equal(t, "p-1", blocked[0].ID)
}

func TestMemory_ContextCancellation(t *testing.T) {
	m := NewMemory(WithProducts(demoProducts()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
