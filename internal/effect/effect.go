// Package effect bridges actions to the backend. Each effect watches the
// dispatched-action feed for its trigger kind and performs exactly one
// gateway call per occurrence, answering with a success or failure action
// under the trigger's correlation token.
package effect

import (
	"context"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/cart"
	"github.com/SniraJavas/EcommerceWebApp/internal/gateway"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Effect reacts to one action kind.
type Effect struct {
	// Name identifies the effect in logs.
	Name string
	// Kind is the trigger the effect matches.
	Kind action.Kind
	// Call performs the external work for one trigger occurrence and
	// returns the follow-up action to dispatch, or nil for none.
	Call func(ctx context.Context, ev store.Event) action.Action
}

// Defaults returns the production effect set.
func Defaults(gw gateway.Gateway, vault gateway.TokenVault, mgr *cart.Manager) []Effect {
	return []Effect{
		LoadProducts(gw),
		LoadOrders(gw),
		FetchOrder(gw),
		PlaceOrder(gw, mgr),
		Login(gw, vault),
		Register(gw),
		Logout(vault),
	}
}

// LoadProducts fetches the catalog when a load is requested.
func LoadProducts(gw gateway.Gateway) Effect {
	return Effect{
		Name: "load-products",
		Kind: action.KindCatalogLoadRequested,
		Call: func(ctx context.Context, _ store.Event) action.Action {
			products, err := gw.ListProducts(ctx)
			if err != nil {
				return action.CatalogLoadFailed{Message: err.Error()}
			}
			return action.CatalogLoadSucceeded{Products: products}
		},
	}
}

// LoadOrders fetches the order history when a load is requested.
func LoadOrders(gw gateway.Gateway) Effect {
	return Effect{
		Name: "load-orders",
		Kind: action.KindOrdersLoadRequested,
		Call: func(ctx context.Context, _ store.Event) action.Action {
			orders, err := gw.ListOrders(ctx)
			if err != nil {
				return action.OrdersLoadFailed{Message: err.Error()}
			}
			return action.OrdersLoadSucceeded{Orders: orders}
		},
	}
}

// FetchOrder loads one order's detail when it is requested.
func FetchOrder(gw gateway.Gateway) Effect {
	return Effect{
		Name: "fetch-order",
		Kind: action.KindOrderFetchRequested,
		Call: func(ctx context.Context, ev store.Event) action.Action {
			req, ok := ev.Action.(action.OrderFetchRequested)
			if !ok {
				return nil
			}
			order, err := gw.GetOrder(ctx, req.OrderID)
			if err != nil {
				return action.OrderFetchFailed{Message: err.Error()}
			}
			return action.OrderFetchSucceeded{Order: order}
		},
	}
}

// PlaceOrder submits the cart when placement is requested. The cart is
// snapshotted through the manager when the call starts; the snapshot's
// prices are the ones the order records, whatever the catalog does
// afterwards.
func PlaceOrder(gw gateway.Gateway, mgr *cart.Manager) Effect {
	return Effect{
		Name: "place-order",
		Kind: action.KindPlaceOrderRequested,
		Call: func(ctx context.Context, _ store.Event) action.Action {
			draft := shop.DraftFromEntries(mgr.Snapshot())
			order, err := gw.PlaceOrder(ctx, draft)
			if err != nil {
				return action.PlaceOrderFailed{Message: err.Error()}
			}
			return action.PlaceOrderSucceeded{Order: order}
		},
	}
}

// Login exchanges credentials for a bearer token. The token goes into the
// vault; only the derived authenticated flag enters the state tree.
func Login(gw gateway.Gateway, vault gateway.TokenVault) Effect {
	return Effect{
		Name: "login",
		Kind: action.KindLoginRequested,
		Call: func(ctx context.Context, ev store.Event) action.Action {
			req, ok := ev.Action.(action.LoginRequested)
			if !ok {
				return nil
			}
			token, err := gw.Login(ctx, req.Credentials)
			if err != nil {
				return action.LoginFailed{Message: err.Error()}
			}
			vault.Save(token)
			return action.LoginSucceeded{}
		},
	}
}

// Register creates an account. Success does not log the account in; the
// caller decides whether to follow with a login request.
func Register(gw gateway.Gateway) Effect {
	return Effect{
		Name: "register",
		Kind: action.KindRegisterRequested,
		Call: func(ctx context.Context, ev store.Event) action.Action {
			req, ok := ev.Action.(action.RegisterRequested)
			if !ok {
				return nil
			}
			if err := gw.Register(ctx, req.Registration); err != nil {
				return action.RegisterFailed{Message: err.Error()}
			}
			return action.RegisterSucceeded{}
		},
	}
}

// Logout drops the vault token once the session slice has logged out. No
// follow-up action is needed.
func Logout(vault gateway.TokenVault) Effect {
	return Effect{
		Name: "clear-session-token",
		Kind: action.KindLoggedOut,
		Call: func(context.Context, store.Event) action.Action {
			vault.Clear()
			return nil
		},
	}
}
