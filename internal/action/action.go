// Package action defines the closed set of state transitions the store
// understands. Actions are tagged, immutable descriptions of intent; they
// carry data, never behavior. The set is sealed so no caller can smuggle
// in a transition the reducers were not written for. Note that no action
// exists that mutates an order's status.
package action

import "github.com/SniraJavas/EcommerceWebApp/internal/shop"

// Kind is the stable string tag of an action, used for effect matching,
// journaling, scenarios, and traces.
type Kind string

const (
	KindCatalogLoadRequested Kind = "catalog/loadRequested"
	KindCatalogLoadSucceeded Kind = "catalog/loadSucceeded"
	KindCatalogLoadFailed    Kind = "catalog/loadFailed"

	KindCartAdded   Kind = "cart/added"
	KindCartRemoved Kind = "cart/removed"

	KindOrdersLoadRequested   Kind = "orders/loadRequested"
	KindOrdersLoadSucceeded   Kind = "orders/loadSucceeded"
	KindOrdersLoadFailed      Kind = "orders/loadFailed"
	KindOrderFetchRequested   Kind = "orders/fetchRequested"
	KindOrderFetchSucceeded   Kind = "orders/fetchSucceeded"
	KindOrderFetchFailed      Kind = "orders/fetchFailed"
	KindOrderSelectionCleared Kind = "orders/selectionCleared"
	KindPlaceOrderRequested   Kind = "orders/placeRequested"
	KindPlaceOrderSucceeded   Kind = "orders/placeSucceeded"
	KindPlaceOrderFailed      Kind = "orders/placeFailed"

	KindLoginRequested    Kind = "session/loginRequested"
	KindLoginSucceeded    Kind = "session/loginSucceeded"
	KindLoginFailed       Kind = "session/loginFailed"
	KindRegisterRequested Kind = "session/registerRequested"
	KindRegisterSucceeded Kind = "session/registerSucceeded"
	KindRegisterFailed    Kind = "session/registerFailed"
	KindLoggedOut         Kind = "session/loggedOut"
)

// Action is the sealed interface all dispatched values implement.
// Only the types in this package satisfy it.
type Action interface {
	Kind() Kind
	isAction()
}

// CatalogLoadRequested asks for a full catalog reload. The catalog
// reducer clears the slice error; the load effect performs the fetch.
type CatalogLoadRequested struct{}

// CatalogLoadSucceeded carries a freshly fetched catalog. The previous
// collection is replaced wholesale.
type CatalogLoadSucceeded struct {
	Products []shop.Product
}

// CatalogLoadFailed records a catalog fetch failure.
type CatalogLoadFailed struct {
	Message string
}

// CartAdded appends one entry for the product, even when entries for the
// same product already exist.
type CartAdded struct {
	Product shop.Product
}

// CartRemoved deletes every entry whose product id matches.
type CartRemoved struct {
	ProductID string
}

// OrdersLoadRequested asks for a full order-history reload.
type OrdersLoadRequested struct{}

// OrdersLoadSucceeded carries the reloaded order history.
type OrdersLoadSucceeded struct {
	Orders []shop.Order
}

// OrdersLoadFailed records an order-history fetch failure.
type OrdersLoadFailed struct {
	Message string
}

// OrderFetchRequested asks for one order's detail.
type OrderFetchRequested struct {
	OrderID string
}

// OrderFetchSucceeded sets the selected order.
type OrderFetchSucceeded struct {
	Order shop.Order
}

// OrderFetchFailed records a detail fetch failure. Not-found travels this
// same channel; the engine does not distinguish it from transport failure.
type OrderFetchFailed struct {
	Message string
}

// OrderSelectionCleared drops the selected order, dispatched by the
// navigation layer when leaving the detail view.
type OrderSelectionCleared struct{}

// PlaceOrderRequested starts a placement attempt. It carries nothing; the
// placement effect snapshots the cart when it processes the trigger.
type PlaceOrderRequested struct{}

// PlaceOrderSucceeded carries the created order. It is reduced by both the
// orders slice (append to history) and the cart slice (clear), in the same
// reduction, so the clear is atomic with the append.
type PlaceOrderSucceeded struct {
	Order shop.Order
}

// PlaceOrderFailed records a placement failure. The cart is left untouched
// so the user can resubmit.
type PlaceOrderFailed struct {
	Message string
}

// LoginRequested starts a login attempt.
type LoginRequested struct {
	Credentials shop.Credentials
}

// LoginSucceeded marks the session authenticated. The opaque token itself
// is handed to the token vault by the login effect, never stored in state.
type LoginSucceeded struct{}

// LoginFailed reports a failed login. No slice changes; the UI consumes it
// from the action stream.
type LoginFailed struct {
	Message string
}

// RegisterRequested starts a registration attempt.
type RegisterRequested struct {
	Registration shop.Registration
}

// RegisterSucceeded reports a completed registration.
type RegisterSucceeded struct{}

// RegisterFailed reports a failed registration.
type RegisterFailed struct {
	Message string
}

// LoggedOut marks the session unauthenticated.
type LoggedOut struct{}

func (CatalogLoadRequested) Kind() Kind  { return KindCatalogLoadRequested }
func (CatalogLoadSucceeded) Kind() Kind  { return KindCatalogLoadSucceeded }
func (CatalogLoadFailed) Kind() Kind     { return KindCatalogLoadFailed }
func (CartAdded) Kind() Kind             { return KindCartAdded }
func (CartRemoved) Kind() Kind           { return KindCartRemoved }
func (OrdersLoadRequested) Kind() Kind   { return KindOrdersLoadRequested }
func (OrdersLoadSucceeded) Kind() Kind   { return KindOrdersLoadSucceeded }
func (OrdersLoadFailed) Kind() Kind      { return KindOrdersLoadFailed }
func (OrderFetchRequested) Kind() Kind   { return KindOrderFetchRequested }
func (OrderFetchSucceeded) Kind() Kind   { return KindOrderFetchSucceeded }
func (OrderFetchFailed) Kind() Kind      { return KindOrderFetchFailed }
func (OrderSelectionCleared) Kind() Kind { return KindOrderSelectionCleared }
func (PlaceOrderRequested) Kind() Kind   { return KindPlaceOrderRequested }
func (PlaceOrderSucceeded) Kind() Kind   { return KindPlaceOrderSucceeded }
func (PlaceOrderFailed) Kind() Kind      { return KindPlaceOrderFailed }
func (LoginRequested) Kind() Kind        { return KindLoginRequested }
func (LoginSucceeded) Kind() Kind        { return KindLoginSucceeded }
func (LoginFailed) Kind() Kind           { return KindLoginFailed }
func (RegisterRequested) Kind() Kind     { return KindRegisterRequested }
func (RegisterSucceeded) Kind() Kind     { return KindRegisterSucceeded }
func (RegisterFailed) Kind() Kind        { return KindRegisterFailed }
func (LoggedOut) Kind() Kind             { return KindLoggedOut }

func (CatalogLoadRequested) isAction()  {}
func (CatalogLoadSucceeded) isAction()  {}
func (CatalogLoadFailed) isAction()     {}
func (CartAdded) isAction()             {}
func (CartRemoved) isAction()           {}
func (OrdersLoadRequested) isAction()   {}
func (OrdersLoadSucceeded) isAction()   {}
func (OrdersLoadFailed) isAction()      {}
func (OrderFetchRequested) isAction()   {}
func (OrderFetchSucceeded) isAction()   {}
func (OrderFetchFailed) isAction()      {}
func (OrderSelectionCleared) isAction() {}
func (PlaceOrderRequested) isAction()   {}
func (PlaceOrderSucceeded) isAction()   {}
func (PlaceOrderFailed) isAction()      {}
func (LoginRequested) isAction()        {}
func (LoginSucceeded) isAction()        {}
func (LoginFailed) isAction()           {}
func (RegisterRequested) isAction()     {}
func (RegisterSucceeded) isAction()     {}
func (RegisterFailed) isAction()        {}
func (LoggedOut) isAction()             {}

// Kinds lists every known kind in a stable order. Used by the codec and
// by validation of scenario files.
func Kinds() []Kind {
	return []Kind{
		KindCatalogLoadRequested,
		KindCatalogLoadSucceeded,
		KindCatalogLoadFailed,
		KindCartAdded,
		KindCartRemoved,
		KindOrdersLoadRequested,
		KindOrdersLoadSucceeded,
		KindOrdersLoadFailed,
		KindOrderFetchRequested,
		KindOrderFetchSucceeded,
		KindOrderFetchFailed,
		KindOrderSelectionCleared,
		KindPlaceOrderRequested,
		KindPlaceOrderSucceeded,
		KindPlaceOrderFailed,
		KindLoginRequested,
		KindLoginSucceeded,
		KindLoginFailed,
		KindRegisterRequested,
		KindRegisterSucceeded,
		KindRegisterFailed,
		KindLoggedOut,
	}
}

// KnownKind reports whether k names an action in the closed set.
func KnownKind(k Kind) bool {
	for _, known := range Kinds() {
		if known == k {
			return true
		}
	}
	return false
}
