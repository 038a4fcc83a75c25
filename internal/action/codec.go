package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SniraJavas/EcommerceWebApp/internal/canon"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Encode returns the canonical document form of an action's payload.
// Trigger actions with no data encode to an empty object.
func Encode(a Action) (map[string]any, error) {
	switch v := a.(type) {
	case CatalogLoadRequested, OrdersLoadRequested, OrderSelectionCleared,
		PlaceOrderRequested, LoginSucceeded, RegisterSucceeded, LoggedOut:
		return map[string]any{}, nil

	case CatalogLoadSucceeded:
		return map[string]any{"products": productsDoc(v.Products)}, nil
	case CatalogLoadFailed:
		return map[string]any{"message": v.Message}, nil

	case CartAdded:
		return map[string]any{"product": shop.ProductDoc(v.Product)}, nil
	case CartRemoved:
		return map[string]any{"productId": v.ProductID}, nil

	case OrdersLoadSucceeded:
		return map[string]any{"orders": ordersDoc(v.Orders)}, nil
	case OrdersLoadFailed:
		return map[string]any{"message": v.Message}, nil
	case OrderFetchRequested:
		return map[string]any{"orderId": v.OrderID}, nil
	case OrderFetchSucceeded:
		return map[string]any{"order": shop.OrderDoc(v.Order)}, nil
	case OrderFetchFailed:
		return map[string]any{"message": v.Message}, nil
	case PlaceOrderSucceeded:
		return map[string]any{"order": shop.OrderDoc(v.Order)}, nil
	case PlaceOrderFailed:
		return map[string]any{"message": v.Message}, nil

	case LoginRequested:
		return map[string]any{"email": v.Credentials.Email, "password": v.Credentials.Password}, nil
	case LoginFailed:
		return map[string]any{"message": v.Message}, nil
	case RegisterRequested:
		return map[string]any{
			"name":     v.Registration.Name,
			"email":    v.Registration.Email,
			"password": v.Registration.Password,
		}, nil
	case RegisterFailed:
		return map[string]any{"message": v.Message}, nil

	default:
		return nil, fmt.Errorf("encode action: unhandled type %T", a)
	}
}

// Decode rebuilds an action from its kind and payload document.
// Unknown kinds are an error here (unlike in reducers, which ignore them):
// a journal or scenario naming a kind this build does not know is corrupt
// input, not a no-op.
func Decode(kind Kind, payload map[string]any) (Action, error) {
	switch kind {
	case KindCatalogLoadRequested:
		return CatalogLoadRequested{}, nil
	case KindCatalogLoadSucceeded:
		products, err := productsFromDoc(payload, "products")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return CatalogLoadSucceeded{Products: products}, nil
	case KindCatalogLoadFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return CatalogLoadFailed{Message: msg}, nil

	case KindCartAdded:
		doc, err := payloadObject(payload, "product")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		p, err := shop.ProductFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return CartAdded{Product: p}, nil
	case KindCartRemoved:
		id, err := payloadString(payload, "productId")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return CartRemoved{ProductID: id}, nil

	case KindOrdersLoadRequested:
		return OrdersLoadRequested{}, nil
	case KindOrdersLoadSucceeded:
		orders, err := ordersFromDoc(payload, "orders")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return OrdersLoadSucceeded{Orders: orders}, nil
	case KindOrdersLoadFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return OrdersLoadFailed{Message: msg}, nil
	case KindOrderFetchRequested:
		id, err := payloadString(payload, "orderId")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return OrderFetchRequested{OrderID: id}, nil
	case KindOrderFetchSucceeded:
		doc, err := payloadObject(payload, "order")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		o, err := shop.OrderFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return OrderFetchSucceeded{Order: o}, nil
	case KindOrderFetchFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return OrderFetchFailed{Message: msg}, nil
	case KindOrderSelectionCleared:
		return OrderSelectionCleared{}, nil

	case KindPlaceOrderRequested:
		return PlaceOrderRequested{}, nil
	case KindPlaceOrderSucceeded:
		doc, err := payloadObject(payload, "order")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		o, err := shop.OrderFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return PlaceOrderSucceeded{Order: o}, nil
	case KindPlaceOrderFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return PlaceOrderFailed{Message: msg}, nil

	case KindLoginRequested:
		email, err := payloadString(payload, "email")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		password, err := payloadString(payload, "password")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return LoginRequested{Credentials: shop.Credentials{Email: email, Password: password}}, nil
	case KindLoginSucceeded:
		return LoginSucceeded{}, nil
	case KindLoginFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return LoginFailed{Message: msg}, nil
	case KindRegisterRequested:
		name, err := payloadString(payload, "name")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		email, err := payloadString(payload, "email")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		password, err := payloadString(payload, "password")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return RegisterRequested{Registration: shop.Registration{Name: name, Email: email, Password: password}}, nil
	case KindRegisterSucceeded:
		return RegisterSucceeded{}, nil
	case KindRegisterFailed:
		msg, err := payloadString(payload, "message")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return RegisterFailed{Message: msg}, nil
	case KindLoggedOut:
		return LoggedOut{}, nil

	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
}

// DecodeJSON rebuilds an action from a kind and a JSON payload, as stored
// in the journal. Numbers are decoded through json.Number and converted to
// int64; fractional numbers are rejected to keep floats out of the
// pipeline.
func DecodeJSON(kind Kind, data []byte) (Action, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode payload for %s: %w", kind, err)
	}

	normalized, err := normalizeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode payload for %s: %w", kind, err)
	}
	payload, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode payload for %s: payload must be an object, got %T", kind, normalized)
	}

	return Decode(kind, payload)
}

// MarshalPayload canonically serializes an action's payload.
func MarshalPayload(a Action) ([]byte, error) {
	payload, err := Encode(a)
	if err != nil {
		return nil, err
	}
	return canon.Marshal(payload)
}

// Digest computes the content-addressed id of one dispatched action:
// SHA-256 over the canonical form of {token, kind, payload, seq} with the
// action domain prefix.
func Digest(token string, kind Kind, payload map[string]any, seq int64) (string, error) {
	return canon.Digest(canon.DomainAction, map[string]any{
		"token":   token,
		"kind":    string(kind),
		"payload": payload,
		"seq":     seq,
	})
}

// normalizeJSON converts decoded JSON values into the document vocabulary:
// json.Number to int64, nested maps and slices normalized recursively,
// nulls and fractional numbers rejected.
func normalizeJSON(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in action payloads")
	case string, bool:
		return val, nil
	case json.Number:
		s := val.String()
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("fractional number %s is forbidden in action payloads", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return n, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			norm, err := normalizeJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out[i] = norm
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			norm, err := normalizeJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			out[k] = norm
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value type %T", v)
	}
}

func productsDoc(products []shop.Product) []any {
	out := make([]any, len(products))
	for i, p := range products {
		out[i] = shop.ProductDoc(p)
	}
	return out
}

func productsFromDoc(payload map[string]any, key string) ([]shop.Product, error) {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be an array", key)
	}
	out := make([]shop.Product, len(raw))
	for i, elem := range raw {
		doc, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an object", key, i)
		}
		p, err := shop.ProductFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out[i] = p
	}
	return out, nil
}

func ordersDoc(orders []shop.Order) []any {
	out := make([]any, len(orders))
	for i, o := range orders {
		out[i] = shop.OrderDoc(o)
	}
	return out
}

func ordersFromDoc(payload map[string]any, key string) ([]shop.Order, error) {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be an array", key)
	}
	out := make([]shop.Order, len(raw))
	for i, elem := range raw {
		doc, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an object", key, i)
		}
		o, err := shop.OrderFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out[i] = o
	}
	return out, nil
}

func payloadString(payload map[string]any, key string) (string, error) {
	v, ok := payload[key]
	if !ok {
		return "", fmt.Errorf("payload missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("payload field %q must be a string, got %T", key, v)
	}
	return s, nil
}

func payloadObject(payload map[string]any, key string) (map[string]any, error) {
	v, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("payload missing field %q", key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload field %q must be an object, got %T", key, v)
	}
	return m, nil
}
