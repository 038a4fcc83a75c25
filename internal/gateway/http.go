package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// HTTP is the production Gateway over the storefront REST API. Prices
// arrive as quoted decimal strings and decode losslessly; a bearer token
// from the vault rides every request once a login stored one.
type HTTP struct {
	base   string
	client *http.Client
	vault  TokenVault
}

// HTTPOption configures an HTTP gateway.
type HTTPOption func(*HTTP)

// WithClient replaces the underlying http.Client. Tests pass the
// httptest server's client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// NewHTTP creates a gateway for the API rooted at base. The vault may be
// nil for a backend without protected routes.
func NewHTTP(base string, vault TokenVault, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 15 * time.Second},
		vault:  vault,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListProducts implements Gateway.
func (h *HTTP) ListProducts(ctx context.Context) ([]shop.Product, error) {
	var out []shop.Product
	if err := h.do(ctx, OpListProducts, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []shop.Product{}
	}
	return out, nil
}

// GetProduct implements Gateway.
func (h *HTTP) GetProduct(ctx context.Context, id string) (shop.Product, error) {
	var out shop.Product
	err := h.do(ctx, OpGetProduct, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Login implements Gateway.
func (h *HTTP) Login(ctx context.Context, creds shop.Credentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := h.do(ctx, OpLogin, http.MethodPost, "/login", creds, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%s: backend sent no token", OpLogin)
	}
	return out.Token, nil
}

// Register implements Gateway.
func (h *HTTP) Register(ctx context.Context, reg shop.Registration) error {
	return h.do(ctx, OpRegister, http.MethodPost, "/register", reg, nil)
}

// PlaceOrder implements Gateway.
func (h *HTTP) PlaceOrder(ctx context.Context, draft shop.OrderDraft) (shop.Order, error) {
	var out shop.Order
	err := h.do(ctx, OpPlaceOrder, http.MethodPost, "/orders", draft, &out)
	return out, err
}

// ListOrders implements Gateway.
func (h *HTTP) ListOrders(ctx context.Context) ([]shop.Order, error) {
	var out []shop.Order
	if err := h.do(ctx, OpListOrders, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []shop.Order{}
	}
	return out, nil
}

// GetOrder implements Gateway.
func (h *HTTP) GetOrder(ctx context.Context, id string) (shop.Order, error) {
	var out shop.Order
	err := h.do(ctx, OpGetOrder, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

// do sends one JSON request and decodes the reply into out (skipped when
// out is nil). Non-2xx replies become StatusError.
func (h *HTTP) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.base+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.vault != nil {
		if token, ok := h.vault.Load(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage extracts the backend's {"error": ...} description, falling
// back to the raw body.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
