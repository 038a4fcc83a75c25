// Package scenario runs YAML-scripted storefront sessions against a real
// engine and captures their dispatch traces.
//
// A scenario seeds a deterministic in-memory backend, then dispatches a
// scripted sequence of actions through a store with the effects runtime
// attached, settling after each step so follow-up actions land at
// reproducible positions. Flow tokens are fixed ("flow-1", "flow-2", ...),
// the backend clock is pinned, and order ids count up from one, so the
// same scenario always produces the same trace. Traces serialize to
// canonical JSON for byte-for-byte golden comparison.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/gateway"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Scenario is one scripted storefront session.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Now pins the backend clock, RFC 3339. Optional; when empty the
	// runner uses a fixed default instant so order dates stay
	// reproducible either way.
	Now string `yaml:"now,omitempty"`

	// Catalog seeds the backend's product list, in order.
	Catalog []CatalogEntry `yaml:"catalog,omitempty"`

	// Users seeds the backend's account table, email to password.
	Users map[string]string `yaml:"users,omitempty"`

	// Failures scripts backend errors per operation. A scripted failure
	// is sticky: every call to that operation fails for the whole run.
	Failures []Failure `yaml:"failures,omitempty"`

	// Steps is the dispatch sequence. The runner settles the effects
	// runtime after each step before moving to the next.
	Steps []Step `yaml:"steps"`
}

// CatalogEntry is a seeded product. Price is a decimal string; trailing
// zeros are trimmed when the product is serialized, so "7.25" survives a
// round trip but "7.50" comes back as "7.5".
type CatalogEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

// Failure scripts one backend operation to fail.
type Failure struct {
	// Op is the gateway operation name, e.g. "PlaceOrder".
	Op string `yaml:"op"`

	// Status is the HTTP status code the backend reports.
	Status int `yaml:"status"`

	// Message is the backend's error description, if any.
	Message string `yaml:"message,omitempty"`
}

// Step dispatches one action.
type Step struct {
	// Dispatch is the action kind, e.g. "cart/added".
	Dispatch string `yaml:"dispatch"`

	// Payload carries the action's payload document for kinds that need
	// one. Strings and booleans pass through; numbers must be integers.
	Payload map[string]any `yaml:"payload,omitempty"`

	// Product resolves a catalog id into the payload. Shorthand for cart
	// steps so scenarios do not repeat full product documents.
	Product string `yaml:"product,omitempty"`
}

// Load reads and parses a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario YAML. Unknown fields are rejected so typos like
// "step:" for "steps:" fail loudly instead of silently dropping work.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

var knownOps = map[string]bool{
	gateway.OpListProducts: true,
	gateway.OpGetProduct:   true,
	gateway.OpLogin:        true,
	gateway.OpRegister:     true,
	gateway.OpPlaceOrder:   true,
	gateway.OpListOrders:   true,
	gateway.OpGetOrder:     true,
}

// validate checks required fields and cross-references before anything
// runs, so a broken scenario fails at load with a positional message
// rather than halfway through a session.
func validate(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Description == "" {
		return fmt.Errorf("description is required")
	}
	if sc.Now != "" {
		if _, err := time.Parse(time.RFC3339, sc.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}

	catalog := make(map[string]bool, len(sc.Catalog))
	for i, e := range sc.Catalog {
		if e.ID == "" {
			return fmt.Errorf("catalog[%d]: id is required", i)
		}
		if catalog[e.ID] {
			return fmt.Errorf("catalog[%d]: duplicate product id %q", i, e.ID)
		}
		catalog[e.ID] = true
		if e.Name == "" {
			return fmt.Errorf("catalog[%d]: name is required", i)
		}
		if _, err := decimal.NewFromString(e.Price); err != nil {
			return fmt.Errorf("catalog[%d]: price: %w", i, err)
		}
	}

	for i, f := range sc.Failures {
		if !knownOps[f.Op] {
			return fmt.Errorf("failures[%d]: unknown operation %q", i, f.Op)
		}
		if f.Status < 400 || f.Status > 599 {
			return fmt.Errorf("failures[%d]: status must be an HTTP error code, got %d", i, f.Status)
		}
	}

	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, st := range sc.Steps {
		if st.Dispatch == "" {
			return fmt.Errorf("steps[%d]: dispatch is required", i)
		}
		kind := action.Kind(st.Dispatch)
		if !slices.Contains(action.Kinds(), kind) {
			return fmt.Errorf("steps[%d]: unknown action kind %q", i, st.Dispatch)
		}
		if st.Product != "" {
			if kind != action.KindCartAdded && kind != action.KindCartRemoved {
				return fmt.Errorf("steps[%d]: product shorthand only applies to cart steps", i)
			}
			if st.Payload != nil {
				return fmt.Errorf("steps[%d]: product and payload are mutually exclusive", i)
			}
			if !catalog[st.Product] {
				return fmt.Errorf("steps[%d]: product %q is not in the catalog", i, st.Product)
			}
		}
	}
	return nil
}

// products converts the catalog section to domain products.
func (sc *Scenario) products() ([]shop.Product, error) {
	out := make([]shop.Product, len(sc.Catalog))
	for i, e := range sc.Catalog {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog[%d]: price: %w", i, err)
		}
		out[i] = shop.Product{
			ID:          e.ID,
			Name:        e.Name,
			Price:       price,
			Description: e.Description,
			Image:       e.Image,
		}
	}
	return out, nil
}

// product resolves a catalog id.
func (sc *Scenario) product(id string) (shop.Product, bool) {
	for _, e := range sc.Catalog {
		if e.ID != id {
			continue
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return shop.Product{}, false
		}
		return shop.Product{
			ID:          e.ID,
			Name:        e.Name,
			Price:       price,
			Description: e.Description,
			Image:       e.Image,
		}, true
	}
	return shop.Product{}, false
}
