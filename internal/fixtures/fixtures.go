// Package fixtures loads product catalogs from CUE files.
//
// Catalogs are data validated against the embedded #Product schema, so a
// malformed price or a missing name is rejected at load time with a file
// position instead of surfacing later as a bad reduction.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/shopspring/decimal"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed catalog.cue
var catalogCUE []byte

// DefaultCatalog returns the embedded demo catalog.
func DefaultCatalog() ([]shop.Product, error) {
	return parseCatalog(catalogCUE, "catalog.cue")
}

// LoadCatalog reads a catalog from a CUE file on disk and validates it
// against the product schema.
func LoadCatalog(path string) ([]shop.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return parseCatalog(data, path)
}

// parseCatalog unifies CUE source with the schema and extracts products.
func parseCatalog(src []byte, filename string) ([]shop.Product, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	merged := schema.Unify(data)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	productsVal := merged.LookupPath(cue.ParsePath("products"))
	if !productsVal.Exists() {
		return nil, &FixtureError{
			Field:   "products",
			Message: "products list is required",
			Pos:     merged.Pos(),
		}
	}

	iter, err := productsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	products := []shop.Product{}
	seen := make(map[string]token.Pos)
	for iter.Next() {
		p, err := parseProduct(iter.Value())
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.ID]; dup {
			return nil, &FixtureError{
				Field:   "products",
				Message: fmt.Sprintf("duplicate product id %q", p.ID),
				Pos:     iter.Value().Pos(),
			}
		}
		seen[p.ID] = iter.Value().Pos()
		products = append(products, p)
	}

	return products, nil
}

// parseProduct extracts one product from its CUE value.
func parseProduct(v cue.Value) (shop.Product, error) {
	var p shop.Product
	var err error

	if p.ID, err = stringField(v, "id"); err != nil {
		return shop.Product{}, err
	}
	if p.Name, err = stringField(v, "name"); err != nil {
		return shop.Product{}, err
	}

	priceStr, err := stringField(v, "price")
	if err != nil {
		return shop.Product{}, err
	}
	// The schema regex already constrains the format; this converts it.
	if p.Price, err = decimal.NewFromString(priceStr); err != nil {
		return shop.Product{}, &FixtureError{
			Field:   "price",
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath("price")).Pos(),
		}
	}

	if p.Description, err = stringField(v, "description"); err != nil {
		return shop.Product{}, err
	}
	if p.Image, err = stringField(v, "image"); err != nil {
		return shop.Product{}, err
	}

	return p, nil
}

// stringField reads a string field, resolving schema defaults.
func stringField(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &FixtureError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// FixtureError represents a fixture validation error with source position.
type FixtureError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *FixtureError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &FixtureError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
