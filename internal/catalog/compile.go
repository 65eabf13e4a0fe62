package catalog

import (
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/shopspring/decimal"
)

// schema constrains a catalog file. #Product is closed, so unknown fields
// are rejected.
const schema = `
#Product: {
	id:          string & !=""
	name:        string & !=""
	price:       number & >=0
	category:    string & !=""
	description: *"" | string
	image:       *"" | string
}

products: [...#Product]
`

// Load reads and compiles a CUE catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	ctx := cuecontext.New()
	return Compile(ctx.CompileBytes(data, cue.Filename(path)))
}

// Compile parses a CUE value into a Catalog.
//
// The value should hold a products list and optionally a categories list:
//
//	products: [{id: "1", name: "Mug", price: 9.50, category: "Kitchen"}]
//	categories: ["Kitchen"]
//
// When categories is present every product category must be listed in it.
func Compile(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	src := v
	s := v.Context().CompileString(schema, cue.Filename("catalog-schema.cue"))
	if err := s.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v = s.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	productsVal := v.LookupPath(cue.ParsePath("products"))
	if !productsVal.Exists() {
		return nil, &CompileError{
			Field:   "products",
			Message: "products is required",
			Pos:     v.Pos(),
		}
	}

	categories, err := parseCategories(v)
	if err != nil {
		return nil, err
	}

	iter, err := productsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var products []Product
	seen := make(map[string]bool)
	for i := 0; iter.Next(); i++ {
		pv := iter.Value()
		p, err := parseProduct(pv)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, &CompileError{
				Field:   fmt.Sprintf("products[%d].id", i),
				Message: fmt.Sprintf("duplicate product id %q", p.ID),
				Pos:     sourcePos(src, fmt.Sprintf("products[%d].id", i)),
			}
		}
		seen[p.ID] = true
		if categories != nil && !slices.Contains(categories, p.Category) {
			return nil, &CompileError{
				Field:   fmt.Sprintf("products[%d].category", i),
				Message: fmt.Sprintf("category %q is not declared in categories", p.Category),
				Pos:     sourcePos(src, fmt.Sprintf("products[%d].category", i)),
			}
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, &CompileError{
			Field:   "products",
			Message: "at least one product is required",
			Pos:     productsVal.Pos(),
		}
	}

	return New(products)
}

// sourcePos returns the position of path in the user's file rather than in
// the schema it was unified with.
func sourcePos(src cue.Value, path string) token.Pos {
	return src.LookupPath(cue.ParsePath(path)).Pos()
}

func parseCategories(v cue.Value) ([]string, error) {
	catVal := v.LookupPath(cue.ParsePath("categories"))
	if !catVal.Exists() {
		return nil, nil
	}

	var categories []string
	if err := catVal.Decode(&categories); err != nil {
		return nil, formatCUEError(err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func parseProduct(v cue.Value) (Product, error) {
	var p Product
	var err error

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"id", &p.ID},
		{"name", &p.Name},
		{"category", &p.Category},
		{"description", &p.Description},
		{"image", &p.Image},
	} {
		*f.dst, err = v.LookupPath(cue.ParsePath(f.name)).String()
		if err != nil {
			return p, formatCUEError(err)
		}
	}

	priceVal := v.LookupPath(cue.ParsePath("price"))
	p.Price, err = parsePrice(priceVal)
	if err != nil {
		return p, err
	}

	return p, nil
}

// parsePrice reads a CUE number as an exact decimal. CUE keeps number
// literals as arbitrary-precision decimals, so the JSON form is exact.
func parsePrice(v cue.Value) (decimal.Decimal, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return decimal.Decimal{}, formatCUEError(err)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Decimal{}, &CompileError{
			Field:   "price",
			Message: fmt.Sprintf("invalid price %s: %v", raw, err),
			Pos:     v.Pos(),
		}
	}
	return d, nil
}

// CompileError represents a catalog compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
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

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
