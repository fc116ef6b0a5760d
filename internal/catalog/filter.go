package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter narrows a product list by optional predicates combined with AND.
// Zero-value fields are no-ops.
type Filter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
}

// FilterFromQuery parses the list query parameters. Unparseable price bounds
// are treated as absent; inStock parses the literal "true" as true and any
// other value as false.
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}

	if v := q.Get("minPrice"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &n
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &n
		}
	}
	if v := q.Get("inStock"); v != "" {
		b := v == "true"
		f.InStock = &b
	}

	return f
}

// Apply returns the products matching every set predicate, preserving order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filter) matches(p Product) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}
