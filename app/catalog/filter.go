package catalog

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/weavelink/weavelink/models"
)

// Filter narrows an already fetched product list. Both predicates must hold.
type Filter struct {
	// Query matches name or description, ignoring case. Empty matches all.
	Query string
	// Category matches exactly. Empty or models.CategoryAll matches all.
	Category models.Category
}

// ParseFilter reads "q" and "category" from query parameters.
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{Query: values.Get("q"), Category: models.CategoryAll}
	raw := values.Get("category")
	if raw == "" || raw == string(models.CategoryAll) {
		return f, nil
	}
	c, ok := models.ParseCategory(raw)
	if !ok {
		return Filter{}, models.NewValidationError("category", "is not a known category")
	}
	f.Category = c
	return f, nil
}

// Active reports whether the filter can hide any product.
func (f Filter) Active() bool {
	return f.Query != "" || !f.allCategories()
}

// Apply returns the matching products in their original order. The input is
// not modified.
func (f Filter) Apply(products []models.Product) []models.Product {
	fold := cases.Fold()
	needle := fold.String(f.Query)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !f.allCategories() && p.Category != f.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(p.Name), needle) &&
			!strings.Contains(fold.String(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f Filter) allCategories() bool {
	return f.Category == "" || f.Category == models.CategoryAll
}
