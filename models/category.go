package models

import "strings"

// Category is one of the fixed handloom product categories.
// A product's category is stored by name in the products table.
type Category string

const (
	CategorySarees        Category = "Sarees"
	CategoryBedsheets     Category = "Bedsheets"
	CategoryShawls        Category = "Shawls"
	CategoryDupattas      Category = "Dupattas"
	CategoryKurtas        Category = "Kurtas"
	CategoryTableRunners  Category = "Table Runners"
	CategoryCushionCovers Category = "Cushion Covers"
	CategoryWallHangings  Category = "Wall Hangings"
	CategoryOther         Category = "Other"

	// CategoryAll selects every category when filtering. It is never a
	// valid product category.
	CategoryAll Category = "All"
)

var categories = []Category{
	CategorySarees,
	CategoryBedsheets,
	CategoryShawls,
	CategoryDupattas,
	CategoryKurtas,
	CategoryTableRunners,
	CategoryCushionCovers,
	CategoryWallHangings,
	CategoryOther,
}

// Categories returns the product categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s exactly against the known product categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c can be assigned to a product.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Code returns a URL-friendly slug, e.g. "table-runners".
func (c Category) Code() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}
