package filter

import (
	"github.com/Lixing-Zhang/food-finder/internal/catalog"
)

// Category is a meal-category selection. Values are case-folded labels.
type Category string

const (
	All       Category = "all"
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
)

// DefaultCategories are the category buttons the catalog ships with
var DefaultCategories = []Category{Breakfast, Lunch, Dinner}

// ParseCategory normalizes user input into a Category. The empty string
// selects All. The result is not checked against any known set; the
// engine does that when the category is applied.
func ParseCategory(s string) Category {
	if s == "" {
		return All
	}
	return Category(catalog.Fold(s))
}

// Label returns the display name of the category, e.g. "Breakfast"
func (c Category) Label() string {
	return catalog.Title(string(c))
}

// String implements fmt.Stringer
func (c Category) String() string {
	return string(c)
}
