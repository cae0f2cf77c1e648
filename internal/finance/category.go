package finance

import (
	"encoding/json"
	"slices"
	"strings"
)

// Category is the spending category shared by costs, expenses and budgets.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryHousing        Category = "housing"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryShopping       Category = "shopping"
	CategoryEducation      Category = "education"
	CategoryTravel         Category = "travel"
	CategoryOther          Category = "other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// Categories returns every category in canonical order.
func Categories() []Category {
	return slices.Clone(categories)
}

// ParseCategory maps s to a known category. Anything unrecognised lands in CategoryOther.
func ParseCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s))).Normalize()
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// Normalize returns c when it is a known category and CategoryOther otherwise.
func (c Category) Normalize() Category {
	if c.Valid() {
		return c
	}

	return CategoryOther
}

// Index is the position of the category in canonical order.
func (c Category) Index() int {
	return slices.Index(categories, c.Normalize())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*c = CategoryOther
		return nil
	}

	*c = ParseCategory(s)

	return nil
}
