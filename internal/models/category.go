package models

import (
	"encoding/json"
	"fmt"
)

// Category is one of the five Money Map budget categories. It is a closed
// set: anything else coming out of the classifier is a protocol violation,
// so JSON decoding rejects unknown values instead of carrying them along
// as loose strings.
type Category string

const (
	CategoryIncome   Category = "INCOME"
	CategoryCore     Category = "CORE"
	CategoryChoice   Category = "CHOICE"
	CategoryCompound Category = "COMPOUND"
	CategoryExcluded Category = "EXCLUDED"
)

// AllCategories lists every valid category, in taxonomy order.
var AllCategories = []Category{
	CategoryIncome,
	CategoryCore,
	CategoryChoice,
	CategoryCompound,
	CategoryExcluded,
}

// ParseCategory validates a raw string against the Money Map taxonomy.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryIncome, CategoryCore, CategoryChoice, CategoryCompound, CategoryExcluded:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether the category is part of the taxonomy.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// UnmarshalJSON decodes a category and rejects values outside the taxonomy.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
