package roster

import (
	"fmt"
	"strings"
)

// Category groups members for the daily summary.
type Category string

const (
	CategoryUniversity Category = "university"
	CategoryHighSchool Category = "high_school"
	CategoryStaff      Category = "staff"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryUniversity, CategoryHighSchool, CategoryStaff}

var categoryAliases = map[string]Category{
	"university":   CategoryUniversity,
	"universidad":  CategoryUniversity,
	"high_school":  CategoryHighSchool,
	"high school":  CategoryHighSchool,
	"highschool":   CategoryHighSchool,
	"preparatoria": CategoryHighSchool,
	"staff":        CategoryStaff,
	"colaborador":  CategoryStaff,
}

// ParseCategory maps a roster label (English or the Spanish labels used by
// the front-desk spreadsheets) to a Category.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) String() string { return string(c) }

// Member is a single roster entry. Members are never mutated after load.
type Member struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}
