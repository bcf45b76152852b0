// Package mapview owns the state behind one map exploration view: which
// category overlays are active, which property is selected, and the overlay
// data fetched for that property.
package mapview

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Category identifies one of the five informational map overlays.
type Category string

const (
	Noise         Category = "noise"
	Environment   Category = "environment"
	Safety        Category = "safety"
	Accessibility Category = "accessibility"
	Convenience   Category = "convenience"
)

// categoryNumbers is the one numeric mapping shared with the backend's
// preference order. Index i holds category number i+1.
var categoryNumbers = [...]Category{Noise, Environment, Safety, Accessibility, Convenience}

// Categories returns every category in canonical order.
func Categories() []Category {
	out := make([]Category, len(categoryNumbers))
	copy(out, categoryNumbers[:])
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Number() != 0
}

// Number returns the backend numeric id, or 0 for unknown categories.
func (c Category) Number() int {
	for i, known := range categoryNumbers {
		if known == c {
			return i + 1
		}
	}
	return 0
}

func (c Category) String() string { return string(c) }

// LabelKey is the message catalog key of the category's display name.
func (c Category) LabelKey() string { return "category." + string(c) }

// CategoryFromNumber maps a backend numeric id to its category.
func CategoryFromNumber(n int) (Category, bool) {
	if n < 1 || n > len(categoryNumbers) {
		return "", false
	}
	return categoryNumbers[n-1], true
}

// ParseCategory accepts either a category name or its numeric id.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		return CategoryFromNumber(n)
	}
	c := Category(raw)
	return c, c.Valid()
}

// CategoriesFromNumbers converts a backend preference order, dropping
// unknown ids and repeats.
func CategoriesFromNumbers(numbers []int) []Category {
	out := make([]Category, 0, len(numbers))
	for _, n := range numbers {
		if c, ok := CategoryFromNumber(n); ok {
			out = append(out, c)
		}
	}
	return lo.Uniq(out)
}

// Numbers converts categories to backend numeric ids.
func Numbers(categories []Category) []int {
	return lo.FilterMap(categories, func(c Category, _ int) (int, bool) {
		n := c.Number()
		return n, n != 0
	})
}

// Normalize drops unknown categories and repeats, keeping first occurrences.
func Normalize(categories []Category) []Category {
	return lo.Uniq(lo.Filter(categories, func(c Category, _ int) bool { return c.Valid() }))
}

// OrderWith returns the normalized leading categories followed by the rest in
// canonical order. The result always holds all five categories once.
func OrderWith(leading []Category) []Category {
	head := Normalize(leading)
	rest := lo.Filter(categoryNumbers[:], func(c Category, _ int) bool {
		return !lo.Contains(head, c)
	})
	return append(head, rest...)
}
