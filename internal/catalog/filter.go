// Package catalog implements the filtering rules of the parts catalog.
// Filtering is pure and order-preserving: products come back in the same
// order they were seeded, and an unmatched filter set yields an empty
// slice, never an error.
package catalog

import (
	"slices"

	"autopart/models"
)

const (
	// WildcardMake in a product's make list matches every manufacturer
	// and every year.
	WildcardMake = "Any"
	// WildcardSeries in a product's series list matches every trim.
	WildcardSeries = "Standard"
	// MaxPriceCeiling is the top of the price slider; a criteria at the
	// ceiling means the price dimension is unconstrained.
	MaxPriceCeiling = 1000
)

// NewFilterCriteria returns criteria with every dimension unconstrained.
func NewFilterCriteria() models.FilterCriteria {
	return models.FilterCriteria{MaxPrice: MaxPriceCeiling}
}

// ApplyFilters returns the products retained by the criteria. Dimension
// tests are ANDed; a default-valued dimension retains everything.
func ApplyFilters(products []models.Product, c models.FilterCriteria) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p models.Product, c models.FilterCriteria) bool {
	if c.Manufacturer != "" &&
		!slices.Contains(p.Compatibility.Makes, c.Manufacturer) &&
		!slices.Contains(p.Compatibility.Makes, WildcardMake) {
		return false
	}
	if c.Series != "" && p.Compatibility.Series != nil &&
		!slices.Contains(p.Compatibility.Series, c.Series) &&
		!slices.Contains(p.Compatibility.Series, WildcardSeries) {
		return false
	}
	if c.Model != "" &&
		!slices.Contains(p.Compatibility.Models, c.Model) &&
		!slices.Contains(p.Compatibility.Models, WildcardMake) {
		return false
	}
	// A wildcard make implies the part fits regardless of model year.
	if c.Year != 0 &&
		!slices.Contains(p.Compatibility.Years, c.Year) &&
		!slices.Contains(p.Compatibility.Makes, WildcardMake) {
		return false
	}
	if len(c.Performance) > 0 && !slices.Contains(c.Performance, string(p.PerformanceLevel)) {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, p.Category) {
		return false
	}
	if c.MaxPrice < MaxPriceCeiling && p.Price > float64(c.MaxPrice) {
		return false
	}
	return true
}

// ApplySearchIntent folds a parsed search query into existing criteria.
// Facets the query did not mention keep their current values, so a partial
// parse narrows filters without clearing them.
func ApplySearchIntent(c models.FilterCriteria, intent models.SearchIntent) models.FilterCriteria {
	if intent.Make != "" {
		c.Manufacturer = intent.Make
	}
	if intent.Model != "" {
		c.Model = intent.Model
	}
	if intent.Year != 0 {
		c.Year = intent.Year
	}
	if intent.PartType != "" {
		c.Categories = []string{intent.PartType}
	}
	return c
}
