package domain

import "strings"

// ServiceCategory represents the kind of event service being recommended
type ServiceCategory string

const (
	CategoryVenue        ServiceCategory = "VENUE"
	CategoryCatering     ServiceCategory = "CATERING"
	CategoryPhotographer ServiceCategory = "PHOTOGRAPHER"
	CategoryDesigner     ServiceCategory = "DESIGNER"
)

// PriceUnit describes what a candidate's price is quoted against
type PriceUnit string

const (
	PriceUnitFlat      PriceUnit = "flat"
	PriceUnitPerPerson PriceUnit = "per_person"
)

// Dimension names one scoring axis.
type Dimension string

const (
	DimensionBudget          Dimension = "budget"
	DimensionLocation        Dimension = "location"
	DimensionCapacity        Dimension = "capacity"
	DimensionPersonalization Dimension = "personalization"
)

// CategorySpec describes how a category is validated and scored.
type CategorySpec struct {
	Category       ServiceCategory
	PriceUnit      PriceUnit
	HasCapacity    bool
	RequiresGuests bool
}

// Dimensions returns the scoring dimensions that apply to the category.
func (s CategorySpec) Dimensions() []Dimension {
	dims := []Dimension{DimensionBudget, DimensionLocation}
	if s.HasCapacity {
		dims = append(dims, DimensionCapacity)
	}
	return append(dims, DimensionPersonalization)
}

var categoryOrder = []ServiceCategory{
	CategoryVenue,
	CategoryCatering,
	CategoryPhotographer,
	CategoryDesigner,
}

var categorySpecs = map[ServiceCategory]CategorySpec{
	CategoryVenue: {
		Category:       CategoryVenue,
		PriceUnit:      PriceUnitFlat,
		HasCapacity:    true,
		RequiresGuests: true,
	},
	CategoryCatering: {
		Category:       CategoryCatering,
		PriceUnit:      PriceUnitPerPerson,
		HasCapacity:    true,
		RequiresGuests: true,
	},
	CategoryPhotographer: {
		Category:  CategoryPhotographer,
		PriceUnit: PriceUnitFlat,
	},
	CategoryDesigner: {
		Category:  CategoryDesigner,
		PriceUnit: PriceUnitFlat,
	},
}

// SpecFor looks up the dispatch entry for a category.
func SpecFor(c ServiceCategory) (CategorySpec, bool) {
	spec, ok := categorySpecs[c]
	return spec, ok
}

// ParseCategory normalises free text into a known category.
func ParseCategory(value string) (ServiceCategory, bool) {
	c := ServiceCategory(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := categorySpecs[c]
	return c, ok
}

// IsValid reports whether c is a known category
func (c ServiceCategory) IsValid() bool {
	_, ok := categorySpecs[c]
	return ok
}

// CategoryNames lists the known categories in a stable order.
func CategoryNames() []string {
	names := make([]string, len(categoryOrder))
	for i, c := range categoryOrder {
		names[i] = string(c)
	}
	return names
}
