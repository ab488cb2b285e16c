package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  ServiceCategory
		ok    bool
	}{
		{"VENUE", CategoryVenue, true},
		{" catering ", CategoryCatering, true},
		{"Photographer", CategoryPhotographer, true},
		{"designer", CategoryDesigner, true},
		{"florist", ServiceCategory("FLORIST"), false},
		{"", ServiceCategory(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCategorySpec_Dimensions(t *testing.T) {
	venue, ok := SpecFor(CategoryVenue)
	assert.True(t, ok)
	assert.Equal(t, []Dimension{DimensionBudget, DimensionLocation, DimensionCapacity, DimensionPersonalization}, venue.Dimensions())
	assert.True(t, venue.RequiresGuests)

	catering, _ := SpecFor(CategoryCatering)
	assert.Equal(t, PriceUnitPerPerson, catering.PriceUnit)

	photo, _ := SpecFor(CategoryPhotographer)
	assert.Equal(t, []Dimension{DimensionBudget, DimensionLocation, DimensionPersonalization}, photo.Dimensions())
	assert.False(t, photo.RequiresGuests)

	_, ok = SpecFor(ServiceCategory("FLORIST"))
	assert.False(t, ok)
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, []string{"VENUE", "CATERING", "PHOTOGRAPHER", "DESIGNER"}, CategoryNames())
	for _, name := range CategoryNames() {
		assert.True(t, ServiceCategory(name).IsValid())
	}
}
