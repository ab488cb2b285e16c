package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

func requireDomainError(t *testing.T, err error, code string) *domain.DomainError {
	t.Helper()
	var de *domain.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
	return de
}

func TestNormalize_Valid(t *testing.T) {
	req, err := Normalize(map[string]any{
		"budget":      float64(50000),
		"location":    "  Bulan City ",
		"guests":      float64(120),
		"eventType":   "wedding",
		"serviceType": "venue",
		"userId":      "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, &domain.RecommendationRequest{
		Budget:      50000,
		Location:    "Bulan City",
		Guests:      120,
		EventType:   "wedding",
		ServiceType: domain.CategoryVenue,
		UserID:      "user-1",
	}, req)
}

func TestNormalize_CoercesNumericStrings(t *testing.T) {
	req, err := Normalize(map[string]any{
		"budget":      "15000.50",
		"guests":      "80",
		"serviceType": " Catering ",
	})

	require.NoError(t, err)
	assert.Equal(t, 15000.50, req.Budget)
	assert.Equal(t, 80, req.Guests)
	assert.Equal(t, domain.CategoryCatering, req.ServiceType)
}

func TestNormalize_AcceptsJSONNumber(t *testing.T) {
	req, err := Normalize(map[string]any{
		"budget":      json.Number("25000"),
		"serviceType": "PHOTOGRAPHER",
	})

	require.NoError(t, err)
	assert.Equal(t, 25000.0, req.Budget)
}

func TestNormalize_LongLocationIsAccepted(t *testing.T) {
	location := strings.Repeat("Barangay San Isidro, ", 50)

	req, err := Normalize(map[string]any{
		"budget":      1000.0,
		"location":    location,
		"serviceType": "DESIGNER",
	})

	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(location), req.Location)
}

func TestNormalize_GuestsOptionalWithoutCapacity(t *testing.T) {
	for _, st := range []string{"PHOTOGRAPHER", "DESIGNER"} {
		req, err := Normalize(map[string]any{"budget": 1000.0, "serviceType": st})
		require.NoError(t, err, st)
		assert.Zero(t, req.Guests)
		assert.Empty(t, req.Location)
		assert.Empty(t, req.EventType)
	}
}

func TestNormalize_MissingGuestsForVenue(t *testing.T) {
	_, err := Normalize(map[string]any{
		"budget":      50000.0,
		"serviceType": "VENUE",
	})

	de := requireDomainError(t, err, domain.ErrCodeValidation)
	assert.Equal(t, []string{"guests"}, de.Fields)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.True(t, domain.IsClientError(err))
}

func TestNormalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]any
		fields []string
	}{
		{
			name:   "missing budget",
			raw:    map[string]any{"serviceType": "DESIGNER"},
			fields: []string{"budget"},
		},
		{
			name:   "negative budget",
			raw:    map[string]any{"budget": -1.0, "serviceType": "DESIGNER"},
			fields: []string{"budget"},
		},
		{
			name:   "non numeric budget",
			raw:    map[string]any{"budget": "lots", "serviceType": "DESIGNER"},
			fields: []string{"budget"},
		},
		{
			name:   "missing service type",
			raw:    map[string]any{"budget": 100.0},
			fields: []string{"serviceType"},
		},
		{
			name:   "zero guests for catering",
			raw:    map[string]any{"budget": 100.0, "guests": 0.0, "serviceType": "CATERING"},
			fields: []string{"guests"},
		},
		{
			name:   "fractional guests",
			raw:    map[string]any{"budget": 100.0, "guests": 10.5, "serviceType": "VENUE"},
			fields: []string{"guests"},
		},
		{
			name:   "location wrong type",
			raw:    map[string]any{"budget": 100.0, "location": 42.0, "serviceType": "DESIGNER"},
			fields: []string{"location"},
		},
		{
			name:   "several at once",
			raw:    map[string]any{"serviceType": "VENUE", "eventType": []any{"x"}},
			fields: []string{"budget", "guests", "eventType"},
		},
		{
			name:   "unknown category alongside other errors",
			raw:    map[string]any{"serviceType": "DJ"},
			fields: []string{"budget", "serviceType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			de := requireDomainError(t, err, domain.ErrCodeValidation)
			assert.Equal(t, tt.fields, de.Fields)
		})
	}
}

func TestNormalize_UnknownCategory(t *testing.T) {
	_, err := Normalize(map[string]any{"budget": 100.0, "serviceType": "florist"})

	de := requireDomainError(t, err, domain.ErrCodeUnknownCategory)
	assert.Equal(t, []string{"serviceType"}, de.Fields)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "FLORIST")
	assert.True(t, domain.IsClientError(err))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := map[string]any{"budget": "100", "serviceType": "designer", "location": " x "}
	_, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"budget": "100", "serviceType": "designer", "location": " x "}, raw)
}
