package service

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/validation"
)

// Request field names as they appear on the wire.
const (
	FieldBudget      = "budget"
	FieldLocation    = "location"
	FieldGuests      = "guests"
	FieldEventType   = "eventType"
	FieldServiceType = "serviceType"
	FieldUserID      = "userId"
)

var errNotANumber = errors.New("not a number")

type fieldErrors struct {
	fields []string
}

func (f *fieldErrors) add(names ...string) {
	for _, name := range names {
		found := false
		for _, existing := range f.fields {
			if existing == name {
				found = true
				break
			}
		}
		if !found {
			f.fields = append(f.fields, name)
		}
	}
}

func (f *fieldErrors) empty() bool {
	return len(f.fields) == 0
}

// Normalize validates and coerces a raw request into canonical form. Every
// offending field is reported at once. A service type outside the known
// categories yields an UNKNOWN_CATEGORY error when it is the only problem.
func Normalize(raw map[string]any) (*domain.RecommendationRequest, error) {
	var errs fieldErrors
	req := &domain.RecommendationRequest{}

	budget, err := coerceFloat(raw[FieldBudget])
	if err != nil {
		errs.add(FieldBudget)
	}
	req.Budget = budget

	guests, err := coerceInt(raw[FieldGuests])
	if err != nil {
		errs.add(FieldGuests)
	}
	req.Guests = guests

	for field, dst := range map[string]*string{
		FieldLocation:  &req.Location,
		FieldEventType: &req.EventType,
		FieldUserID:    &req.UserID,
	} {
		s, ok := coerceString(raw[field])
		if !ok {
			errs.add(field)
		}
		*dst = s
	}

	rawType, ok := coerceString(raw[FieldServiceType])
	if !ok {
		errs.add(FieldServiceType)
	}
	category, known := domain.ParseCategory(rawType)
	req.ServiceType = category
	unknownCategory := rawType != "" && !known

	if err := validation.ValidateStruct(req); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			errs.add(verrs.Fields()...)
		} else {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "request validation failed", err)
		}
	}

	if spec, ok := domain.SpecFor(category); ok && spec.RequiresGuests && req.Guests <= 0 {
		errs.add(FieldGuests)
	}

	if unknownCategory {
		if errs.empty() {
			return nil, domain.NewUnknownCategoryError(string(category))
		}
		errs.add(FieldServiceType)
	}

	if !errs.empty() {
		return nil, domain.NewValidationError(orderFields(errs.fields)...)
	}

	return req, nil
}

var fieldOrder = []string{FieldBudget, FieldLocation, FieldGuests, FieldEventType, FieldServiceType, FieldUserID}

// orderFields sorts offending fields into request order for stable messages.
func orderFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, name := range fieldOrder {
		for _, f := range fields {
			if f == name {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// coerceFloat accepts JSON numbers and numeric strings. Absent values become zero.
func coerceFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, errNotANumber
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotANumber
	}
	return f, nil
}

// coerceInt is coerceFloat restricted to whole numbers.
func coerceInt(v any) (int, error) {
	f, err := coerceFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errNotANumber
	}
	return int(f), nil
}

func coerceString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(s), true
	default:
		return "", false
	}
}
