package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/telemetry"
)

const internalErrorMessage = "internal server error"

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data any `json:"data"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.Error().Err(err).Int("status", status).Msg("failed to encode response")
		}
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation, domain.ErrCodeUnknownCategory:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type.
// Server-side failures are logged and reported, and their causes never reach
// the client.
func HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)

	var domainErr *domain.DomainError
	isDomain := errors.As(err, &domainErr)

	if status >= http.StatusInternalServerError {
		logging.Ctx(ctx).Error().Err(err).Int("status", status).Msg("request failed")
		telemetry.CaptureError(ctx, err)

		resp := ErrorResponse{Error: internalErrorMessage, Code: domain.ErrCodeInternalError}
		if isDomain && domainErr.Code == domain.ErrCodeUpstreamUnavailable {
			resp = ErrorResponse{Error: domainErr.Message, Code: domainErr.Code}
		}
		JSON(w, status, resp)
		return
	}

	if !isDomain {
		Error(w, status, err.Error())
		return
	}
	if domain.IsClientError(err) {
		logging.Ctx(ctx).Info().
			Str("code", domainErr.Code).
			Strs("fields", domainErr.Fields).
			Msg("request rejected")
	}
	JSON(w, status, ErrorResponse{
		Error:  domainErr.Message,
		Code:   domainErr.Code,
		Fields: domainErr.Fields,
	})
}
