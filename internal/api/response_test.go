package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusOK, map[string]string{"status": "ok"})

	var result SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusRequestEntityTooLarge, "request body too large")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var result ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "request body too large", result.Error)
	assert.Empty(t, result.Code)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", domain.NewValidationError("budget"), http.StatusBadRequest},
		{"unknown category", domain.NewUnknownCategoryError("FLORIST"), http.StatusBadRequest},
		{"missing identity", domain.ErrMissingIdentity, http.StatusUnauthorized},
		{"upstream unavailable", domain.NewUpstreamError("candidates", errors.New("timeout")), http.StatusServiceUnavailable},
		{"wrapped domain error", errors.Join(errors.New("outer"), domain.ErrMissingIdentity), http.StatusUnauthorized},
		{"internal error", domain.NewDomainError(domain.ErrCodeInternalError, "internal"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	ctx := context.Background()

	t.Run("validation error lists fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(ctx, w, domain.NewValidationError("budget", "guests"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var result ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, domain.ErrCodeValidation, result.Code)
		assert.Equal(t, []string{"budget", "guests"}, result.Fields)
		assert.Equal(t, domain.ErrInvalidRequest.Message, result.Error)
	})

	t.Run("upstream error hides the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(ctx, w, domain.NewUpstreamError("candidates", errors.New("dial tcp 10.0.0.5:5432")))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
		var result ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, domain.ErrCodeUpstreamUnavailable, result.Code)
	})

	t.Run("unexpected error is generic", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(ctx, w, errors.New("nil pointer somewhere"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var result ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "internal server error", result.Error)
		assert.Equal(t, domain.ErrCodeInternalError, result.Code)
	})
}

func TestHandleError_LogsClientRejections(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })

	HandleError(context.Background(), httptest.NewRecorder(), domain.NewUnknownCategoryError("FLORIST"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request rejected", entry["message"])
	assert.Equal(t, domain.ErrCodeUnknownCategory, entry["code"])

	buf.Reset()
	HandleError(context.Background(), httptest.NewRecorder(), domain.ErrMissingIdentity)
	assert.Empty(t, buf.String())
}
