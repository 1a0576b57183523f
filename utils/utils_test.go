package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusInternalServerError, errors.New("connection refused"), "Error fetching items")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error fetching items", body["message"])
	assert.Equal(t, "connection refused", body["error"])
	assert.NotEmpty(t, body["errorId"])
}

func TestRespondError_hidesDetailsWhenAsked(t *testing.T) {
	HideErrorDetails(true)
	defer HideErrorDetails(false)

	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusInternalServerError, errors.New("pq: password authentication failed"), "Error fetching items")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, present := body["error"]
	assert.False(t, present)
}

func TestParsePositiveInt(t *testing.T) {
	got, err := ParsePositiveInt("", 20, "limit")
	require.NoError(t, err)
	assert.Equal(t, 20, got)

	got, err = ParsePositiveInt(" 3 ", 1, "page")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	for _, raw := range []string{"0", "-2", "two", "1.5"} {
		_, err := ParsePositiveInt(raw, 1, "page")
		assert.True(t, models.IsValidationError(err), "raw=%q", raw)
	}
}

func TestParsePrice(t *testing.T) {
	got, err := ParsePrice("", "minPrice")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	got, err = ParsePrice("1500.50", "minPrice")
	require.NoError(t, err)
	assert.Equal(t, 1500.5, got.Float64)

	for _, raw := range []string{"-1", "cheap", "NaN", "Inf"} {
		_, err := ParsePrice(raw, "maxPrice")
		assert.True(t, models.IsValidationError(err), "raw=%q", raw)
	}
}
