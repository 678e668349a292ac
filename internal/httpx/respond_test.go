package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsdist/commerce/internal/commerce"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"unauthorized", commerce.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized. Please log in."},
		{"not found", fmt.Errorf("order abc: %w", commerce.ErrNotFound), http.StatusNotFound, "order abc: not found"},
		{"invalid argument", fmt.Errorf("quantity must be >= 1: %w", commerce.ErrInvalidArgument), http.StatusBadRequest, "quantity must be >= 1: invalid argument"},
		{"internal detail is hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "Server error."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			respondError(rec, req, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantMsg, body.Message)
		})
	}
}

func TestOkMergesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ok(rec, map[string]any{"orderId": "o-1"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "o-1", body["orderId"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
