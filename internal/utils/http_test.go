package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := SuccessResponse(c, http.StatusCreated, "Payment initiated", map[string]string{"status": "Pending"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "Payment initiated", response.Message)
}

func TestAppErrorResponse(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "validation error",
			err:          apperror.Validation("Initiate.InvalidRequest", "amount must be greater than zero"),
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Initiate.InvalidRequest",
		},
		{
			name:         "failure carries provider details",
			err:          apperror.Failure("Initiate.CustomerError", "Insufficient funds").WithProvider("2001", "Insufficient funds on account"),
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  "Initiate.CustomerError",
		},
		{
			name:         "untyped error is hidden",
			err:          errors.New("pq: connection reset"),
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, AppErrorResponse(c, tt.err))

			assert.Equal(t, tt.expectedCode, rec.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.expectedErr, response.Error)
		})
	}
}
