package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabase("inbound_order_items", cause)

	assert.Equal(t, CodeDatabase, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Equal(t, "inbound_order_items", err.Details["source"])
	assert.ErrorIs(t, err, cause)
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("ledger report: %w", NewValidation("dateTo is required"))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(wrapped))
	assert.True(t, HasCode(wrapped, CodeValidation))
	assert.False(t, HasCode(wrapped, CodeDatabase))
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, IsAppError(errors.New("boom")))
}

func TestWithDetail_InitialisesMap(t *testing.T) {
	err := (&AppError{Code: CodeInvalidInput}).WithDetail("field", "dateFrom")
	assert.Equal(t, "dateFrom", err.Details["field"])
	assert.Contains(t, err.Error(), CodeInvalidInput)
}
