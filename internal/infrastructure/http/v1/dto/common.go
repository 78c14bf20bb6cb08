// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"warehub/internal/core/types"
)

// DateLayout is the calendar date format used in query parameters and responses.
const DateLayout = "2006-01-02"

// ErrorResponse mirrors the body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// FormatDate renders t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func num(q types.Quantity) float64 {
	return types.Float64(q)
}
