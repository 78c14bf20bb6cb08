package context

import (
	"context"
)

// systemCodeKey is the context key for the tenant system code
// (e.g. "FROZEN"). Every source query is scoped by it.
type systemCodeKey struct{}

// WithSystemCode stores the system code in context.
func WithSystemCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, systemCodeKey{}, code)
}

// GetSystemCode returns the system code from context or empty string.
func GetSystemCode(ctx context.Context) string {
	if v, ok := ctx.Value(systemCodeKey{}).(string); ok {
		return v
	}
	return ""
}
