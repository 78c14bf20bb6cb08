package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity(" 12.50 ")
	require.NoError(t, err)
	assert.True(t, q.Equal(MustQuantity("12.5")))

	_, err = ParseQuantity("twelve")
	assert.Error(t, err)
}

func TestDivideAndInvert(t *testing.T) {
	assert.True(t, Divide(MustQuantity("10"), MustQuantity("4")).Equal(MustQuantity("2.5")))
	assert.True(t, Invert(MustQuantity("0.5")).Equal(MustQuantity("2")))

	third := Invert(MustQuantity("3"))
	assert.True(t, ApproxEqual(third.Mul(MustQuantity("3")), One(), MustQuantity("0.000000000001")))
}

func TestFloat64(t *testing.T) {
	assert.Equal(t, 120.25, Float64(MustQuantity("120.25")))
	assert.Equal(t, 0.0, Float64(Zero()))
	assert.True(t, NewQuantityFromInt(3).Equal(NewQuantity(3)))
}

func TestMultiply_RoundsInvertedRates(t *testing.T) {
	third := Invert(MustQuantity("3"))
	assert.True(t, Multiply(MustQuantity("30"), third).Equal(MustQuantity("10")))
	assert.True(t, Multiply(MustQuantity("2.5"), MustQuantity("4")).Equal(MustQuantity("10")))
}
