package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptional(t *testing.T) {
	v, err := ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseOptional("6f1c2a52-55b8-4f5e-9d0e-7a4f6a0d1b11")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, MustParse("6f1c2a52-55b8-4f5e-9d0e-7a4f6a0d1b11"), *v)

	_, err = ParseOptional("not-a-uuid")
	assert.Error(t, err)
}

func TestLess(t *testing.T) {
	a := MustParse("00000000-0000-0000-0000-000000000001")
	b := MustParse("00000000-0000-0000-0000-000000000002")
	assert.True(t, Less(a, b))
	assert.False(t, Less(b, a))
	assert.False(t, Less(a, a))
	assert.True(t, IsNil(Nil()))
}
