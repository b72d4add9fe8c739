package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange_Bare(t *testing.T) {
	r, err := ParseRange("1.5.0")
	require.NoError(t, err)
	assert.True(t, r.Matches("1.5.0"))
	assert.False(t, r.Matches("1.5.1"))
}

func TestParseRange_Inclusive(t *testing.T) {
	r, err := ParseRange("[1.0,2.0]")
	require.NoError(t, err)
	assert.True(t, r.Matches("1.0"))
	assert.True(t, r.Matches("2.0"))
	assert.True(t, r.Matches("1.5"))
	assert.False(t, r.Matches("2.1"))
}

func TestParseRange_Exclusive(t *testing.T) {
	r, err := ParseRange("(1.0,2.0)")
	require.NoError(t, err)
	assert.False(t, r.Matches("1.0"))
	assert.False(t, r.Matches("2.0"))
	assert.True(t, r.Matches("1.5"))
}

func TestParseRange_UnboundedLowerBound(t *testing.T) {
	r, err := ParseRange("(,2.0]")
	require.NoError(t, err)
	assert.True(t, r.Matches("0.1"))
	assert.True(t, r.Matches("2.0"))
	assert.False(t, r.Matches("2.1"))
}

func TestParseRange_Invalid(t *testing.T) {
	_, err := ParseRange("")
	assert.Error(t, err)
}
