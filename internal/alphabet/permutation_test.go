package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermutation(t *testing.T) {
	p, err := ParsePermutation("EKMFLGDQVZNTOWYHXUSPAIBRCJ")
	require.NoError(t, err)
	assert.Equal(t, 'E', p.Apply(A).Rune())
	assert.Equal(t, 'J', p.Apply(Z).Rune())
	assert.Equal(t, "EKMFLGDQVZNTOWYHXUSPAIBRCJ", p.String())

	inv := p.Inverse()
	for _, x := range Letters() {
		assert.Equal(t, x, inv.Apply(p.Apply(x)))
	}
}

func TestParsePermutationErrors(t *testing.T) {
	tests := []struct {
		name     string
		ordering string
	}{
		{"empty", ""},
		{"too short", "ABCDEFGHIJKLM"},
		{"too long", "ABCDEFGHIJKLMNOPQRSTUVWXYZZ"},
		{"duplicate", "ABCDEFGHIJKLMNOPQRSTUVWXYY"},
		{"lowercase", "abcdefghijklmnopqrstuvwxyz"},
		{"non ascii", "ÉBCDEFGHIJKLMNOPQRSTUVWXYZ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePermutation(tc.ordering)
			assert.ErrorIs(t, err, ErrInvalidPermutation)
		})
	}
}

func TestInvolutionAndFixedPoints(t *testing.T) {
	reflectorB := MustPermutation("YRUHQSLDPXNGOKMIEBFZCWVJAT")
	assert.True(t, reflectorB.IsInvolution())
	assert.Empty(t, reflectorB.FixedPoints())

	id := Identity()
	assert.True(t, id.IsInvolution())
	assert.Len(t, id.FixedPoints(), Size)

	rotorI := MustPermutation("EKMFLGDQVZNTOWYHXUSPAIBRCJ")
	assert.False(t, rotorI.IsInvolution())
}

func TestMustPermutationPanics(t *testing.T) {
	assert.Panics(t, func() { MustPermutation("ABC") })
}
