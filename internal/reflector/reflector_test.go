package reflector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enigma/internal/alphabet"
)

func TestCatalogReflectorsAreValid(t *testing.T) {
	require.Equal(t, []string{"A", "B", "C"}, Models())

	for _, name := range Models() {
		t.Run(name, func(t *testing.T) {
			r, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, r.Name())

			for _, x := range alphabet.Letters() {
				y := r.Reflect(x)
				assert.NotEqual(t, x, y, "%s reflects %s to itself", name, x)
				assert.Equal(t, x, r.Reflect(y))
			}
		})
	}
}

func TestReflectB(t *testing.T) {
	r, err := Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, 'Y', r.Reflect(alphabet.MustRune('A')).Rune())
	assert.Equal(t, 'A', r.Reflect(alphabet.MustRune('Y')).Rune())
	assert.Equal(t, "YRUHQSLDPXNGOKMIEBFZCWVJAT", r.Wiring().String())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("D")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestNewRejectsInvalidWiring(t *testing.T) {
	// A rotor wiring is a permutation but not an involution.
	_, err := Parse("bad", "EKMFLGDQVZNTOWYHXUSPAIBRCJ")
	assert.ErrorIs(t, err, ErrNotInvolution)

	// Swapping A/B and leaving the rest alone is an involution with fixed points.
	_, err = Parse("fixed", "BACDEFGHIJKLMNOPQRSTUVWXYZ")
	assert.ErrorIs(t, err, ErrFixedPoint)

	_, err = Parse("short", "ABC")
	assert.ErrorIs(t, err, alphabet.ErrInvalidPermutation)
}
