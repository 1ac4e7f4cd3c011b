// Package reflector implements the fixed wheel that turns the signal back
// through the rotor stack.
package reflector

import (
	"errors"
	"fmt"

	"enigma/internal/alphabet"
)

var (
	// ErrNotInvolution indicates wiring where reflecting twice is not the identity.
	ErrNotInvolution = errors.New("reflector: wiring is not an involution")

	// ErrFixedPoint indicates wiring that maps some letter to itself.
	ErrFixedPoint = errors.New("reflector: wiring maps a letter to itself")

	// ErrUnknownModel indicates a catalog lookup for a name that does not exist.
	ErrUnknownModel = errors.New("reflector: unknown model")
)

// Reflector is a stateless involutive substitution with no fixed points.
type Reflector struct {
	name   string
	wiring alphabet.Permutation
}

// New validates wiring and returns a reflector. The wiring must pair every
// letter with a different letter.
func New(name string, wiring alphabet.Permutation) (*Reflector, error) {
	if !wiring.IsInvolution() {
		return nil, fmt.Errorf("%w: %s", ErrNotInvolution, name)
	}
	if fixed := wiring.FixedPoints(); len(fixed) > 0 {
		return nil, fmt.Errorf("%w: %s maps %s", ErrFixedPoint, name, alphabet.Join(fixed))
	}
	return &Reflector{name: name, wiring: wiring}, nil
}

// Parse builds a reflector from a 26-character ordering string.
func Parse(name, ordering string) (*Reflector, error) {
	wiring, err := alphabet.ParsePermutation(ordering)
	if err != nil {
		return nil, fmt.Errorf("reflector %s: %w", name, err)
	}
	return New(name, wiring)
}

// Reflect returns the letter l is wired to.
func (r *Reflector) Reflect(l alphabet.Letter) alphabet.Letter {
	return r.wiring[l]
}

// Name returns the model name.
func (r *Reflector) Name() string { return r.name }

// Wiring returns a copy of the wiring table.
func (r *Reflector) Wiring() alphabet.Permutation { return r.wiring }
