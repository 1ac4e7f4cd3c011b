package alphabet

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidPermutation indicates an ordering string that is not exactly the
// 26 letters, each used once.
var ErrInvalidPermutation = errors.New("alphabet: invalid permutation")

// Permutation is a total bijection over the alphabet. Entry i holds the
// letter that Letter(i) maps to.
type Permutation [Size]Letter

// Identity returns the permutation that maps every letter to itself.
func Identity() Permutation {
	var p Permutation
	for i := range p {
		p[i] = Letter(i)
	}
	return p
}

// ParsePermutation builds a permutation from a 26-character ordering string:
// the i-th character is the image of the i-th letter, so "EKMF..." maps A→E,
// B→K, C→M and so on.
func ParsePermutation(ordering string) (Permutation, error) {
	var p Permutation
	if n := utf8.RuneCountInString(ordering); n != Size {
		return p, fmt.Errorf("%w: expected %d letters, got %d", ErrInvalidPermutation, Size, n)
	}

	var seen [Size]bool
	i := 0
	for _, r := range ordering {
		l, err := FromRune(r)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidPermutation, err)
		}
		if seen[l] {
			return p, fmt.Errorf("%w: %s used more than once", ErrInvalidPermutation, l)
		}
		seen[l] = true
		p[i] = l
		i++
	}
	return p, nil
}

// MustPermutation is like ParsePermutation but panics on error.
func MustPermutation(ordering string) Permutation {
	p, err := ParsePermutation(ordering)
	if err != nil {
		panic(err)
	}
	return p
}

// Apply returns the image of l.
func (p Permutation) Apply(l Letter) Letter { return p[l] }

// Inverse returns the permutation q with q[p[x]] == x for all x.
func (p Permutation) Inverse() Permutation {
	var q Permutation
	for i, l := range p {
		q[l] = Letter(i)
	}
	return q
}

// IsInvolution reports whether applying p twice is the identity.
func (p Permutation) IsInvolution() bool {
	for i, l := range p {
		if p[l] != Letter(i) {
			return false
		}
	}
	return true
}

// FixedPoints returns every letter that p maps to itself.
func (p Permutation) FixedPoints() []Letter {
	var out []Letter
	for i, l := range p {
		if l == Letter(i) {
			out = append(out, l)
		}
	}
	return out
}

// String returns the ordering string form of p.
func (p Permutation) String() string {
	return Join(p[:])
}
