// Package alphabet provides the 26-letter alphabet used by the cipher machine
// and the modular offset arithmetic every other component routes through.
package alphabet

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is the number of letters in the alphabet.
const Size = 26

// ErrInvalidLetter indicates a rune outside 'A'..'Z'.
var ErrInvalidLetter = errors.New("alphabet: invalid letter")

// Letter is one of the 26 uppercase Latin letters, stored as its index (A=0).
type Letter uint8

// Letter constants for the ends of the alphabet.
const (
	A Letter = 0
	Z Letter = Size - 1
)

// FromRune converts 'A'..'Z' into a Letter.
func FromRune(r rune) (Letter, error) {
	if r < 'A' || r > 'Z' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, r)
	}
	return Letter(r - 'A'), nil
}

// MustRune is like FromRune but panics on invalid input.
// Intended for package-level tables and tests.
func MustRune(r rune) Letter {
	l, err := FromRune(r)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLetters converts a string of uppercase letters into Letters.
func ParseLetters(s string) ([]Letter, error) {
	out := make([]Letter, 0, len(s))
	for _, r := range s {
		l, err := FromRune(r)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Letters returns A through Z in order.
func Letters() []Letter {
	out := make([]Letter, Size)
	for i := range out {
		out[i] = Letter(i)
	}
	return out
}

// Shift moves l by delta places around the alphabet. Any integer delta is
// accepted, including negative values and values beyond ±26.
func Shift(l Letter, delta int) Letter {
	n := (int(l) + delta) % Size
	if n < 0 {
		n += Size
	}
	return Letter(n)
}

// Index returns the zero-based position of l.
func (l Letter) Index() int { return int(l) }

// Valid reports whether l is within A..Z.
func (l Letter) Valid() bool { return l < Size }

// Rune returns the uppercase rune for l.
func (l Letter) Rune() rune { return rune('A' + l) }

// String returns l as a one-letter string.
func (l Letter) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Letter(%d)", uint8(l))
	}
	return string(l.Rune())
}

// MarshalText implements encoding.TextMarshaler.
func (l Letter) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidLetter, uint8(l))
	}
	return []byte{byte('A' + l)}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Surrounding whitespace
// is ignored; anything other than a single uppercase letter is rejected.
func (l *Letter) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if len(s) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	v, err := FromRune(rune(s[0]))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Letter) MarshalYAML() (any, error) {
	text, err := l.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Letter) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected scalar at line %d", ErrInvalidLetter, node.Line)
	}
	return l.UnmarshalText([]byte(node.Value))
}

// Join renders letters as a contiguous string, e.g. "AAF".
func Join(letters []Letter) string {
	var b strings.Builder
	b.Grow(len(letters))
	for _, l := range letters {
		b.WriteRune(l.Rune())
	}
	return b.String()
}
