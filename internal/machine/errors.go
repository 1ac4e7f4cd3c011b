package machine

import (
	"errors"
	"fmt"
	"unicode"
)

// Key-press rejection reasons.
var (
	// ErrNonASCII indicates a character outside 7-bit ASCII.
	ErrNonASCII = errors.New("machine: non-ASCII character")

	// ErrNonAlphabetic indicates an ASCII character that is not a letter.
	ErrNonAlphabetic = errors.New("machine: non-alphabetic character")

	// ErrNonUppercase indicates a lowercase letter.
	ErrNonUppercase = errors.New("machine: non-uppercase character")

	// ErrMissingComponent indicates a machine assembled without a rotor or reflector.
	ErrMissingComponent = errors.New("machine: missing component")
)

// CharacterError reports a rejected key press. Kind is one of ErrNonASCII,
// ErrNonAlphabetic or ErrNonUppercase, and errors.Is matches it.
type CharacterError struct {
	Char rune
	Kind error
}

func (e *CharacterError) Error() string {
	var what string
	switch e.Kind {
	case ErrNonASCII:
		what = "ASCII"
	case ErrNonAlphabetic:
		what = "alphabetic"
	default:
		what = "uppercase"
	}
	return fmt.Sprintf("'%c' is not an %s character", e.Char, what)
}

// Is matches the rejection reason.
func (e *CharacterError) Is(target error) bool { return target == e.Kind }

// Unwrap returns the rejection reason.
func (e *CharacterError) Unwrap() error { return e.Kind }

// InputError locates a rejected character within a longer input.
type InputError struct {
	Offset int
	Err    *CharacterError
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input offset %d: %v", e.Offset, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// checkInput classifies r, returning nil for 'A'..'Z'.
func checkInput(r rune) error {
	switch {
	case r > unicode.MaxASCII:
		return &CharacterError{Char: r, Kind: ErrNonASCII}
	case !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z'):
		return &CharacterError{Char: r, Kind: ErrNonAlphabetic}
	case r >= 'a' && r <= 'z':
		return &CharacterError{Char: r, Kind: ErrNonUppercase}
	}
	return nil
}
