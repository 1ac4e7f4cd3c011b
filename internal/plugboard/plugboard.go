// Package plugboard implements the optional letter-swapping board that sits
// in front of the rotor stack. A board is immutable once built.
package plugboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"enigma/internal/alphabet"
)

// MaxPairs is the number of cables that fit a full board.
const MaxPairs = alphabet.Size / 2

var (
	// ErrDuplicateWiring indicates a letter wired to more than one partner.
	ErrDuplicateWiring = errors.New("plugboard: letter already wired")

	// ErrInvalidLetter indicates a pair member outside A..Z.
	ErrInvalidLetter = errors.New("plugboard: invalid letter")
)

// DuplicateWiringError reports the letter that was wired twice.
type DuplicateWiringError struct {
	Letter rune
}

func (e *DuplicateWiringError) Error() string {
	return fmt.Sprintf("plugboard: '%c' already wired to the board", e.Letter)
}

// Is lets errors.Is match ErrDuplicateWiring.
func (e *DuplicateWiringError) Is(target error) bool { return target == ErrDuplicateWiring }

// InvalidLetterError reports the offending pair.
type InvalidLetterError struct {
	Left, Right rune
}

func (e *InvalidLetterError) Error() string {
	return fmt.Sprintf("plugboard: '%c' or '%c' is not an uppercase ASCII letter", e.Left, e.Right)
}

// Is lets errors.Is match ErrInvalidLetter.
func (e *InvalidLetterError) Is(target error) bool { return target == ErrInvalidLetter }

// Pair is one cable joining two letters.
type Pair struct {
	Left, Right rune
}

func (p Pair) String() string { return string([]rune{p.Left, p.Right}) }

// Plugboard swaps paired letters. The nil *Plugboard is a valid empty board.
type Plugboard struct {
	wiring alphabet.Permutation
	pairs  []Pair
}

// New wires the given pairs. Each letter may appear at most once across all
// pairs; a pair joining a letter to itself counts as wiring it twice.
func New(pairs []Pair) (*Plugboard, error) {
	b := &Plugboard{wiring: alphabet.Identity()}
	var wired [alphabet.Size]bool

	for _, p := range pairs {
		left, lerr := alphabet.FromRune(p.Left)
		right, rerr := alphabet.FromRune(p.Right)
		if lerr != nil || rerr != nil {
			return nil, &InvalidLetterError{Left: p.Left, Right: p.Right}
		}
		if wired[left] {
			return nil, &DuplicateWiringError{Letter: p.Left}
		}
		wired[left] = true
		if wired[right] {
			return nil, &DuplicateWiringError{Letter: p.Right}
		}
		wired[right] = true

		b.wiring[left] = right
		b.wiring[right] = left
		b.pairs = append(b.pairs, canonical(p))
	}

	sort.Slice(b.pairs, func(i, j int) bool { return b.pairs[i].Left < b.pairs[j].Left })
	return b, nil
}

// Parse builds a board from key-sheet notation such as "AB CD EF". Pairs may
// be separated by spaces or commas. An empty string yields an empty board.
func Parse(s string) (*Plugboard, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) != 2 {
			return nil, fmt.Errorf("%w: pair %q must be exactly two letters", ErrInvalidLetter, f)
		}
		runes := []rune(f)
		pairs = append(pairs, Pair{Left: runes[0], Right: runes[1]})
	}
	return New(pairs)
}

// Transpose returns the letter paired with l, or l itself when unwired.
func (b *Plugboard) Transpose(l alphabet.Letter) alphabet.Letter {
	if b == nil {
		return l
	}
	return b.wiring[l]
}

// Pairs returns the wired pairs, lower letter first, sorted.
func (b *Plugboard) Pairs() []Pair {
	if b == nil {
		return nil
	}
	return append([]Pair(nil), b.pairs...)
}

// Len returns the number of cables in use.
func (b *Plugboard) Len() int {
	if b == nil {
		return 0
	}
	return len(b.pairs)
}

// String renders the board in key-sheet notation.
func (b *Plugboard) String() string {
	parts := make([]string, 0, b.Len())
	for _, p := range b.Pairs() {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}

func canonical(p Pair) Pair {
	if p.Right < p.Left {
		return Pair{Left: p.Right, Right: p.Left}
	}
	return p
}
