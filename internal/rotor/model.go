package rotor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"enigma/internal/alphabet"
)

// ErrUnknownModel indicates a catalog lookup for a name that does not exist.
var ErrUnknownModel = errors.New("rotor: unknown model")

// Model describes one rotor type: its wiring and the letters carrying a
// turnover notch.
type Model struct {
	Name    string
	Wiring  alphabet.Permutation
	Notches []alphabet.Letter
}

// ParseModel builds a model from a 26-character ordering string and a string
// of notch letters.
func ParseModel(name, ordering, notches string) (Model, error) {
	wiring, err := alphabet.ParsePermutation(ordering)
	if err != nil {
		return Model{}, fmt.Errorf("rotor %s: %w", name, err)
	}
	ns, err := alphabet.ParseLetters(notches)
	if err != nil {
		return Model{}, fmt.Errorf("rotor %s notches: %w", name, err)
	}
	return Model{Name: name, Wiring: wiring, Notches: ns}, nil
}

// Historical Army rotors.
var catalog = map[string]Model{
	"I":   mustModel("I", "EKMFLGDQVZNTOWYHXUSPAIBRCJ", "Q"),
	"II":  mustModel("II", "AJDKSIRUXBLHWTMCQGZNPYFVOE", "E"),
	"III": mustModel("III", "BDFHJLCPRTXVZNYEIWGAKMUSQO", "V"),
	"IV":  mustModel("IV", "ESOVPZJAYQUIRHXLNFTGKDCMWB", "J"),
	"V":   mustModel("V", "VZBRGITYUPSDNHLXAWMJQOFECK", "Z"),
}

var catalogOrder = []string{"I", "II", "III", "IV", "V"}

func mustModel(name, ordering, notches string) Model {
	m, err := ParseModel(name, ordering, notches)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the catalog model with the given name. Names are
// case-insensitive Roman numerals.
func Lookup(name string) (Model, error) {
	m, ok := catalog[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	m.Notches = append([]alphabet.Letter(nil), m.Notches...)
	return m, nil
}

// Models lists the catalog rotor names in numeral order.
func Models() []string {
	return append([]string(nil), catalogOrder...)
}

// NotchString renders the notch letters, sorted.
func (m Model) NotchString() string {
	ns := append([]alphabet.Letter(nil), m.Notches...)
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	return alphabet.Join(ns)
}
