// Package machine assembles rotors, a reflector and an optional plugboard
// into the three-rotor cipher machine.
//
// Each key press steps the rotors first and then sends the signal through
// the plugboard, the rotors from right to left, the reflector, the rotors
// from left to right and the plugboard again. The middle rotor steps when
// the right rotor was at its notch, and steps again together with the left
// rotor when it was itself at its notch, giving the double-step.
//
// A Machine is not safe for concurrent use.
package machine

import (
	"fmt"
	"strings"

	"enigma/internal/alphabet"
	"enigma/internal/plugboard"
	"enigma/internal/reflector"
	"enigma/internal/rotor"
)

// Rotor slots, in window order.
const (
	Left = iota
	Middle
	Right
)

// Machine is a three-rotor cipher machine.
type Machine struct {
	left, middle, right *rotor.Rotor
	reflector           *reflector.Reflector
	plugboard           *plugboard.Plugboard
}

// New assembles a machine. Rotors are given in window order, left to right.
// pb may be nil for a machine without plugboard cables. The machine takes
// ownership of every component; callers must not use them afterwards.
func New(left, middle, right *rotor.Rotor, refl *reflector.Reflector, pb *plugboard.Plugboard) (*Machine, error) {
	if left == nil || middle == nil || right == nil {
		return nil, fmt.Errorf("%w: rotor", ErrMissingComponent)
	}
	if refl == nil {
		return nil, fmt.Errorf("%w: reflector", ErrMissingComponent)
	}
	return &Machine{
		left:      left,
		middle:    middle,
		right:     right,
		reflector: refl,
		plugboard: pb,
	}, nil
}

// Press validates r, steps the rotors and returns the enciphered letter.
// Only 'A'..'Z' are accepted; a rejected character leaves the machine
// untouched and the error is a *CharacterError.
func (m *Machine) Press(r rune) (rune, error) {
	if err := checkInput(r); err != nil {
		return 0, err
	}
	return m.PressLetter(alphabet.Letter(r - 'A')).Rune(), nil
}

// PressLetter steps the rotors and enciphers an already validated letter.
func (m *Machine) PressLetter(in alphabet.Letter) alphabet.Letter {
	m.step()

	out := m.plugboard.Transpose(in)
	out = m.right.SignalIn(out)
	out = m.middle.SignalIn(out)
	out = m.left.SignalIn(out)
	out = m.reflector.Reflect(out)
	out = m.left.SignalOut(out)
	out = m.middle.SignalOut(out)
	out = m.right.SignalOut(out)
	return m.plugboard.Transpose(out)
}

// step advances the rotors for one key press. Notch state is read before
// anything moves.
func (m *Machine) step() {
	rightAtNotch := m.right.AtNotch()
	middleAtNotch := m.middle.AtNotch()

	m.right.Advance()
	if rightAtNotch {
		m.middle.Advance()
	}
	if middleAtNotch {
		m.middle.Advance()
		m.left.Advance()
	}
}

// Encode presses every rune of s in turn. The whole input is checked first,
// so a bad character anywhere leaves the machine untouched; the error is an
// *InputError carrying the rune offset.
func (m *Machine) Encode(s string) (string, error) {
	if err := Validate(s); err != nil {
		return "", err
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes))
	for _, r := range runes {
		b.WriteRune(m.PressLetter(alphabet.Letter(r - 'A')).Rune())
	}
	return b.String(), nil
}

// Validate reports the first rune of s the machine would reject, as an
// *InputError. A nil result means every rune is an uppercase ASCII letter.
func Validate(s string) error {
	for i, r := range []rune(s) {
		if err := checkInput(r); err != nil {
			return &InputError{Offset: i, Err: err.(*CharacterError)}
		}
	}
	return nil
}

// Settings returns the window letters, left to right.
func (m *Machine) Settings() [3]alphabet.Letter {
	return [3]alphabet.Letter{m.left.Position(), m.middle.Position(), m.right.Position()}
}

// SettingsString returns the window letters as a string such as "AAF".
func (m *Machine) SettingsString() string {
	s := m.Settings()
	return alphabet.Join(s[:])
}

// Reset returns every rotor to its starting position. The plugboard and
// reflector hold no state and are unaffected.
func (m *Machine) Reset() {
	m.left.Reset()
	m.middle.Reset()
	m.right.Reset()
}

// RotorInfo is a read-only description of one mounted rotor.
type RotorInfo struct {
	Model    string
	Ring     alphabet.Letter
	Initial  alphabet.Letter
	Position alphabet.Letter
}

// Description is a read-only view of the machine's assembly.
type Description struct {
	Rotors    [3]RotorInfo
	Reflector string
	Plugboard string
}

// Describe reports how the machine is assembled and where its rotors sit.
func (m *Machine) Describe() Description {
	d := Description{
		Reflector: m.reflector.Name(),
		Plugboard: m.plugboard.String(),
	}
	for i, r := range []*rotor.Rotor{m.left, m.middle, m.right} {
		d.Rotors[i] = RotorInfo{
			Model:    r.Model().Name,
			Ring:     r.RingSetting(),
			Initial:  r.InitialPosition(),
			Position: r.Position(),
		}
	}
	return d
}

// Models returns the rotor model names, left to right, e.g. "I II III".
func (d Description) Models() string {
	return d.Rotors[Left].Model + " " + d.Rotors[Middle].Model + " " + d.Rotors[Right].Model
}

// Rings returns the ring settings, left to right.
func (d Description) Rings() string {
	return alphabet.Join([]alphabet.Letter{d.Rotors[Left].Ring, d.Rotors[Middle].Ring, d.Rotors[Right].Ring})
}

// InitialPositions returns the starting window letters, left to right.
func (d Description) InitialPositions() string {
	return alphabet.Join([]alphabet.Letter{d.Rotors[Left].Initial, d.Rotors[Middle].Initial, d.Rotors[Right].Initial})
}
