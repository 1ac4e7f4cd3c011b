// Package rotor implements the wired, rotating disks of the cipher machine.
//
// A Rotor combines a fixed wiring table with a ring setting and a mutable
// stepping offset. Signals are shifted into the wiring's frame of reference,
// looked up, and shifted back out, which models a disk turning relative to
// stationary contacts.
package rotor

import (
	"enigma/internal/alphabet"
)

// Rotor is a single wired disk. It is not safe for concurrent use.
type Rotor struct {
	model   Model
	forward alphabet.Permutation
	inverse alphabet.Permutation
	notches [alphabet.Size]bool

	ring    alphabet.Letter
	initial alphabet.Letter
	current int
}

// New places a rotor of the given model in the machine with a ring setting
// and a starting window position.
func New(m Model, ring, position alphabet.Letter) *Rotor {
	r := &Rotor{
		model:   m,
		forward: m.Wiring,
		inverse: m.Wiring.Inverse(),
		ring:    ring,
		initial: position,
		current: position.Index(),
	}
	for _, n := range m.Notches {
		r.notches[n] = true
	}
	return r
}

// EffectiveOffset is the rotation between the wiring and the entry contacts,
// (ring - current) mod 26.
func (r *Rotor) EffectiveOffset() int {
	return alphabet.Shift(r.ring, -r.current).Index()
}

// SignalIn passes l through the wiring on the way toward the reflector.
func (r *Rotor) SignalIn(l alphabet.Letter) alphabet.Letter {
	off := r.EffectiveOffset()
	return alphabet.Shift(r.forward[alphabet.Shift(l, -off)], off)
}

// SignalOut passes l back through the wiring on the way from the reflector.
func (r *Rotor) SignalOut(l alphabet.Letter) alphabet.Letter {
	off := r.EffectiveOffset()
	return alphabet.Shift(r.inverse[alphabet.Shift(l, -off)], off)
}

// AtNotch reports whether the rotor sits at a turnover notch. Notches are cut
// into the wired alphabet, so the ring setting plays no part.
func (r *Rotor) AtNotch() bool {
	return r.notches[alphabet.Shift(alphabet.A, r.current)]
}

// Advance steps the rotor one position.
func (r *Rotor) Advance() {
	r.current = alphabet.Shift(alphabet.Letter(r.current), 1).Index()
}

// Position returns the letter visible in the rotor's window.
func (r *Rotor) Position() alphabet.Letter {
	return alphabet.Shift(r.ring, -r.EffectiveOffset())
}

// Reset returns the rotor to its starting window position.
func (r *Rotor) Reset() {
	r.current = r.initial.Index()
}

// Model returns the rotor's model description.
func (r *Rotor) Model() Model { return r.model }

// RingSetting returns the fixed ring setting.
func (r *Rotor) RingSetting() alphabet.Letter { return r.ring }

// InitialPosition returns the window letter the rotor started at.
func (r *Rotor) InitialPosition() alphabet.Letter { return r.initial }
