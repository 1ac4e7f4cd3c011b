// Package console runs the machine as an interactive terminal session.
package console

import (
	"strings"

	"enigma/internal/alphabet"
)

// DefaultGroupSize is the letter grouping used by key sheets and the console.
const DefaultGroupSize = 5

// State is what the console shows: the rotor windows and the letters typed
// and lit since the last reset.
type State struct {
	// Machine is each window letter prefixed by a space, e.g. " A A F".
	Machine string
	Input   string
	Output  string

	groupSize int
	letters   int
}

// NewState returns a fresh display for a machine at the given settings.
// groupSize 0 disables grouping.
func NewState(settings [3]alphabet.Letter, groupSize int) State {
	return State{
		Machine:   machineLine(settings),
		groupSize: groupSize,
	}
}

// Press appends one input and output letter and updates the windows.
func (s *State) Press(in, out rune, settings [3]alphabet.Letter) {
	s.Input += string(in)
	s.Output += string(out)
	s.letters++
	if s.groupSize > 0 && s.letters%s.groupSize == 0 {
		s.Input += " "
		s.Output += " "
	}
	s.Machine = machineLine(settings)
}

// Letters returns how many letters have been pressed since the last reset.
func (s State) Letters() int { return s.letters }

func machineLine(settings [3]alphabet.Letter) string {
	var b strings.Builder
	for _, l := range settings {
		b.WriteByte(' ')
		b.WriteRune(l.Rune())
	}
	return b.String()
}
