// Package journal provides SQLite-based storage of machine sessions.
package journal

import (
	"strings"
	"time"
)

// Mode records which front end opened a session.
type Mode string

const (
	// ModeConsole is an interactive console session.
	ModeConsole Mode = "console"
	// ModeEncode is a one-shot encode from the command line.
	ModeEncode Mode = "encode"
)

// EntryKind distinguishes key presses from reset markers.
type EntryKind string

const (
	// EntryPress is one enciphered key press.
	EntryPress EntryKind = "press"
	// EntryReset marks the rotors returning to their start positions.
	EntryReset EntryKind = "reset"
)

// SessionInfo describes the machine a session runs on.
type SessionInfo struct {
	Mode           Mode
	Rotors         string // model names, left to right, e.g. "III II IV"
	Rings          string // e.g. "GEW"
	Reflector      string
	Plugboard      string
	StartPositions string // e.g. "EHR"
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	SessionInfo
	Presses int
}

// Entry is one recorded event within a session.
type Entry struct {
	Seq       int
	Kind      EntryKind
	Input     rune
	Output    rune
	Positions string
	At        time.Time
}

// Transcript is a session and everything recorded in it.
type Transcript struct {
	Session SessionSummary
	Entries []Entry
}

// Input returns the pressed letters since the last reset.
func (t *Transcript) Input() string {
	return t.collect(func(e Entry) rune { return e.Input })
}

// Output returns the lamp letters since the last reset.
func (t *Transcript) Output() string {
	return t.collect(func(e Entry) rune { return e.Output })
}

func (t *Transcript) collect(pick func(Entry) rune) string {
	var b strings.Builder
	for _, e := range t.Entries {
		switch e.Kind {
		case EntryReset:
			b.Reset()
		case EntryPress:
			b.WriteRune(pick(e))
		}
	}
	return b.String()
}
