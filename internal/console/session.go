package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"enigma/internal/logging"
	"enigma/internal/machine"
)

// Control keys as delivered by a terminal in raw mode.
const (
	keyCtrlC byte = 0x03
	keyCtrlR byte = 0x12
)

// ExitReason tells the caller why Run returned.
type ExitReason int

const (
	// ExitUser means the operator pressed Ctrl-C.
	ExitUser ExitReason = iota
	// ExitReload means Reload was called; the caller should rebuild the
	// machine and start a new session.
	ExitReload
	// ExitInputClosed means the keyboard reached end of input.
	ExitInputClosed
)

func (r ExitReason) String() string {
	switch r {
	case ExitUser:
		return "user"
	case ExitReload:
		return "reload"
	case ExitInputClosed:
		return "input closed"
	default:
		return fmt.Sprintf("ExitReason(%d)", int(r))
	}
}

// Recorder receives every press and reset. *journal.Session implements it.
type Recorder interface {
	RecordPress(ctx context.Context, input, output rune, positions string) error
	RecordReset(ctx context.Context, positions string) error
}

// Options configures a Session.
type Options struct {
	// GroupSize is the letter grouping on screen; 0 disables it.
	GroupSize int

	// Recorder, when set, is told about every press and reset.
	Recorder Recorder

	// Logger receives debug records for presses; nil discards them.
	Logger *logging.Logger
}

// Session drives one machine from key bytes.
type Session struct {
	m      *machine.Machine
	opts   Options
	log    *logging.Logger
	state  State
	reload chan struct{}
}

// NewSession returns a session showing the machine's current windows.
func NewSession(m *machine.Machine, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Session{
		m:      m,
		opts:   opts,
		log:    log.WithComponent("console"),
		state:  NewState(m.Settings(), opts.GroupSize),
		reload: make(chan struct{}, 1),
	}
}

// State returns the current display.
func (s *Session) State() State { return s.state }

// Reload asks a running session to return ExitReload. Safe to call from any
// goroutine; extra calls before Run notices are dropped.
func (s *Session) Reload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// HandleKey applies one key byte. It reports whether the key ends the
// session. Keys other than letters and the two control keys are ignored.
func (s *Session) HandleKey(ctx context.Context, key byte) (quit bool, err error) {
	switch {
	case key == keyCtrlC:
		return true, nil

	case key == keyCtrlR:
		s.m.Reset()
		s.state = NewState(s.m.Settings(), s.opts.GroupSize)
		s.log.Debug("rotors reset", "positions", s.m.SettingsString())
		if s.opts.Recorder != nil {
			if err := s.opts.Recorder.RecordReset(ctx, s.m.SettingsString()); err != nil {
				return false, fmt.Errorf("record reset: %w", err)
			}
		}
		return false, nil

	case key >= 'a' && key <= 'z':
		key -= 'a' - 'A'
		fallthrough

	case key >= 'A' && key <= 'Z':
		in := rune(key)
		out, err := s.m.Press(in)
		if err != nil {
			return false, err
		}
		s.state.Press(in, out, s.m.Settings())
		s.log.Debug("key pressed", "presses", s.state.Letters(), "positions", s.m.SettingsString())
		if s.opts.Recorder != nil {
			if err := s.opts.Recorder.RecordPress(ctx, in, out, s.m.SettingsString()); err != nil {
				return false, fmt.Errorf("record press: %w", err)
			}
		}
	}
	return false, nil
}

// Run renders the display and processes keys until Ctrl-C, Reload, end of
// input or ctx cancellation. The screen is redrawn after every chunk of
// keys. A cancelled ctx returns its error.
func (s *Session) Run(ctx context.Context, kb *Keyboard, out io.Writer) (ExitReason, error) {
	if err := Render(out, s.state); err != nil {
		return ExitUser, fmt.Errorf("render: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ExitUser, ctx.Err()

		case <-s.reload:
			s.log.Info("configuration changed, reloading")
			return ExitReload, nil

		case chunk, ok := <-kb.Keys():
			if !ok {
				if err := kb.Err(); err != nil && !errors.Is(err, io.EOF) {
					return ExitInputClosed, fmt.Errorf("read keys: %w", err)
				}
				return ExitInputClosed, nil
			}
			for _, key := range chunk {
				quit, err := s.HandleKey(ctx, key)
				if err != nil {
					return ExitUser, err
				}
				if quit {
					return ExitUser, nil
				}
			}
			if err := Render(out, s.state); err != nil {
				return ExitUser, fmt.Errorf("render: %w", err)
			}
		}
	}
}
