//go:build !linux && !darwin

package console

// TermState is a terminal's mode before MakeRaw changed it.
type TermState struct{}

// IsTerminal reports whether fd refers to a terminal. Always false here.
func IsTerminal(fd int) bool { return false }

// MakeRaw is not available on this platform.
func MakeRaw(fd int) (*TermState, error) { return nil, ErrRawModeUnsupported }

// Restore does nothing on this platform.
func (s *TermState) Restore() error { return nil }
