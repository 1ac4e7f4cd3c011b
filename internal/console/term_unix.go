//go:build linux || darwin

package console

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// TermState is a terminal's mode before MakeRaw changed it.
type TermState struct {
	fd      int
	termios unix.Termios
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	return err == nil
}

// MakeRaw puts the terminal into raw mode: no echo, no line buffering, no
// signal keys and no output post-processing. Restore undoes it.
func MakeRaw(fd int) (*TermState, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get terminal mode: %w", err)
	}
	old := TermState{fd: fd, termios: *termios}

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	return &old, nil
}

// Restore puts the terminal back into the mode saved by MakeRaw.
func (s *TermState) Restore() error {
	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &s.termios); err != nil {
		return fmt.Errorf("restore terminal mode: %w", err)
	}
	return nil
}
