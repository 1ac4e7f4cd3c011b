package console

import "errors"

// ErrRawModeUnsupported is returned by MakeRaw on platforms without termios.
var ErrRawModeUnsupported = errors.New("console: raw mode not supported on this platform")
