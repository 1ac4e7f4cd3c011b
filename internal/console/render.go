package console

import (
	"bufio"
	"io"
)

// ANSI sequences used by the renderer. Lines end in CRLF because raw mode
// turns off output post-processing.
const (
	clearScreen = "\x1b[2J\x1b[H"
	bold        = "\x1b[1m"
	lightBlue   = "\x1b[94m"
	reset       = "\x1b[0m"
	newline     = "\r\n"
)

// Render redraws the whole screen for st.
func Render(w io.Writer, st State) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(clearScreen)
	block(bw, "Machine setup", st.Machine)
	block(bw, "Input", st.Input)
	block(bw, "Output", st.Output)
	bw.WriteString("Ctrl-R reset   Ctrl-C quit" + newline)
	return bw.Flush()
}

func block(w *bufio.Writer, title, text string) {
	w.WriteString(bold + title + reset + newline)
	w.WriteString(bold + lightBlue + " " + text + " " + reset + newline)
	w.WriteString(newline)
}
