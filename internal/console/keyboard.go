package console

import "io"

// Keyboard reads raw key bytes from a terminal on its own goroutine. One
// Keyboard should own the terminal for the life of the program so that
// successive sessions do not race for input.
type Keyboard struct {
	keys chan []byte
	err  error
}

// NewKeyboard starts reading from r.
func NewKeyboard(r io.Reader) *Keyboard {
	k := &Keyboard{keys: make(chan []byte)}
	go k.loop(r)
	return k
}

func (k *Keyboard) loop(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			k.keys <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			k.err = err
			close(k.keys)
			return
		}
	}
}

// Keys delivers chunks of key bytes. The channel is closed when the reader
// fails or reaches EOF.
func (k *Keyboard) Keys() <-chan []byte { return k.keys }

// Err returns the read error that closed Keys. It is io.EOF at end of input.
func (k *Keyboard) Err() error { return k.err }
