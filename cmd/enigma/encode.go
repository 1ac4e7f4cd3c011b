package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"
	"unicode"

	"enigma/internal/config"
	"enigma/internal/journal"
	"enigma/internal/machine"
)

const encodeSynopsis = "encode [-group n] [-strict] [-v] [text...]"

func (a *app) cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	group := fs.Int("group", -1, "letters per output group, 0 disables (default from key sheet)")
	strict := fs.Bool("strict", false, "reject anything but uppercase letters instead of folding case and dropping the rest")
	verbose := fs.Bool("v", false, "print the final rotor positions to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *group > config.MaxGroupSize {
		return usageError(encodeSynopsis)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	log, err := a.newLogger(cfg.Logging, false)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Close()

	m, err := cfg.BuildMachine()
	if err != nil {
		return err
	}

	enc := &encoder{m: m, strict: *strict, groupSize: cfg.Console.GroupSize}
	if *group >= 0 {
		enc.groupSize = *group
	}

	ctx := context.Background()

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		sess, err := j.BeginSession(ctx, sessionInfo(journal.ModeEncode, m.Describe()))
		if err != nil {
			return fmt.Errorf("begin journal session: %w", err)
		}
		enc.rec = sess
		log = log.WithSession(sess.ID())
		defer endSession(ctx, sess, log)
	}

	if fs.NArg() > 0 {
		if err := a.encodeLine(ctx, enc, 1, strings.Join(fs.Args(), " ")); err != nil {
			return err
		}
	} else {
		scanner := bufio.NewScanner(a.stdin)
		for n := 1; scanner.Scan(); n++ {
			if err := a.encodeLine(ctx, enc, n, scanner.Text()); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}

	log.Info("message enciphered", "letters", enc.letters, "positions", m.SettingsString())
	if *verbose {
		fmt.Fprintf(a.stderr, "positions: %s\n", m.SettingsString())
	}
	return nil
}

func (a *app) encodeLine(ctx context.Context, enc *encoder, n int, line string) error {
	out, err := enc.encode(ctx, line)
	if err != nil {
		return fmt.Errorf("line %d: %w", n, err)
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

// encoder enciphers lines of a message on one machine, so rotor positions
// carry over from line to line.
type encoder struct {
	m         *machine.Machine
	strict    bool
	groupSize int
	rec       *journal.Session
	letters   int
}

func (e *encoder) encode(ctx context.Context, line string) (string, error) {
	text := prepare(line, e.strict)
	if err := machine.Validate(text); err != nil {
		return "", err
	}

	in := []rune(text)
	out := make([]rune, len(in))
	positions := make([]string, len(in))
	for i, r := range in {
		o, err := e.m.Press(r)
		if err != nil {
			return "", err
		}
		out[i] = o
		positions[i] = e.m.SettingsString()
	}
	e.letters += len(in)

	if e.rec != nil && len(in) > 0 {
		if err := e.rec.RecordText(ctx, text, string(out), positions); err != nil {
			return "", fmt.Errorf("journal: %w", err)
		}
	}
	return groupLetters(string(out), e.groupSize), nil
}

// prepare turns a line into machine input. Whitespace always separates
// words and is dropped. Outside strict mode lowercase letters are folded and
// every other character is dropped, as the console does.
func prepare(line string, strict bool) string {
	var b strings.Builder
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
		case strict:
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// groupLetters inserts a space after every n letters. n <= 0 returns s.
func groupLetters(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i:min(i+n, len(s))])
	}
	return b.String()
}
