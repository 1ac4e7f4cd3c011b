// enigma is a three-rotor cipher machine for the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"enigma/internal/config"
	"enigma/internal/journal"
	"enigma/internal/logging"
	"enigma/internal/machine"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the streams and global options shared by every command.
type app struct {
	configPath string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// run executes one command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("enigma", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	fs.StringVar(&a.configPath, "config", "", "path to key sheet file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() < 1 {
		usage(stderr)
		return 2
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "encode":
		err = a.cmdEncode(rest)
	case "console":
		err = a.cmdConsole(rest)
	case "settings":
		err = a.cmdSettings(rest)
	case "catalog":
		err = a.cmdCatalog(rest)
	case "config":
		err = a.cmdConfig(rest)
	case "history":
		err = a.cmdHistory(rest)
	case "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		usage(stderr)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "Usage: enigma %s\n", ue)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// usageError is returned when a command is called with the wrong arguments.
// Its text is the command's synopsis.
type usageError string

func (e usageError) Error() string { return string(e) }

func usage(w io.Writer) {
	fmt.Fprintln(w, `enigma - three-rotor cipher machine

Usage: enigma [options] <command> [args]

Commands:
  encode [text...]           Encipher text from the arguments or stdin
  console                    Interactive session on the terminal
  settings                   Show the key sheet's machine setup
  catalog                    List rotor and reflector models
  config init|show|validate  Manage the key sheet file
  history [session-id]       List journal sessions or print a transcript
  help                       Show this help message

Options:
  -config <path>  Path to key sheet (default: ./config.toml or the user config dir)`)
}

// resolveConfigPath picks the -config flag, then an existing file in the
// search path, then the default location.
func (a *app) resolveConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	if found := config.FindConfigFile(); found != "" {
		return found
	}
	return config.ConfigPath()
}

// loadConfig loads and validates the key sheet.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger described by the key sheet. Interactive
// sessions own the terminal, so terminal outputs are redirected to the log
// file.
func (a *app) newLogger(lc config.LoggingConfig, interactive bool) (*logging.Logger, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(lc.Format)
	if err != nil {
		return nil, err
	}

	output := strings.ToLower(lc.Output)
	if interactive && output != "file" {
		output = "file"
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = output
	cfg.Stdout = a.stdout
	cfg.Stderr = a.stderr
	cfg.FilePath = lc.FilePath
	cfg.MaxSize = int64(lc.MaxSizeMB)
	cfg.MaxAge = 0
	cfg.MaxBackups = lc.MaxBackups
	cfg.Compress = lc.Compress

	return logging.New(cfg)
}

// openJournal opens the session journal, or returns nil when journaling is
// disabled.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// endSession marks a journal session finished. A failure only loses the
// end time, so it is logged rather than returned.
func endSession(ctx context.Context, s *journal.Session, log *logging.Logger) {
	if err := s.End(ctx); err != nil {
		log.Warn("end journal session failed", "error", err)
	}
}

// sessionInfo describes the machine's setup for the journal.
func sessionInfo(mode journal.Mode, d machine.Description) journal.SessionInfo {
	return journal.SessionInfo{
		Mode:           mode,
		Rotors:         d.Models(),
		Rings:          d.Rings(),
		Reflector:      d.Reflector,
		Plugboard:      d.Plugboard,
		StartPositions: d.InitialPositions(),
	}
}
