package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"enigma/internal/config"
	"enigma/internal/console"
	"enigma/internal/journal"
	"enigma/internal/logging"
)

// reloader hands configuration changes from the loader's goroutine to the
// running console session.
type reloader struct {
	mu      sync.Mutex
	active  *console.Session
	pending *config.Config
}

// setActive makes s the session to interrupt on change. A change that
// arrived while no session was running interrupts s at once.
func (r *reloader) setActive(s *console.Session) {
	r.mu.Lock()
	r.active = s
	pending := r.pending != nil
	r.mu.Unlock()
	if s != nil && pending {
		s.Reload()
	}
}

func (r *reloader) changed(cfg *config.Config) {
	r.mu.Lock()
	r.pending = cfg
	s := r.active
	r.mu.Unlock()
	if s != nil {
		s.Reload()
	}
}

func (r *reloader) take() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg := r.pending
	r.pending = nil
	return cfg
}

func (a *app) cmdConsole(args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	noWatch := fs.Bool("no-watch", false, "do not reload the key sheet when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError("console [-no-watch]")
	}

	loader := config.NewLoader(a.resolveConfigPath())
	defer loader.Close()

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := a.newLogger(cfg.Logging, true)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Close()
	log = log.WithComponent("console")

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var rl reloader
	if cfg.Console.WatchConfig && !*noWatch {
		if _, err := os.Stat(loader.Path()); err == nil {
			if err := loader.Watch(); err != nil {
				log.Warn("config watch unavailable", "error", err)
			} else {
				loader.OnChange(rl.changed)
				go logLoaderErrors(ctx, loader, log)
			}
		}
	}

	if f, ok := a.stdin.(*os.File); ok && console.IsTerminal(int(f.Fd())) {
		state, err := console.MakeRaw(int(f.Fd()))
		if err != nil {
			return err
		}
		defer state.Restore()
	}

	kb := console.NewKeyboard(a.stdin)
	for {
		reason, err := a.consoleSession(ctx, cfg, kb, j, &rl, log)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if reason != console.ExitReload {
			return nil
		}
		if next := rl.take(); next != nil {
			cfg = next
		}
	}
}

// consoleSession runs one machine built from cfg until the operator quits,
// input ends or the key sheet changes.
func (a *app) consoleSession(ctx context.Context, cfg *config.Config, kb *console.Keyboard, j *journal.Journal, rl *reloader, log *logging.Logger) (console.ExitReason, error) {
	m, err := cfg.BuildMachine()
	if err != nil {
		return console.ExitUser, err
	}

	opts := console.Options{GroupSize: cfg.Console.GroupSize, Logger: log}
	if j != nil {
		sess, err := j.BeginSession(ctx, sessionInfo(journal.ModeConsole, m.Describe()))
		if err != nil {
			return console.ExitUser, fmt.Errorf("begin journal session: %w", err)
		}
		opts.Recorder = sess
		opts.Logger = log.WithSession(sess.ID())
		defer endSession(context.Background(), sess, opts.Logger)
	}

	s := console.NewSession(m, opts)
	rl.setActive(s)
	defer rl.setActive(nil)

	opts.Logger.Info("console session started", "rotors", m.Describe().Models(), "positions", m.SettingsString())
	reason, err := s.Run(ctx, kb, a.stdout)
	opts.Logger.Info("console session ended", "reason", reason.String(), "letters", s.State().Letters())
	return reason, err
}

func logLoaderErrors(ctx context.Context, l *config.Loader, log *logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-l.Errors():
			log.Warn("config reload failed", "error", err)
		}
	}
}
