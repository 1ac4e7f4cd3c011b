package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"enigma/internal/config"
)

const configSynopsis = "config init [-force] [path] | show [-format toml|json|yaml] | validate [path] | path"

func (a *app) cmdConfig(args []string) error {
	if len(args) < 1 {
		return usageError(configSynopsis)
	}

	switch args[0] {
	case "init":
		return a.configInit(args[1:])
	case "show":
		return a.configShow(args[1:])
	case "validate":
		return a.configValidate(args[1:])
	case "path":
		fmt.Fprintln(a.stdout, a.resolveConfigPath())
		return nil
	default:
		return usageError(configSynopsis)
	}
}

// pathArg returns the single optional path argument, falling back to the
// resolved key sheet path.
func (a *app) pathArg(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		if a.configPath != "" {
			return a.configPath, nil
		}
		return config.ConfigPath(), nil
	case 1:
		return fs.Arg(0), nil
	default:
		return "", usageError(configSynopsis)
	}
}

func (a *app) configInit(args []string) error {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.pathArg(fs)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if *force {
		cfg = config.DefaultConfig()
		if err := config.SaveConfig(cfg, path); err != nil {
			return err
		}
	} else {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		var err error
		if cfg, _, err = config.LoadOrCreate(path); err != nil {
			return err
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Wrote key sheet to %s\n", path)
	return nil
}

func (a *app) configShow(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "toml", "output format: toml, json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError(configSynopsis)
	}

	switch *format {
	case "toml", "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Encode(cfg, *format)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = a.stdout.Write(data)
	return err
}

func (a *app) configValidate(args []string) error {
	fs := flag.NewFlagSet("config validate", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := a.resolveConfigPath()
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	} else if fs.NArg() > 1 {
		return usageError(configSynopsis)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("key sheet: %w", err)
	}

	if _, err := config.Load(path); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				fmt.Fprintf(a.stdout, "  %s: %s\n", v.Field, v.Message)
			}
			return fmt.Errorf("%s: %d problem(s)", path, len(verrs))
		}
		return err
	}

	fmt.Fprintf(a.stdout, "%s: OK\n", path)
	return nil
}
