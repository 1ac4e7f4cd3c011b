// Package config handles key sheet loading, validation, and management for enigma.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"enigma/internal/alphabet"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete program configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Machine is the key sheet: rotor order, rings, start positions,
	// reflector and plugboard.
	Machine MachineConfig `toml:"machine" json:"machine" yaml:"machine"`

	// Console configuration for the interactive terminal.
	Console ConsoleConfig `toml:"console" json:"console" yaml:"console"`

	// Journal configuration for the session store.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// MachineConfig describes how the machine is assembled.
type MachineConfig struct {
	// Rotors in window order, left to right. Exactly three are required.
	Rotors []RotorConfig `toml:"rotors" json:"rotors" yaml:"rotors"`

	// Reflector is a catalog reflector name: "A", "B" or "C".
	Reflector string `toml:"reflector" json:"reflector" yaml:"reflector"`

	// Plugboard lists cable pairs, e.g. "AB CD EF". Empty means no cables.
	Plugboard string `toml:"plugboard" json:"plugboard" yaml:"plugboard"`
}

// RotorConfig describes one rotor slot.
type RotorConfig struct {
	// Model is a catalog rotor name, "I" through "V".
	Model string `toml:"model" json:"model" yaml:"model"`

	// Ring is the ring setting. Omitted means 'A'.
	Ring alphabet.Letter `toml:"ring" json:"ring" yaml:"ring"`

	// Position is the starting window letter. Omitted means 'A'.
	Position alphabet.Letter `toml:"position" json:"position" yaml:"position"`
}

// ConsoleConfig holds interactive console configuration.
type ConsoleConfig struct {
	// GroupSize inserts a space after every GroupSize letters of input and
	// output. 0 disables grouping.
	GroupSize int `toml:"group_size" json:"group_size" yaml:"group_size"`

	// WatchConfig reloads the key sheet when the config file changes.
	WatchConfig bool `toml:"watch_config" json:"watch_config" yaml:"watch_config"`
}

// JournalConfig holds session journal configuration.
type JournalConfig struct {
	// Enabled determines whether sessions are recorded.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the path to the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log destination: "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output includes a file).
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// Compress determines whether rotated files are gzipped.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`
}

// DefaultConfig returns the built-in key sheet: rotors III II IV with rings
// GEW at EHR, reflector C, plugboard ER SA TZ.
func DefaultConfig() *Config {
	dir := DataDir()

	return &Config{
		Version: Version,
		Machine: MachineConfig{
			Rotors: []RotorConfig{
				{Model: "III", Ring: alphabet.MustRune('G'), Position: alphabet.MustRune('E')},
				{Model: "II", Ring: alphabet.MustRune('E'), Position: alphabet.MustRune('H')},
				{Model: "IV", Ring: alphabet.MustRune('W'), Position: alphabet.MustRune('R')},
			},
			Reflector: "C",
			Plugboard: "ER SA TZ",
		},
		Console: ConsoleConfig{
			GroupSize:   5,
			WatchConfig: true,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "journal.db"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			FilePath:   filepath.Join(dir, "enigma.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
// Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories for the journal and log file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Journal.Path),
		filepath.Dir(c.Logging.FilePath),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with ENIGMA_.
//
//	ENIGMA_ROTORS     rotor models, left to right, e.g. "I,II,III"
//	ENIGMA_RINGS      ring settings, e.g. "AAA"
//	ENIGMA_POSITIONS  start positions, e.g. "AAA"
//	ENIGMA_REFLECTOR  reflector name
//	ENIGMA_PLUGBOARD  cable pairs, e.g. "AB CD"
//	ENIGMA_LOG_LEVEL  log level
//	ENIGMA_JOURNAL_PATH journal database path
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("ENIGMA_ROTORS"); v != "" {
		models := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
		rotors := make([]RotorConfig, len(models))
		for i, m := range models {
			rotors[i].Model = m
			if len(c.Machine.Rotors) == len(models) {
				rotors[i].Ring = c.Machine.Rotors[i].Ring
				rotors[i].Position = c.Machine.Rotors[i].Position
			}
		}
		c.Machine.Rotors = rotors
	}
	if v := os.Getenv("ENIGMA_RINGS"); v != "" {
		if err := c.setRotorLetters("ENIGMA_RINGS", v, func(r *RotorConfig, l alphabet.Letter) { r.Ring = l }); err != nil {
			return err
		}
	}
	if v := os.Getenv("ENIGMA_POSITIONS"); v != "" {
		if err := c.setRotorLetters("ENIGMA_POSITIONS", v, func(r *RotorConfig, l alphabet.Letter) { r.Position = l }); err != nil {
			return err
		}
	}
	if v := os.Getenv("ENIGMA_REFLECTOR"); v != "" {
		c.Machine.Reflector = v
	}
	if v, ok := os.LookupEnv("ENIGMA_PLUGBOARD"); ok {
		c.Machine.Plugboard = v
	}

	if v := os.Getenv("ENIGMA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ENIGMA_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
	}

	return nil
}

func (c *Config) setRotorLetters(env, v string, set func(*RotorConfig, alphabet.Letter)) error {
	letters, err := alphabet.ParseLetters(strings.ToUpper(strings.TrimSpace(v)))
	if err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	if len(letters) != len(c.Machine.Rotors) {
		return fmt.Errorf("%s: %d letters for %d rotors", env, len(letters), len(c.Machine.Rotors))
	}
	for i, l := range letters {
		set(&c.Machine.Rotors[i], l)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Machine.Rotors = append([]RotorConfig(nil), c.Machine.Rotors...)
	return &clone
}

// Models returns the rotor model names, left to right.
func (m MachineConfig) Models() []string {
	names := make([]string, len(m.Rotors))
	for i, r := range m.Rotors {
		names[i] = r.Model
	}
	return names
}

// Rings returns the ring settings as a string such as "GEW".
func (m MachineConfig) Rings() string {
	letters := make([]alphabet.Letter, len(m.Rotors))
	for i, r := range m.Rotors {
		letters[i] = r.Ring
	}
	return alphabet.Join(letters)
}

// Positions returns the start positions as a string such as "EHR".
func (m MachineConfig) Positions() string {
	letters := make([]alphabet.Letter, len(m.Rotors))
	for i, r := range m.Rotors {
		letters[i] = r.Position
	}
	return alphabet.Join(letters)
}

// encodeTOML is shared by Save and the CLI's config show.
func encodeTOML(cfg *Config) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# enigma key sheet\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
