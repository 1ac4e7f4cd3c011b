package config

import (
	"fmt"
	"strings"

	"enigma/internal/plugboard"
	"enigma/internal/reflector"
	"enigma/internal/rotor"
)

// MaxGroupSize bounds the console's letter grouping.
const MaxGroupSize = 32

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields lists the offending field names, in order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, len(e))
	for i, err := range e {
		fields[i] = err.Field
	}
	return fields
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateMachine(&c.Machine)...)
	errs = append(errs, validateConsole(&c.Console)...)
	errs = append(errs, validateJournal(&c.Journal)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMachine(m *MachineConfig) ValidationErrors {
	var errs ValidationErrors

	if len(m.Rotors) != 3 {
		errs = append(errs, ValidationError{
			Field:   "machine.rotors",
			Message: fmt.Sprintf("exactly 3 rotors required, got %d", len(m.Rotors)),
		})
	}

	for i, r := range m.Rotors {
		field := fmt.Sprintf("machine.rotors[%d]", i)
		if _, err := rotor.Lookup(r.Model); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".model",
				Message: fmt.Sprintf("unknown rotor %q (valid: %s)", r.Model, strings.Join(rotor.Models(), ", ")),
			})
		}
		if !r.Ring.Valid() {
			errs = append(errs, ValidationError{Field: field + ".ring", Message: "must be a letter A-Z"})
		}
		if !r.Position.Valid() {
			errs = append(errs, ValidationError{Field: field + ".position", Message: "must be a letter A-Z"})
		}
	}

	if _, err := reflector.Lookup(m.Reflector); err != nil {
		errs = append(errs, ValidationError{
			Field:   "machine.reflector",
			Message: fmt.Sprintf("unknown reflector %q (valid: %s)", m.Reflector, strings.Join(reflector.Models(), ", ")),
		})
	}

	if _, err := plugboard.Parse(m.Plugboard); err != nil {
		errs = append(errs, ValidationError{
			Field:   "machine.plugboard",
			Message: err.Error(),
		})
	}

	return errs
}

func validateConsole(c *ConsoleConfig) ValidationErrors {
	var errs ValidationErrors

	if c.GroupSize < 0 || c.GroupSize > MaxGroupSize {
		errs = append(errs, ValidationError{
			Field:   "console.group_size",
			Message: fmt.Sprintf("must be between 0 and %d", MaxGroupSize),
		})
	}

	return errs
}

func validateJournal(j *JournalConfig) ValidationErrors {
	var errs ValidationErrors

	if j.Enabled && j.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "journal.path",
			Message: "path is required when the journal is enabled",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}

	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}

	return errs
}
