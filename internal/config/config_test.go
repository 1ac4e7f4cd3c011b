package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every path default at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENIGMA_DATA_DIR", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{
		"ENIGMA_ROTORS", "ENIGMA_RINGS", "ENIGMA_POSITIONS", "ENIGMA_REFLECTOR",
		"ENIGMA_LOG_LEVEL", "ENIGMA_JOURNAL_PATH",
	} {
		t.Setenv(env, "")
	}
	t.Setenv("ENIGMA_PLUGBOARD", "")
	os.Unsetenv("ENIGMA_PLUGBOARD")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"III", "II", "IV"}, cfg.Machine.Models())
	assert.Equal(t, "GEW", cfg.Machine.Rings())
	assert.Equal(t, "EHR", cfg.Machine.Positions())
	assert.Equal(t, "C", cfg.Machine.Reflector)
	assert.Equal(t, "ER SA TZ", cfg.Machine.Plugboard)
	assert.Equal(t, 5, cfg.Console.GroupSize)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal.Path)
	assert.Equal(t, filepath.Join(dir, "enigma.log"), cfg.Logging.FilePath)
}

func TestDefaultMachine(t *testing.T) {
	isolate(t)

	m, err := DefaultConfig().BuildMachine()
	require.NoError(t, err)

	out, err := m.Encode("HELLOWORLD")
	require.NoError(t, err)
	assert.Equal(t, "PYHXSCWKCI", out)
	assert.Equal(t, "EHB", m.SettingsString())
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)
	path := ConfigPath()
	assert.True(t, strings.HasSuffix(path, "config.toml"), path)
	if strings.HasPrefix(path, dir) {
		assert.Equal(t, filepath.Join(dir, "enigma", "config.toml"), path)
	}
}

func TestLoadNonexistent(t *testing.T) {
	isolate(t)

	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `
version = 1

[machine]
reflector = "B"
plugboard = "AB CD"

[[machine.rotors]]
model = "I"
ring = "A"
position = "A"

[[machine.rotors]]
model = "II"
ring = "B"
position = "D"

[[machine.rotors]]
model = "III"
position = "U"

[console]
group_size = 4
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "version": 1,
  "machine": {
    "reflector": "B",
    "plugboard": "AB CD",
    "rotors": [
      {"model": "I", "ring": "A", "position": "A"},
      {"model": "II", "ring": "B", "position": "D"},
      {"model": "III", "position": "U"}
    ]
  },
  "console": {"group_size": 4}
}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
version: 1
machine:
  reflector: B
  plugboard: AB CD
  rotors:
    - {model: I, ring: A, position: A}
    - {model: II, ring: B, position: D}
    - {model: III, position: U}
console:
  group_size: 4
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			cfg, err := Load(path)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, []string{"I", "II", "III"}, cfg.Machine.Models())
			assert.Equal(t, "ABA", cfg.Machine.Rings())
			assert.Equal(t, "ADU", cfg.Machine.Positions())
			assert.Equal(t, "B", cfg.Machine.Reflector)
			assert.Equal(t, "AB CD", cfg.Machine.Plugboard)
			assert.Equal(t, 4, cfg.Console.GroupSize)

			// Sections absent from the file keep their defaults.
			assert.Equal(t, DefaultConfig().Logging, cfg.Logging)
			assert.Equal(t, DefaultConfig().Journal, cfg.Journal)
		})
	}
}

func TestLoadPartialKeepsDefaultRotors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[machine]\nreflector = \"A\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "A", cfg.Machine.Reflector)
	assert.Equal(t, DefaultConfig().Machine.Rotors, cfg.Machine.Rotors)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		schema  bool
	}{
		{name: "bad toml", file: "config.toml", content: "this is not valid toml {{{"},
		{name: "bad letter", file: "config.toml", content: "[[machine.rotors]]\nmodel = \"I\"\nring = \"AB\"\n"},
		{name: "bad yaml", file: "config.yaml", content: "machine: [unterminated"},
		{name: "unknown json field", file: "config.json", content: `{"machine": {"rotor_order": "I II III"}}`, schema: true},
		{name: "lowercase json ring", file: "config.json", content: `{"machine": {"rotors": [{"model": "I", "ring": "a"}, {"model": "II"}, {"model": "III"}]}}`, schema: true},
		{name: "two json rotors", file: "config.json", content: `{"machine": {"rotors": [{"model": "I"}, {"model": "II"}]}}`, schema: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, tc.schema, errors.Is(err, ErrSchema), err.Error())
		})
	}
}

func TestValidateJSONAcceptsDefaults(t *testing.T) {
	isolate(t)
	data, err := Encode(DefaultConfig(), ".json")
	require.NoError(t, err)
	assert.NoError(t, ValidateJSON(data))
}

func TestValidateErrors(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Version = 0
	cfg.Machine.Rotors = cfg.Machine.Rotors[:2]
	cfg.Machine.Rotors[0].Model = "VI"
	cfg.Machine.Reflector = "D"
	cfg.Machine.Plugboard = "AB AC"
	cfg.Console.GroupSize = 99
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{
		"version",
		"machine.rotors",
		"machine.rotors[0].model",
		"machine.reflector",
		"machine.plugboard",
		"console.group_size",
		"logging.level",
	}, verrs.Fields())
	assert.Contains(t, err.Error(), "config: machine.plugboard: plugboard: 'A' already wired to the board")
}

func TestValidateLoggingOutput(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""
	var verrs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &verrs)
	assert.Equal(t, []string{"logging.file_path"}, verrs.Fields())

	cfg.Logging.Output = "syslog"
	require.ErrorAs(t, cfg.Validate(), &verrs)
	assert.Equal(t, []string{"logging.output"}, verrs.Fields())
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ENIGMA_ROTORS", "I,II,III")
	t.Setenv("ENIGMA_RINGS", "abc")
	t.Setenv("ENIGMA_POSITIONS", "XYZ")
	t.Setenv("ENIGMA_REFLECTOR", "B")
	t.Setenv("ENIGMA_PLUGBOARD", "")
	t.Setenv("ENIGMA_LOG_LEVEL", "debug")
	t.Setenv("ENIGMA_JOURNAL_PATH", "/tmp/journal.db")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, []string{"I", "II", "III"}, cfg.Machine.Models())
	assert.Equal(t, "ABC", cfg.Machine.Rings())
	assert.Equal(t, "XYZ", cfg.Machine.Positions())
	assert.Equal(t, "B", cfg.Machine.Reflector)
	assert.Empty(t, cfg.Machine.Plugboard)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
}

func TestApplyEnvOverridesKeepsRingsForSameCount(t *testing.T) {
	isolate(t)
	t.Setenv("ENIGMA_ROTORS", "I II V")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, []string{"I", "II", "V"}, cfg.Machine.Models())
	assert.Equal(t, "GEW", cfg.Machine.Rings())
}

func TestApplyEnvOverridesRejectsBadLetters(t *testing.T) {
	isolate(t)

	t.Setenv("ENIGMA_RINGS", "AB")
	assert.Error(t, DefaultConfig().ApplyEnvOverrides())

	t.Setenv("ENIGMA_RINGS", "")
	t.Setenv("ENIGMA_POSITIONS", "A1C")
	assert.Error(t, DefaultConfig().ApplyEnvOverrides())
}

func TestSaveAndLoad(t *testing.T) {
	for _, ext := range []string{".toml", ".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "nested", "config"+ext)

			cfg := DefaultConfig()
			cfg.Machine.Plugboard = "AB YZ"
			cfg.Machine.Rotors[2].Position = cfg.Machine.Rotors[0].Ring
			require.NoError(t, SaveConfig(cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)

	again, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateValidatesOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	t.Setenv("ENIGMA_REFLECTOR", "Q")

	_, created, err := LoadOrCreate(path)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"machine.reflector"}, verrs.Fields())
	assert.False(t, created)
	assert.NoFileExists(t, path)

	t.Setenv("ENIGMA_REFLECTOR", "B")
	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "B", cfg.Machine.Reflector)

	// The file keeps the defaults; the override is not persisted.
	t.Setenv("ENIGMA_REFLECTOR", "")
	again, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "C", again.Machine.Reflector)
}

func TestLoadValidates(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[console]\ngroup_size = 99\n")

	_, err := Load(path)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"console.group_size"}, verrs.Fields())

	t.Setenv("ENIGMA_LOG_LEVEL", "loud")
	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"logging.level"}, verrs.Fields())
}

func TestEnsureDirectories(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Journal.Path = filepath.Join(dir, "a", "journal.db")
	cfg.Logging.FilePath = filepath.Join(dir, "b", "enigma.log")
	require.NoError(t, cfg.EnsureDirectories())

	assert.DirExists(t, filepath.Join(dir, "a"))
	assert.DirExists(t, filepath.Join(dir, "b"))
}

func TestClone(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Machine.Rotors[0].Model = "V"
	assert.Equal(t, "III", cfg.Machine.Rotors[0].Model)
}

func TestLoaderWatch(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	loader := NewLoader(path)
	defer loader.Close()

	_, err := loader.Load()
	require.NoError(t, err)

	changes := make(chan *Config, 4)
	others := make(chan *Config, 4)
	loader.OnChange(func(c *Config) {
		c.Machine.Rotors[0].Model = "V"
		changes <- c
	})
	loader.OnChange(func(c *Config) { others <- c })
	require.NoError(t, loader.Watch())

	updated := DefaultConfig()
	updated.Machine.Reflector = "B"
	require.NoError(t, SaveConfig(updated, path))

	select {
	case c := <-changes:
		assert.Equal(t, "B", c.Machine.Reflector)
		assert.Equal(t, "B", loader.Config().Machine.Reflector)

		// Every callback gets its own copy.
		other := <-others
		assert.Equal(t, "III", other.Machine.Rotors[0].Model)
		assert.Equal(t, "III", loader.Config().Machine.Rotors[0].Model)
	case err := <-loader.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestLoaderRejectsInvalidReload(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	loader := NewLoader(path)
	defer loader.Close()
	_, err := loader.Load()
	require.NoError(t, err)
	require.NoError(t, loader.Watch())

	writeFile(t, path, "[machine]\nreflector = \"Q\"\n")

	select {
	case err := <-loader.Errors():
		assert.Contains(t, err.Error(), "machine.reflector")
	case <-time.After(5 * time.Second):
		t.Fatal("no error after invalid config change")
	}
	assert.Equal(t, "C", loader.Config().Machine.Reflector)
}
