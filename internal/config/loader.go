package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigPath returns the default configuration file path: ~/.toogle/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the toogle data directory: ~/.toogle.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toogle"
	}
	return filepath.Join(home, ".toogle")
}

// Load reads and parses the config file at path, then applies environment
// overrides. If path is empty, ConfigPath() is used. The format follows the
// extension: .yaml/.yml for YAML, .toml for TOML, anything else JSON.
// On parse failure it prints a warning to stderr and uses DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := unmarshal(path, data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config %s: %v\n", path, err)
			fmt.Fprintln(os.Stderr, "Using default configuration.")
			cfg = DefaultConfig()
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	return &cfg, nil
}

// Save writes cfg to path in the format chosen by its extension (see Load).
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch format(path) {
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
	formatTOML
)

func format(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	}
	return formatJSON
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch format(path) {
	case formatYAML:
		return yaml.Unmarshal(data, cfg)
	case formatTOML:
		return toml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

// applyEnv overlays non-empty environment variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"TOOGLE_NOTES_COMMAND", &cfg.Notes.Command},
		{"TOOGLE_CALENDAR_ID", &cfg.Calendar.CalendarID},
		{"GOOGLE_CALENDAR_ACCESS_TOKEN", &cfg.Calendar.AccessToken},
		{"GOOGLE_CLIENT_ID", &cfg.Calendar.ClientID},
		{"GOOGLE_CLIENT_SECRET", &cfg.Calendar.ClientSecret},
		{"GOOGLE_REFRESH_TOKEN", &cfg.Calendar.RefreshToken},
		{"TOOGLE_HTTP_TOKEN", &cfg.Server.Token},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.target = v
		}
	}
}
