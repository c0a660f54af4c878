// Package config defines the configuration schema for toogle.
//
// JSON keys use camelCase. YAML and TOML files use the same key names.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NotesConfig configures the notes workspace CLI.
type NotesConfig struct {
	Command        string            `json:"command" yaml:"command" toml:"command"`
	Args           []string          `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	WorkDir        string            `json:"workDir,omitempty" yaml:"workDir,omitempty" toml:"workDir,omitempty"`
	Env            map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	TimeoutSeconds int               `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"`
	MaxOutputChars int               `json:"maxOutputChars" yaml:"maxOutputChars" toml:"maxOutputChars"`
}

func defaultNotesConfig() NotesConfig {
	return NotesConfig{
		Command:        "supertag",
		TimeoutSeconds: 30,
		MaxOutputChars: 50000,
	}
}

// Timeout returns the CLI timeout as a duration.
func (n NotesConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// CalendarConfig configures the Google Calendar client and its credentials.
type CalendarConfig struct {
	BaseURL         string `json:"baseUrl" yaml:"baseUrl" toml:"baseUrl"`
	CalendarID      string `json:"calendarId" yaml:"calendarId" toml:"calendarId"`
	TimeZone        string `json:"timeZone" yaml:"timeZone" toml:"timeZone"`
	TimeoutSeconds  int    `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"`
	AccessToken     string `json:"accessToken,omitempty" yaml:"accessToken,omitempty" toml:"accessToken,omitempty"`
	ClientID        string `json:"clientId,omitempty" yaml:"clientId,omitempty" toml:"clientId,omitempty"`
	ClientSecret    string `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty" toml:"clientSecret,omitempty"`
	RefreshToken    string `json:"refreshToken,omitempty" yaml:"refreshToken,omitempty" toml:"refreshToken,omitempty"`
	CredentialsFile string `json:"credentialsFile,omitempty" yaml:"credentialsFile,omitempty" toml:"credentialsFile,omitempty"`
	TokenFile       string `json:"tokenFile,omitempty" yaml:"tokenFile,omitempty" toml:"tokenFile,omitempty"`
}

func defaultCalendarConfig() CalendarConfig {
	return CalendarConfig{
		BaseURL:        "https://www.googleapis.com/calendar/v3",
		CalendarID:     "primary",
		TimeZone:       "UTC",
		TimeoutSeconds: 15,
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c CalendarConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the protocol transports.
type ServerConfig struct {
	Stdio bool `json:"stdio" yaml:"stdio" toml:"stdio"`
	// HTTPAddr enables the HTTP transport when non-empty.
	HTTPAddr string `json:"httpAddr,omitempty" yaml:"httpAddr,omitempty" toml:"httpAddr,omitempty"`
	// Token is the bearer token required on /mcp routes.
	Token string `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{Stdio: true}
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level string `json:"level" yaml:"level" toml:"level"` // debug, info, warn, error
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the root configuration object.
type Config struct {
	Notes    NotesConfig    `json:"notes" yaml:"notes" toml:"notes"`
	Calendar CalendarConfig `json:"calendar" yaml:"calendar" toml:"calendar"`
	Server   ServerConfig   `json:"server" yaml:"server" toml:"server"`
	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Notes:    defaultNotesConfig(),
		Calendar: defaultCalendarConfig(),
		Server:   defaultServerConfig(),
		Log:      LogConfig{Level: "info"},
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
