// Package dependency wires core toogle services using go.uber.org/dig.
package dependency

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/crystaldolphin/toogle/internal/calendar"
	"github.com/crystaldolphin/toogle/internal/config"
	"github.com/crystaldolphin/toogle/internal/mcp"
	"github.com/crystaldolphin/toogle/internal/notes"
	"github.com/crystaldolphin/toogle/internal/schema"
	"github.com/crystaldolphin/toogle/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	notes    *notes.CLI
	calendar *calendar.Client
	registry *tools.Registry
	server   *mcp.Server
	gatherer prometheus.Gatherer
}

func (c *Container) Notes() *notes.CLI          { return c.notes }
func (c *Container) Calendar() *calendar.Client { return c.calendar }
func (c *Container) Registry() *tools.Registry  { return c.registry }
func (c *Container) Server() *mcp.Server        { return c.server }

// MetricsHandler serves the process and tool metrics in Prometheus format.
func (c *Container) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ServerVersion is a named string type so dig can distinguish the version
// reported in serverInfo from plain strings.
type ServerVersion string

// New builds and wires all core services from cfg. A nil logger means
// slog.Default().
func New(cfg *config.Config, logger *slog.Logger, version string) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *slog.Logger { return logger }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() ServerVersion { return ServerVersion(version) }); err != nil {
		return nil, err
	}
	if err := d.Provide(newMetricsRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolMetrics); err != nil {
		return nil, err
	}
	if err := d.Provide(newNotesCLI); err != nil {
		return nil, err
	}
	if err := d.Provide(newCalendarClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		n *notes.CLI,
		cal *calendar.Client,
		reg *tools.Registry,
		srv *mcp.Server,
		promReg *prometheus.Registry,
	) {
		result = &Container{
			notes:    n,
			calendar: cal,
			registry: reg,
			server:   srv,
			gatherer: promReg,
		}
	})
	return result, err
}

// newMetricsRegistry uses a private registry so repeated wiring (tests, the
// call command) never collides with the global one.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newToolMetrics(reg *prometheus.Registry) (*tools.Metrics, error) {
	return tools.NewMetrics(reg)
}

func newNotesCLI(cfg *config.Config) *notes.CLI {
	return notes.NewCLI(notes.Options{
		Command:  cfg.Notes.Command,
		Args:     cfg.Notes.Args,
		WorkDir:  config.ExpandHome(cfg.Notes.WorkDir),
		Env:      cfg.Notes.Env,
		Timeout:  cfg.Notes.Timeout(),
		MaxChars: cfg.Notes.MaxOutputChars,
	})
}

func newCalendarClient(cfg *config.Config, logger *slog.Logger) *calendar.Client {
	c := cfg.Calendar
	client := calendar.New(calendar.Options{
		BaseURL:    c.BaseURL,
		CalendarID: c.CalendarID,
		TimeZone:   c.TimeZone,
		Timeout:    c.Timeout(),
		Credentials: calendar.Credentials{
			AccessToken:     c.AccessToken,
			ClientID:        c.ClientID,
			ClientSecret:    c.ClientSecret,
			RefreshToken:    c.RefreshToken,
			CredentialsFile: config.ExpandHome(c.CredentialsFile),
			TokenFile:       config.ExpandHome(c.TokenFile),
		},
	})
	if err := client.Configured(); err != nil {
		logger.Warn("calendar tools unavailable", "error", err)
	}
	return client
}

func newRegistry(n *notes.CLI, cal *calendar.Client, m *tools.Metrics, logger *slog.Logger) (*tools.Registry, error) {
	var (
		ns schema.NotesService    = n
		cs schema.CalendarService = cal
	)
	return tools.NewRegistryBuilder().
		WithLogger(logger).
		WithMetrics(m).
		WithTools(tools.Builtin(ns, cs)...).
		Build()
}

func newServer(reg *tools.Registry, logger *slog.Logger, v ServerVersion) *mcp.Server {
	return mcp.NewServer(mcp.Config{
		Dispatcher: reg,
		Logger:     logger,
		Name:       "toogle",
		Version:    string(v),
	})
}
