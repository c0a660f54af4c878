package dependency

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toogle/internal/calendar"
	"github.com/crystaldolphin/toogle/internal/config"
	"github.com/crystaldolphin/toogle/internal/schema"
)

func TestNew_WiresRegistryAndServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notes.Command = "/bin/true"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := New(&cfg, logger, "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "/bin/true", c.Notes().Command())
	assert.Equal(t, "primary", c.Calendar().CalendarID())
	assert.ErrorIs(t, c.Calendar().Configured(), calendar.ErrNoCredentials)
	require.Equal(t, 4, c.Registry().Len())

	resp := c.Server().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

func TestNew_CalendarWithoutCredentialsIsToolError(t *testing.T) {
	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := New(&cfg, logger, "dev")
	require.NoError(t, err)

	resp := c.Registry().CallTool(context.Background(), schema.ToolCallRequest{
		Name:      "list-events",
		Arguments: map[string]any{},
	})
	assert.True(t, resp.IsError)
	assert.Equal(t, "Tool error: calendar credentials not configured", resp.Text())
}

func TestMetricsHandler_ExposesToolMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := New(&cfg, logger, "dev")
	require.NoError(t, err)

	c.Registry().CallTool(context.Background(), schema.ToolCallRequest{Name: "list-events", Arguments: map[string]any{}})

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `toogle_tool_calls_total{is_error="true",tool="list-events"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
