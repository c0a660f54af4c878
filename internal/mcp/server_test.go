package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toogle/internal/schema"
	"github.com/crystaldolphin/toogle/internal/tools"
)

var echoDescriptor = schema.ToolDescriptor{
	Name:        "echo",
	Description: "Echo the message back",
	InputSchema: schema.ArgumentSchema{Fields: []schema.Field{
		{Name: "message", Type: schema.TypeString, Description: "Text to echo", Required: true},
	}},
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := tools.NewRegistryBuilder().
		WithLogger(discardLogger()).
		WithTool(tools.Tool{
			Descriptor: echoDescriptor,
			Handler: func(_ context.Context, args map[string]any) (schema.ToolResponse, error) {
				return schema.TextResponse(args["message"].(string)), nil
			},
		}).
		Build()
	require.NoError(t, err)
	return NewServer(Config{Dispatcher: reg, Logger: discardLogger(), Version: "test"})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decode round-trips a response through JSON so assertions see wire values.
func decode(t *testing.T, resp *Response) map[string]any {
	t.Helper()
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHandleMessage_Initialize(t *testing.T) {
	s := newTestServer(t)

	out := decode(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
	assert.Equal(t, float64(1), out["id"])
	result := out["result"].(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	assert.Equal(t, map[string]any{"tools": map[string]any{}}, result["capabilities"])
	assert.Equal(t, map[string]any{"name": "toogle", "version": "test"}, result["serverInfo"])
}

func TestHandleMessage_Ping(t *testing.T) {
	s := newTestServer(t)

	out := decode(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":"abc","method":"ping"}`)))
	assert.Equal(t, "abc", out["id"])
	assert.Equal(t, map[string]any{}, out["result"])
}

func TestHandleMessage_ToolsList(t *testing.T) {
	s := newTestServer(t)

	out := decode(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))
	toolList := out["result"].(map[string]any)["tools"].([]any)
	require.Len(t, toolList, 1)
	tool := toolList[0].(map[string]any)
	assert.Equal(t, "echo", tool["name"])
	assert.Equal(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string", "description": "Text to echo"},
		},
		"required": []any{"message"},
	}, tool["inputSchema"])
}

func TestHandleMessage_ToolsCall(t *testing.T) {
	s := newTestServer(t)

	out := decode(t, s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)))
	assert.Equal(t, map[string]any{
		"content": []any{map[string]any{"type": "text", "text": "hi"}},
	}, out["result"])
}

func TestHandleMessage_ToolsCallErrorsStayInResult(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		`{"name":"echo"}`:                           "Missing arguments for tool: echo",
		`{"name":"echo","arguments":null}`:          "Missing arguments for tool: echo",
		`{"name":"nope","arguments":{}}`:            "Unknown tool: nope",
		`{"name":"echo","arguments":{}}`:            "Invalid arguments for tool echo: message is required",
		`{"name":"echo","arguments":{"message":1}}`: "Invalid arguments for tool echo: message must be a string",
	}
	for params, want := range cases {
		t.Run(params, func(t *testing.T) {
			msg := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":` + params + `}`
			out := decode(t, s.HandleMessage(context.Background(), []byte(msg)))
			assert.Nil(t, out["error"])
			result := out["result"].(map[string]any)
			assert.Equal(t, true, result["isError"])
			assert.Equal(t, want, result["content"].([]any)[0].(map[string]any)["text"])
		})
	}
}

func TestHandleMessage_ProtocolErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		msg      string
		wantCode float64
		wantID   any
	}{
		{"parse error", `{not json`, CodeParseError, nil},
		{"bad version", `{"jsonrpc":"1.0","id":5,"method":"ping"}`, CodeInvalidRequest, float64(5)},
		{"unknown method", `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`, CodeMethodNotFound, float64(6)},
		{"missing params", `{"jsonrpc":"2.0","id":7,"method":"tools/call"}`, CodeInvalidParams, float64(7)},
		{"arguments not object", `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"echo","arguments":[1]}}`, CodeInvalidParams, float64(8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := decode(t, s.HandleMessage(context.Background(), []byte(tt.msg)))
			assert.Contains(t, out, "id")
			assert.Equal(t, tt.wantID, out["id"])
			assert.Equal(t, tt.wantCode, out["error"].(map[string]any)["code"])
		})
	}
}

func TestHandleMessage_Notifications(t *testing.T) {
	s := newTestServer(t)

	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list"}`)))
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":9,"method":"notifications/cancelled"}`)))
}

func TestServe_Session(t *testing.T) {
	s := newTestServer(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"<b>&</b>"}}}`,
		`garbage`,
	}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, s.Serve(context.Background(), strings.NewReader(in), &out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"protocolVersion":"2024-11-05"`)
	assert.Equal(t, `{"jsonrpc":"2.0","id":2,"result":{"content":[{"type":"text","text":"<b>&</b>"}]}}`, lines[1])
	assert.Contains(t, lines[2], `"id":null`)
	assert.Contains(t, lines[2], `"code":-32700`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

// blockingDispatcher holds every call open until its context is cancelled.
type blockingDispatcher struct {
	started chan struct{}
}

func (d *blockingDispatcher) ListTools() []schema.ToolDescriptor { return nil }

func (d *blockingDispatcher) CallTool(ctx context.Context, _ schema.ToolCallRequest) schema.ToolResponse {
	select {
	case d.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return schema.ErrorResponse("cancelled")
}

func TestServe_StopsOnCancelWithQueuedLines(t *testing.T) {
	call := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{}}}` + "\n"
	in := strings.Repeat(call, 3)

	for i := 0; i < 50; i++ {
		d := &blockingDispatcher{started: make(chan struct{}, 1)}
		s := NewServer(Config{Dispatcher: d, Logger: discardLogger()})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Serve(ctx, strings.NewReader(in), io.Discard) }()

		select {
		case <-d.started:
		case <-time.After(2 * time.Second):
			cancel()
			t.Fatal("first call never started")
		}
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("Serve did not return after cancel (run %d)", i)
		}
	}
}

func TestServe_LineTooLong(t *testing.T) {
	s := newTestServer(t)
	in := strings.Repeat("x", maxLineSize+1) + "\n"

	err := s.Serve(context.Background(), strings.NewReader(in), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read stdin")
}
