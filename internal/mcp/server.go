package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/crystaldolphin/toogle/internal/schema"
)

const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 10 * 1024 * 1024
)

// Dispatcher is the tool surface the server exposes.
type Dispatcher interface {
	ListTools() []schema.ToolDescriptor
	CallTool(ctx context.Context, req schema.ToolCallRequest) schema.ToolResponse
}

// Config configures a Server.
type Config struct {
	Dispatcher Dispatcher
	Logger     *slog.Logger
	Name       string
	Version    string
}

// Server translates JSON-RPC messages into Dispatcher calls. It keeps no
// per-session state, so one Server can back several transports.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	info       serverInfo
}

// NewServer returns a Server for cfg.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := cfg.Name
	if name == "" {
		name = "toogle"
	}
	return &Server{
		dispatcher: cfg.Dispatcher,
		logger:     logger,
		info:       serverInfo{Name: name, Version: cfg.Version},
	}
}

// Serve reads one JSON-RPC message per line from r and writes one response per
// line to w, in order. It returns nil when r reaches EOF or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// readErr is always sent before lines is closed.
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, scanBufferSize), maxLineSize)
		for scanner.Scan() {
			line := bytes.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("mcp: stdio server stopping", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if ctx.Err() != nil {
					s.logger.Info("mcp: stdio server stopping", "reason", ctx.Err())
					return nil
				}
				s.logger.Debug("mcp: stdin closed")
				return nil
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			resp := s.HandleMessage(ctx, line)
			if resp == nil {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// HandleMessage processes one raw JSON-RPC message. It returns nil for
// notifications.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) *Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.logger.Warn("mcp: parse error", "error", err)
		return errorResponse(nil, CodeParseError, "Parse error: "+err.Error())
	}
	if req.JSONRPC != jsonRPCVersion {
		if req.IsNotification() {
			return nil
		}
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request: jsonrpc must be \"2.0\"")
	}

	if req.IsNotification() || strings.HasPrefix(req.Method, "notifications/") {
		s.logger.Debug("mcp: notification", "method", req.Method)
		return nil
	}

	s.logger.Debug("mcp: request", "method", req.Method)
	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      s.info,
		})

	case "ping":
		return resultResponse(req.ID, map[string]any{})

	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": s.dispatcher.ListTools()})

	case "tools/call":
		call, err := decodeCall(req.Params)
		if err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "Invalid params: "+err.Error())
		}
		return resultResponse(req.ID, s.dispatcher.CallTool(ctx, call))

	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found: "+req.Method)
	}
}

// decodeCall parses tools/call params. Absent or null arguments stay nil so
// the dispatcher can tell them apart from an empty object.
func decodeCall(params json.RawMessage) (schema.ToolCallRequest, error) {
	var call schema.ToolCallRequest
	if len(params) == 0 || string(params) == "null" {
		return call, fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return call, err
	}
	return call, nil
}
