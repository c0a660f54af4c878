package tools

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/crystaldolphin/toogle/internal/schema"
)

// Handler executes one call of a tool. args has already been checked against the
// tool's argument schema. A returned error is reported as a tool fault.
type Handler func(ctx context.Context, args map[string]any) (schema.ToolResponse, error)

// Tool pairs an advertised descriptor with the handler that implements it.
type Tool struct {
	Descriptor schema.ToolDescriptor
	Handler    Handler
}

// Registry is the immutable set of tools served for the lifetime of the process.
// It holds no per-call state, so CallTool is safe for concurrent use.
type Registry struct {
	tools   []Tool
	index   map[string]int
	logger  *slog.Logger
	metrics *Metrics
}

// ListTools returns a copy of the tool descriptors in registration order.
func (r *Registry) ListTools() []schema.ToolDescriptor {
	out := make([]schema.ToolDescriptor, len(r.tools))
	for i, t := range r.tools {
		d := t.Descriptor
		d.InputSchema.Fields = slices.Clone(d.InputSchema.Fields)
		out[i] = d
	}
	return out
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// CallTool validates and routes req and always returns a well-formed response.
// Argument presence is checked before the name is routed.
func (r *Registry) CallTool(ctx context.Context, req schema.ToolCallRequest) (resp schema.ToolResponse) {
	if req.Arguments == nil {
		return schema.ErrorResponsef("Missing arguments for tool: %s", req.Name)
	}

	tool, ok := r.Get(req.Name)
	if !ok {
		return schema.ErrorResponsef("Unknown tool: %s", req.Name)
	}

	requestID := uuid.New().String()
	start := time.Now()
	r.logger.Debug("tools/call", "tool_name", req.Name, "request_id", requestID)

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool_name", req.Name, "request_id", requestID, "panic", p)
			resp = schema.ErrorResponsef("Tool error: %v", p)
		}
		elapsed := time.Since(start)
		r.metrics.observe(req.Name, resp.IsError, elapsed)
		r.logger.Debug("tools/call complete",
			"tool_name", req.Name,
			"request_id", requestID,
			"duration", elapsed,
			"is_error", resp.IsError,
		)
	}()

	if err := tool.Descriptor.InputSchema.Validate(req.Arguments); err != nil {
		return schema.ErrorResponsef("Invalid arguments for tool %s: %v", req.Name, err)
	}

	out, err := tool.Handler(ctx, req.Arguments)
	if err != nil {
		r.logger.Warn("tool execution failed", "tool_name", req.Name, "request_id", requestID, "error", err)
		return schema.ErrorResponsef("Tool error: %v", err)
	}
	return out
}
