package tools

import (
	"fmt"
	"log/slog"
)

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools   []Tool
	logger  *slog.Logger
	metrics *Metrics
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithLogger sets the logger used for call tracing. Defaults to slog.Default().
func (b *RegistryBuilder) WithLogger(l *slog.Logger) *RegistryBuilder {
	b.logger = l
	return b
}

// WithMetrics records every dispatched call in m.
func (b *RegistryBuilder) WithMetrics(m *Metrics) *RegistryBuilder {
	b.metrics = m
	return b
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool Tool) *RegistryBuilder {
	b.tools = append(b.tools, tool)
	return b
}

// WithTools adds several tools in order.
func (b *RegistryBuilder) WithTools(tools ...Tool) *RegistryBuilder {
	b.tools = append(b.tools, tools...)
	return b
}

// Build produces an immutable Registry from the accumulated tools.
// Tool names must be unique and non-empty, and every tool needs a handler.
func (b *RegistryBuilder) Build() (*Registry, error) {
	tools := make([]Tool, 0, len(b.tools))
	index := make(map[string]int, len(b.tools))
	for _, t := range b.tools {
		name := t.Descriptor.Name
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", name)
		}
		index[name] = len(tools)
		tools = append(tools, t)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{tools: tools, index: index, logger: logger, metrics: b.metrics}, nil
}
