// Package schema contains the data model shared across toogle packages:
// tool descriptors, the call/response envelope and the collaborator contracts.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the primitive type tag of a tool argument.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Field describes one property of a tool's argument object.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
}

// ArgumentSchema is the structural description of a tool's argument object.
// Field order is preserved when rendered as JSON Schema.
type ArgumentSchema struct {
	Fields []Field
}

// Required returns the names of the required fields in declaration order.
func (s ArgumentSchema) Required() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field returns the field with the given name.
func (s ArgumentSchema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks that every required field is present and that every declared
// field that is present has the declared type. Undeclared fields are ignored.
func (s ArgumentSchema) Validate(args map[string]any) error {
	var problems []string
	for _, f := range s.Fields {
		v, ok := args[f.Name]
		if !ok || v == nil {
			if f.Required {
				problems = append(problems, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		if !f.Type.accepts(v) {
			problems = append(problems, fmt.Sprintf("%s must be a %s", f.Name, f.Type))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func (t FieldType) accepts(v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		switch v.(type) {
		case float64, float32, int, int32, int64, json.Number:
			return true
		}
	}
	return false
}

// MarshalJSON renders the schema as a JSON Schema object.
func (s ArgumentSchema) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteString(`{"type":"object","properties":{`)
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		prop, err := json.Marshal(struct {
			Type        FieldType `json:"type"`
			Description string    `json:"description,omitempty"`
		}{f.Type, f.Description})
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(prop)
	}
	b.WriteByte('}')
	if req := s.Required(); len(req) > 0 {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		b.WriteString(`,"required":`)
		b.Write(data)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// ToolDescriptor is the static metadata advertised for a tool.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema ArgumentSchema `json:"inputSchema"`
}
