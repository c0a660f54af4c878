package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() ArgumentSchema {
	return ArgumentSchema{Fields: []Field{
		{Name: "query", Type: TypeString, Description: "The search query", Required: true},
		{Name: "limit", Type: TypeNumber},
		{Name: "semantic", Type: TypeBoolean},
	}}
}

func TestArgumentSchema_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(testSchema())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query"},
			"limit": {"type": "number"},
			"semantic": {"type": "boolean"}
		},
		"required": ["query"]
	}`, string(data))
}

func TestArgumentSchema_MarshalJSON_NoRequired(t *testing.T) {
	s := ArgumentSchema{Fields: []Field{{Name: "maxResults", Type: TypeNumber}}}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	_, hasRequired := decoded["required"]
	assert.False(t, hasRequired)
}

func TestArgumentSchema_Validate(t *testing.T) {
	s := testSchema()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{name: "valid", args: map[string]any{"query": "x", "limit": float64(3), "semantic": true}},
		{name: "extra fields ignored", args: map[string]any{"query": "x", "other": 1}},
		{name: "missing required", args: map[string]any{}, wantErr: "query is required"},
		{name: "null required", args: map[string]any{"query": nil}, wantErr: "query is required"},
		{name: "wrong type", args: map[string]any{"query": 42}, wantErr: "query must be a string"},
		{
			name:    "multiple problems",
			args:    map[string]any{"query": "x", "limit": "ten", "semantic": "yes"},
			wantErr: "limit must be a number; semantic must be a boolean",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate(tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestToolResponse_JSON(t *testing.T) {
	data, err := json.Marshal(TextResponse("ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}]}`, string(data))

	data, err = json.Marshal(ErrorResponsef("Unknown tool: %s", "nope"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"Unknown tool: nope"}],"isError":true}`, string(data))
}

func TestToolCallRequest_AbsentArguments(t *testing.T) {
	var absent ToolCallRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"show-note"}`), &absent))
	assert.Nil(t, absent.Arguments)

	var null ToolCallRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"show-note","arguments":null}`), &null))
	assert.Nil(t, null.Arguments)

	var empty ToolCallRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"show-note","arguments":{}}`), &empty))
	assert.NotNil(t, empty.Arguments)
	assert.Empty(t, empty.Arguments)
}

func TestResult(t *testing.T) {
	ok := Success("found")
	assert.False(t, ok.Failed())
	assert.Equal(t, "found", ok.Payload())

	bad := Failure("timeout")
	assert.True(t, bad.Failed())
	assert.Equal(t, "timeout", bad.Error())
	assert.Empty(t, bad.Payload())
}
