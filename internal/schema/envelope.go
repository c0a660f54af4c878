package schema

import (
	"fmt"
	"strings"
)

// ContentText is the only content block kind toogle produces.
const ContentText = "text"

// ContentBlock is a single piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResponse is the uniform envelope every tool call is normalized into.
type ToolResponse struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// Text returns the concatenated text of all content blocks.
func (r ToolResponse) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// TextResponse returns a successful single-block response.
func TextResponse(text string) ToolResponse {
	return ToolResponse{Content: []ContentBlock{{Type: ContentText, Text: text}}}
}

// ErrorResponse returns a single-block response flagged as an error.
func ErrorResponse(text string) ToolResponse {
	return ToolResponse{Content: []ContentBlock{{Type: ContentText, Text: text}}, IsError: true}
}

// ErrorResponsef is ErrorResponse with fmt formatting.
func ErrorResponsef(format string, args ...any) ToolResponse {
	return ErrorResponse(fmt.Sprintf(format, args...))
}

// ToolCallRequest is one invocation of a named tool. Arguments is nil when the
// caller did not supply an argument object at all.
type ToolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}
