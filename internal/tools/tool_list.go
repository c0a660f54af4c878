package tools

import (
	"github.com/crystaldolphin/toogle/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolSearchNotes ToolName = "search-notes"
	ToolShowNote    ToolName = "show-note"
	ToolListEvents  ToolName = "list-events"
	ToolAddEvent    ToolName = "add-event"
)

// defaultMaxResults is used by list-events when maxResults is absent.
const defaultMaxResults = 10

// maxListResults is the largest page the Calendar API accepts.
const maxListResults = 2500

var (
	searchNotesDescriptor = schema.ToolDescriptor{
		Name:        string(ToolSearchNotes),
		Description: "Search the notes workspace for notes, projects, goals, etc. Uses fast structural search by default.",
		InputSchema: schema.ArgumentSchema{Fields: []schema.Field{
			{Name: "query", Type: schema.TypeString, Description: "The search query", Required: true},
			{Name: "tag", Type: schema.TypeString, Description: "Optional: Filter by supertag"},
			{Name: "semantic", Type: schema.TypeBoolean, Description: "Optional: Use semantic search (requires a local embedding backend)"},
		}},
	}

	showNoteDescriptor = schema.ToolDescriptor{
		Name:        string(ToolShowNote),
		Description: "Get the full details of a specific note by its node ID",
		InputSchema: schema.ArgumentSchema{Fields: []schema.Field{
			{Name: "nodeId", Type: schema.TypeString, Description: "The node ID (e.g., CAR6WhL8Es8E)", Required: true},
		}},
	}

	listEventsDescriptor = schema.ToolDescriptor{
		Name:        string(ToolListEvents),
		Description: "List upcoming calendar events",
		InputSchema: schema.ArgumentSchema{Fields: []schema.Field{
			{Name: "maxResults", Type: schema.TypeNumber, Description: "Maximum number of events to return (default: 10)"},
		}},
	}

	addEventDescriptor = schema.ToolDescriptor{
		Name:        string(ToolAddEvent),
		Description: "Add a new event to the calendar",
		InputSchema: schema.ArgumentSchema{Fields: []schema.Field{
			{Name: "summary", Type: schema.TypeString, Description: "Event title", Required: true},
			{Name: "startTime", Type: schema.TypeString, Description: "Start time in ISO 8601 format (e.g., 2026-01-22T10:00:00)", Required: true},
			{Name: "endTime", Type: schema.TypeString, Description: "End time in ISO 8601 format", Required: true},
			{Name: "description", Type: schema.TypeString, Description: "Optional event description"},
		}},
	}
)

// Descriptors returns the advertised tool table in its stable order.
func Descriptors() []schema.ToolDescriptor {
	return []schema.ToolDescriptor{
		searchNotesDescriptor,
		showNoteDescriptor,
		listEventsDescriptor,
		addEventDescriptor,
	}
}

// Builtin binds every advertised tool to its handler. The order matches Descriptors.
func Builtin(notes schema.NotesService, calendar schema.CalendarService) []Tool {
	h := &handlers{notes: notes, calendar: calendar}
	return []Tool{
		{Descriptor: searchNotesDescriptor, Handler: h.searchNotes},
		{Descriptor: showNoteDescriptor, Handler: h.showNote},
		{Descriptor: listEventsDescriptor, Handler: h.listEvents},
		{Descriptor: addEventDescriptor, Handler: h.addEvent},
	}
}
