package schema

import "context"

// NoteQuery holds the parameters of a notes workspace search.
type NoteQuery struct {
	Query    string
	Tag      string
	Semantic bool
}

// NotesService searches and reads notes in the notes workspace.
// A failed Result is a problem the backend reported; a non-nil error means the
// backend could not be reached at all.
type NotesService interface {
	Search(ctx context.Context, q NoteQuery) (Result, error)
	Show(ctx context.Context, nodeID string) (Result, error)
}

// Event is a calendar event as reported back to callers.
type Event struct {
	Summary string `json:"summary"`
	Start   string `json:"start"`
}

// NewEvent is the input for creating a calendar event. Times are ISO 8601.
type NewEvent struct {
	Summary     string
	StartTime   string
	EndTime     string
	Description string
}

// CalendarService lists and creates calendar events.
type CalendarService interface {
	ListEvents(ctx context.Context, maxResults int) ([]Event, error)
	AddEvent(ctx context.Context, ev NewEvent) (Event, error)
}
