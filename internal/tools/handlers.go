package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/crystaldolphin/toogle/internal/schema"
)

// handlers adapts collaborator results to the response envelope.
type handlers struct {
	notes    schema.NotesService
	calendar schema.CalendarService
}

func (h *handlers) searchNotes(ctx context.Context, args map[string]any) (schema.ToolResponse, error) {
	res, err := h.notes.Search(ctx, schema.NoteQuery{
		Query:    stringArg(args, "query"),
		Tag:      stringArg(args, "tag"),
		Semantic: boolArg(args, "semantic"),
	})
	if err != nil {
		return schema.ToolResponse{}, err
	}
	return fromResult(res), nil
}

func (h *handlers) showNote(ctx context.Context, args map[string]any) (schema.ToolResponse, error) {
	res, err := h.notes.Show(ctx, stringArg(args, "nodeId"))
	if err != nil {
		return schema.ToolResponse{}, err
	}
	return fromResult(res), nil
}

func (h *handlers) listEvents(ctx context.Context, args map[string]any) (schema.ToolResponse, error) {
	events, err := h.calendar.ListEvents(ctx, intArg(args, "maxResults", defaultMaxResults, maxListResults))
	if err != nil {
		return schema.ToolResponse{}, err
	}
	return schema.TextResponse(formatEvents(events)), nil
}

func (h *handlers) addEvent(ctx context.Context, args map[string]any) (schema.ToolResponse, error) {
	ev, err := h.calendar.AddEvent(ctx, schema.NewEvent{
		Summary:     stringArg(args, "summary"),
		StartTime:   stringArg(args, "startTime"),
		EndTime:     stringArg(args, "endTime"),
		Description: stringArg(args, "description"),
	})
	if err != nil {
		return schema.ToolResponse{}, err
	}
	return schema.TextResponse(fmt.Sprintf("✓ Created event: \"%s\" at %s", ev.Summary, ev.Start)), nil
}

func fromResult(res schema.Result) schema.ToolResponse {
	if res.Failed() {
		return schema.ErrorResponsef("Error: %s", res.Error())
	}
	return schema.TextResponse(res.Payload())
}

func formatEvents(events []schema.Event) string {
	if len(events) == 0 {
		return "No upcoming events."
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("• %s - %s", e.Start, e.Summary))
	}
	return strings.Join(lines, "\n")
}
