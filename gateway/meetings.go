package gateway

import (
	"context"

	"opsdash/airtable"
	"opsdash/models"
)

// O campo de participantes no backend se chama "Atendees"; bases antigas usam "Attendees".
const (
	attendeesField       = "Atendees"
	legacyAttendeesField = "Attendees"
)

// ListMeetings devolve as reuniões da mais recente para a mais antiga.
func (g *Gateway) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	recs, err := g.List(ctx, KindMeeting, airtable.SortField{Field: "Date", Direction: "desc"})
	if err != nil {
		return nil, err
	}
	meetings := make([]models.Meeting, 0, len(recs))
	for _, r := range recs {
		meetings = append(meetings, meetingFromRecord(r))
	}
	return meetings, nil
}

func meetingFromRecord(r airtable.Record) models.Meeting {
	attendees := r.Fields[attendeesField]
	if Text(attendees) == "" {
		attendees = r.Fields[legacyAttendeesField]
	}
	return models.Meeting{
		ID:          r.ID,
		Title:       Text(r.Fields["Title"]),
		Date:        Text(r.Fields["Date"]),
		Notes:       Text(r.Fields["Notes"]),
		Attendees:   models.SplitAttendees(Text(attendees)),
		Creator:     Text(r.Fields["Creator"]),
		Attachments: attachmentURLs(r.Fields["Images"]),
	}
}

func attachmentURLs(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if u, ok := m["url"].(string); ok && u != "" {
				out = append(out, u)
				continue
			}
		}
		if s := Text(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func meetingFields(in models.MeetingInput) airtable.Fields {
	return airtable.Fields{
		"Title":        in.Title,
		"Date":         in.Date,
		"Notes":        in.Notes,
		attendeesField: models.SplitAttendees(in.Attendees),
	}
}

// CreateMeeting grava participantes sempre como array.
func (g *Gateway) CreateMeeting(ctx context.Context, in models.MeetingInput) (models.Meeting, error) {
	fields := meetingFields(in)
	fields["Creator"] = in.Creator

	rec, err := g.Create(ctx, KindMeeting, fields)
	if err != nil {
		return models.Meeting{}, err
	}
	return meetingFromRecord(echo(rec, fields)), nil
}

// UpdateMeeting reescreve título, data, notas e participantes; o criador não muda.
func (g *Gateway) UpdateMeeting(ctx context.Context, id string, in models.MeetingInput) (models.Meeting, error) {
	fields := meetingFields(in)
	rec, err := g.Update(ctx, KindMeeting, id, fields)
	if err != nil {
		return models.Meeting{}, err
	}
	return meetingFromRecord(echo(rec, fields)), nil
}

func (g *Gateway) DeleteMeeting(ctx context.Context, id string) error {
	return g.Delete(ctx, KindMeeting, id)
}
