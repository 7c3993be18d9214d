package views

import (
	"context"
	"fmt"
	"strings"

	"opsdash/gateway"
	"opsdash/models"
	"opsdash/utilities"
)

// MeetingGrid é o arquivo de reuniões (mais recentes primeiro).
type MeetingGrid struct {
	store  MeetingStore
	list   *List[models.Meeting]
	notify *Notifier
}

func NewMeetingGrid(store MeetingStore, notify *Notifier) *MeetingGrid {
	return &MeetingGrid{store: store, list: NewList(meetingID), notify: notify}
}

func (g *MeetingGrid) Load(ctx context.Context) error {
	meetings, err := g.store.ListMeetings(ctx)
	if err != nil {
		g.notify.Notify(ActionLoad)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	g.list.Replace(meetings)
	return nil
}

func (g *MeetingGrid) Meetings() []models.Meeting {
	return g.list.Snapshot()
}

// Save cria a reunião quando id é vazio, senão atualiza. Participantes vêm
// como texto separado por vírgula ou barra. Creator é quem está logado e só
// é gravado na criação.
func (g *MeetingGrid) Save(ctx context.Context, id string, in models.MeetingInput) (models.Meeting, error) {
	if err := validateMeeting(&in); err != nil {
		return models.Meeting{}, err
	}

	var (
		m   models.Meeting
		err error
	)
	if id == "" {
		m, err = g.store.CreateMeeting(ctx, in)
	} else {
		m, err = g.store.UpdateMeeting(ctx, id, in)
	}
	if err != nil {
		g.notify.Notify(ActionMeetingSave)
		return models.Meeting{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if err := g.Load(ctx); err != nil {
		utilities.LogWarn(err, "Reunião salva, mas a lista não foi recarregada")
	}
	return m, nil
}

func (g *MeetingGrid) Delete(ctx context.Context, id string) error {
	if err := g.store.DeleteMeeting(ctx, id); err != nil {
		g.notify.Notify(ActionMeetingDelete)
		if lerr := g.Load(context.WithoutCancel(ctx)); lerr != nil {
			utilities.LogWarn(lerr, "Erro ao recarregar reuniões")
		}
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	g.list.Remove(id)
	return nil
}

func validateMeeting(in *models.MeetingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: Title", gateway.ErrRequiredField)
	}
	if !models.ValidDate(in.Date) {
		return fmt.Errorf("%w: data %q", ErrInvalidValue, in.Date)
	}
	return nil
}
