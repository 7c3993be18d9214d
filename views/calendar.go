package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opsdash/gateway"
	"opsdash/models"
	"opsdash/utilities"
)

type Day struct {
	Day      int              `json:"day"`
	Date     string           `json:"date"`
	Today    bool             `json:"today"`
	Meetings []models.Meeting `json:"meetings"`
}

// MonthGrid começa no domingo: Leading é o número de casas vazias antes do dia 1.
type MonthGrid struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Leading int        `json:"leading"`
	Days    []Day      `json:"days"`
}

type Calendar struct {
	store  MeetingStore
	list   *List[models.Meeting]
	notify *Notifier
	loc    *time.Location
	now    func() time.Time
}

func NewCalendar(store MeetingStore, notify *Notifier, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{store: store, list: NewList(meetingID), notify: notify, loc: loc, now: time.Now}
}

func (c *Calendar) Load(ctx context.Context) error {
	meetings, err := c.store.ListMeetings(ctx)
	if err != nil {
		c.notify.Notify(ActionLoad)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	c.list.Replace(meetings)
	return nil
}

// Month monta a grade do mês com as reuniões de cada dia.
func (c *Calendar) Month(year int, month time.Month) (MonthGrid, error) {
	if month < time.January || month > time.December {
		return MonthGrid{}, fmt.Errorf("%w: mês %d", ErrInvalidValue, month)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	last := first.AddDate(0, 1, -1).Day()
	today := c.now().In(c.loc).Format(models.DateLayout)

	byDate := map[string][]models.Meeting{}
	for _, m := range c.list.Snapshot() {
		byDate[m.Date] = append(byDate[m.Date], m)
	}

	grid := MonthGrid{Year: year, Month: month, Leading: int(first.Weekday()), Days: make([]Day, 0, last)}
	for d := 1; d <= last; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), d)
		meetings := byDate[date]
		if meetings == nil {
			meetings = []models.Meeting{}
		}
		grid.Days = append(grid.Days, Day{Day: d, Date: date, Today: date == today, Meetings: meetings})
	}
	return grid, nil
}

// Schedule cria uma reunião vazia (sem notas nem participantes) no dia.
func (c *Calendar) Schedule(ctx context.Context, date, title, creator string) (models.Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Meeting{}, fmt.Errorf("%w: Title", gateway.ErrRequiredField)
	}
	if date == "" || !models.ValidDate(date) {
		return models.Meeting{}, fmt.Errorf("%w: data %q", ErrInvalidValue, date)
	}

	m, err := c.store.CreateMeeting(ctx, models.MeetingInput{Title: title, Date: date, Creator: creator})
	if err != nil {
		c.notify.Notify(ActionCalendarSchedule)
		return models.Meeting{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := c.Load(ctx); err != nil {
		utilities.LogWarn(err, "Reunião agendada, mas o calendário não foi recarregado")
	}
	return m, nil
}
