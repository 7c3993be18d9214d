package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"opsdash/analytics"
	"opsdash/session"
	"opsdash/views"
)

// Deps são as peças montadas pelo main.
type Deps struct {
	Session  *session.Store
	Tasks    views.TaskStore
	Meetings views.MeetingStore
	Projects views.ProjectStore
	Sales    analytics.SalesSource
	Ads      analytics.AdsSource
	Social   analytics.SocialSource
	Location *time.Location
}

// App guarda o estado compartilhado pelos handlers.
type App struct {
	session  *session.Store
	tasks    views.TaskStore
	projects views.ProjectStore
	sales    analytics.SalesSource
	ads      analytics.AdsSource
	social   analytics.SocialSource
	loc      *time.Location
	now      func() time.Time

	notices   *views.Notifier
	board     *views.TaskBoard
	meetings  *views.MeetingGrid
	grid      *views.ProjectGrid
	calendar  *views.Calendar
	dashboard *views.Dashboard
}

func NewApp(d Deps) *App {
	if d.Location == nil {
		d.Location = time.Local
	}
	n := views.NewNotifier()
	LogInfo("Inicializando handlers (fuso de exibição %s)", d.Location)
	return &App{
		session:   d.Session,
		tasks:     d.Tasks,
		projects:  d.Projects,
		sales:     d.Sales,
		ads:       d.Ads,
		social:    d.Social,
		loc:       d.Location,
		now:       time.Now,
		notices:   n,
		board:     views.NewTaskBoard(d.Tasks, n),
		meetings:  views.NewMeetingGrid(d.Meetings, n),
		grid:      views.NewProjectGrid(d.Projects, n),
		calendar:  views.NewCalendar(d.Meetings, n, d.Location),
		dashboard: views.NewDashboard(d.Tasks, d.Meetings, d.Sales, d.Ads, d.Social, n),
	}
}

// currentUser é o nome de exibição de quem está logado.
func (a *App) currentUser() string {
	return a.session.DisplayName()
}

// ensureTasks carrega o quadro se ainda não foi carregado, para que edições
// feitas logo após o início do processo encontrem o registro.
func (a *App) ensureTasks(ctx context.Context) error {
	if a.board.Loaded() {
		return nil
	}
	return a.board.Load(ctx)
}

func (a *App) ensureProjects(ctx context.Context) error {
	if a.grid.Loaded() {
		return nil
	}
	return a.grid.Load(ctx)
}

// withReload roda op e, se o registro não estiver no cache da tela (criado
// por outra tela ou por outro cliente), recarrega a lista e tenta uma vez mais.
func withReload(ctx context.Context, load func(context.Context) error, op func() error) error {
	err := op()
	if !errors.Is(err, views.ErrNotInView) {
		return err
	}
	LogDebug("Registro fora do cache, recarregando a lista")
	if err := load(ctx); err != nil {
		return err
	}
	return op()
}

// requireID responde 400 e devolve false quando a rota veio sem id.
func requireID(w http.ResponseWriter, id string) bool {
	if id == "" {
		writeError(w, fmt.Errorf("%w: id ausente", errBadRequest), "Requisição sem id")
		return false
	}
	return true
}
