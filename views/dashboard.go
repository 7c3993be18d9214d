package views

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"opsdash/analytics"
	"opsdash/models"
)

const recentLimit = 3

type Recent struct {
	Meetings []models.Meeting `json:"meetings"`
	Tasks    []models.Task    `json:"tasks"`
}

type Analytics struct {
	Range  analytics.DateRange     `json:"range"`
	Sales  analytics.SalesSummary  `json:"sales"`
	Ads    analytics.AdsSummary    `json:"ads"`
	Social analytics.SocialSummary `json:"social"`
}

// Dashboard junta os itens recentes e o painel de indicadores.
type Dashboard struct {
	tasks    TaskStore
	meetings MeetingStore
	sales    analytics.SalesSource
	ads      analytics.AdsSource
	social   analytics.SocialSource
	notify   *Notifier

	gen     Generation
	mu      sync.RWMutex
	current *Analytics
}

func NewDashboard(tasks TaskStore, meetings MeetingStore, sales analytics.SalesSource, ads analytics.AdsSource, social analytics.SocialSource, notify *Notifier) *Dashboard {
	return &Dashboard{tasks: tasks, meetings: meetings, sales: sales, ads: ads, social: social, notify: notify}
}

// Recent devolve as 3 primeiras reuniões e tarefas, buscadas em paralelo.
func (d *Dashboard) Recent(ctx context.Context) (Recent, error) {
	var out Recent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meetings, err := d.meetings.ListMeetings(gctx)
		if err != nil {
			return err
		}
		out.Meetings = head(meetings, recentLimit)
		return nil
	})
	g.Go(func() error {
		tasks, err := d.tasks.ListTasks(gctx)
		if err != nil {
			return err
		}
		out.Tasks = head(tasks, recentLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		d.notify.Notify(ActionLoad)
		return Recent{Meetings: []models.Meeting{}, Tasks: []models.Task{}}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return out, nil
}

// Refresh busca vendas, anúncios e redes sociais em paralelo. O resultado só é
// aplicado se nenhum Refresh mais novo tiver começado nesse meio tempo e se ctx
// não foi cancelado; o bool indica se foi aplicado.
func (d *Dashboard) Refresh(ctx context.Context, r analytics.DateRange) (Analytics, bool) {
	ticket := d.gen.Begin()

	res := Analytics{Range: r}
	var g errgroup.Group
	g.Go(func() error {
		res.Sales = d.sales.FetchSummary(ctx, r)
		return nil
	})
	g.Go(func() error {
		res.Ads = d.ads.FetchSummary(ctx, r)
		return nil
	})
	g.Go(func() error {
		res.Social = d.social.FetchSummary(ctx, r)
		return nil
	})
	_ = g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.gen.IsLatest(ticket) || ctx.Err() != nil {
		// cancelado: as fontes devolveram resumos zerados
		return res, false
	}
	d.current = &res
	return res, true
}

// Current é o último resultado aplicado, ou nil se nenhum ainda.
func (d *Dashboard) Current() *Analytics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return nil
	}
	c := *d.current
	return &c
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append([]T{}, items...)
}
