package views

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/airtable"
	"opsdash/analytics"
	"opsdash/gateway/gatewaytest"
)

// gatedSales segura a primeira busca até gate ser fechado.
type gatedSales struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (s *gatedSales) FetchSummary(ctx context.Context, r analytics.DateRange) analytics.SalesSummary {
	n := s.calls.Add(1)
	if n == 1 {
		<-s.gate
	}
	return analytics.SalesSummary{TotalOrders: int(n)}
}

func newDashboard(t *testing.T, sales analytics.SalesSource) (*Dashboard, *gatewaytest.MemoryStore) {
	t.Helper()
	g, store := newBackend(t)
	return NewDashboard(g, g, sales, &analytics.StubAds{}, &analytics.StubSocial{}, NewNotifier()), store
}

func TestDashboardDropsStaleAnalytics(t *testing.T) {
	sales := &gatedSales{gate: make(chan struct{})}
	d, _ := newDashboard(t, sales)
	ctx := context.Background()

	var wg sync.WaitGroup
	var staleApplied bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleApplied = d.Refresh(ctx, analytics.DateRange{})
	}()
	require.Eventually(t, func() bool { return sales.calls.Load() == 1 }, time.Second, time.Millisecond)

	res, applied := d.Refresh(ctx, analytics.DateRange{})
	require.True(t, applied)
	assert.Equal(t, 2, res.Sales.TotalOrders)

	close(sales.gate)
	wg.Wait()

	assert.False(t, staleApplied)
	cur := d.Current()
	require.NotNil(t, cur)
	assert.Equal(t, 2, cur.Sales.TotalOrders)
	assert.Equal(t, 2150.75, cur.Ads.TotalSpend)
	assert.Equal(t, 45200, cur.Social.Followers)
}

func TestDashboardIgnoresCancelledRefresh(t *testing.T) {
	sales := &gatedSales{gate: make(chan struct{})}
	close(sales.gate)
	d, _ := newDashboard(t, sales)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, applied := d.Refresh(ctx, analytics.DateRange{})
	assert.False(t, applied)
	assert.Nil(t, d.Current())

	_, applied = d.Refresh(context.Background(), analytics.DateRange{})
	require.True(t, applied)
	cur := d.Current()
	require.NotNil(t, cur)
	assert.Equal(t, 2, cur.Sales.TotalOrders)
}

func TestDashboardRecent(t *testing.T) {
	d, store := newDashboard(t, analytics.NewShopify("", "", time.UTC))
	for i := 0; i < 5; i++ {
		store.Seed(meetingsTable, airtable.Record{Fields: airtable.Fields{"Title": fmt.Sprintf("m%d", i), "Date": fmt.Sprintf("2025-01-0%d", i+1)}})
		store.Seed(tasksTable, airtable.Record{Fields: airtable.Fields{"Title": fmt.Sprintf("t%d", i)}})
	}

	recent, err := d.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent.Meetings, 3)
	assert.Equal(t, "m4", recent.Meetings[0].Title)
	assert.Len(t, recent.Tasks, 3)

	store.FailNext(gatewaytest.MethodList, tasksTable, errBackend)
	_, err = d.Recent(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)

	assert.Nil(t, d.Current())
}

func TestGeneration(t *testing.T) {
	var g Generation
	a := g.Begin()
	assert.True(t, g.IsLatest(a))
	b := g.Begin()
	assert.False(t, g.IsLatest(a))
	assert.True(t, g.IsLatest(b))
}

func TestNotifierDrainsAndCaps(t *testing.T) {
	n := NewNotifier()
	for i := 0; i < maxPendingNotices+5; i++ {
		n.Notify(ActionMeetingSave)
	}
	n.Notify("unknown")
	got := n.Notices()
	assert.Len(t, got, maxPendingNotices)
	assert.Equal(t, "Falha ao salvar a reunião", got[0].Message)
	assert.Equal(t, noticeMessages[ActionLoad], got[len(got)-1].Message)
	assert.Empty(t, n.Notices())

	var nilNotifier *Notifier
	nilNotifier.Notify(ActionLoad)
	assert.Empty(t, nilNotifier.Notices())
}
