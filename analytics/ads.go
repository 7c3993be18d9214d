package analytics

import (
	"context"
	"time"

	"opsdash/utilities"
)

// DefaultAdsLatency imita o tempo de resposta da API de anúncios.
const DefaultAdsLatency = 850 * time.Millisecond

type Campaign struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Spend          float64 `json:"spend"`
	ROAS           float64 `json:"roas"`
	Purchases      int     `json:"purchases"`
	ClickPurchases int     `json:"clickPurchases"`
	ViewPurchases  int     `json:"viewPurchases"`
}

type AdsSummary struct {
	TotalSpend     float64    `json:"totalSpend"`
	TotalPurchases int        `json:"totalPurchases"`
	CPA            float64    `json:"cpa"`
	ROAS           float64    `json:"roas"`
	CPM            float64    `json:"cpm"`
	CTR            float64    `json:"ctr"`
	Impressions    int        `json:"impressions"`
	Clicks         int        `json:"clicks"`
	Campaigns      []Campaign `json:"campaigns"`
}

type AdsSource interface {
	FetchSummary(ctx context.Context, r DateRange) AdsSummary
}

// StubAds devolve números fixos enquanto a integração real não existe.
// O intervalo é ignorado.
type StubAds struct {
	Latency time.Duration
}

func NewStubAds() *StubAds {
	return &StubAds{Latency: DefaultAdsLatency}
}

func (s *StubAds) FetchSummary(ctx context.Context, _ DateRange) AdsSummary {
	if !wait(ctx, s.Latency) {
		utilities.LogDebug("Busca de anúncios cancelada: %v", ctx.Err())
		return AdsSummary{Campaigns: []Campaign{}}
	}
	return AdsSummary{
		TotalSpend:     2150.75,
		TotalPurchases: 85,
		CPA:            25.30,
		ROAS:           3.42,
		CPM:            12.50,
		CTR:            1.8,
		Impressions:    172060,
		Clicks:         3097,
		Campaigns: []Campaign{
			{ID: "c1", Name: "Always On - Advantage+ Shopping", Status: "ACTIVE", Spend: 1200.50, ROAS: 4.1, Purchases: 55, ClickPurchases: 40, ViewPurchases: 15},
			{ID: "c2", Name: "Retargeting - Last 30 Days", Status: "ACTIVE", Spend: 450.25, ROAS: 5.2, Purchases: 25, ClickPurchases: 20, ViewPurchases: 5},
			{ID: "c3", Name: "Top of Funnel - Broad Interest", Status: "PAUSED", Spend: 500.00, ROAS: 1.1, Purchases: 5, ClickPurchases: 3, ViewPurchases: 2},
		},
	}
}
