package analytics

import (
	"context"
	"sort"
	"time"
)

// ProfitMargin é a margem simulada aplicada sobre as vendas.
const ProfitMargin = 0.45

const topProductsLimit = 5

type TrendPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type Product struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

type SalesSummary struct {
	TotalSales  float64      `json:"totalSales"`
	TotalOrders int          `json:"totalOrders"`
	AOV         float64      `json:"aov"`
	Profit      float64      `json:"profit"`
	SalesTrend  []TrendPoint `json:"salesTrend"`
	TopProducts []Product    `json:"topProducts"`
}

// SalesSource nunca falha; em erro devolve FallbackSales.
type SalesSource interface {
	FetchSummary(ctx context.Context, r DateRange) SalesSummary
}

// Order é um pedido já decodificado, independente da loja de origem.
type Order struct {
	CreatedAt time.Time
	Total     float64
	Items     []LineItem
}

type LineItem struct {
	ProductID string
	Title     string
	Total     float64
}

// FallbackSales é o resumo zerado com um único ponto de hoje.
func FallbackSales(now time.Time, loc *time.Location) SalesSummary {
	if loc == nil {
		loc = time.Local
	}
	return SalesSummary{
		SalesTrend:  []TrendPoint{{Date: now.In(loc).Format(dayLayout), Sales: 0}},
		TopProducts: []Product{},
	}
}

// Summarize agrega os pedidos. Os dias da tendência são contados em loc.
func Summarize(orders []Order, now time.Time, loc *time.Location) SalesSummary {
	if len(orders) == 0 {
		return FallbackSales(now, loc)
	}
	if loc == nil {
		loc = time.Local
	}

	var sum SalesSummary
	daily := map[string]float64{}
	products := map[string]*Product{}
	var order []string

	for _, o := range orders {
		sum.TotalSales += o.Total
		daily[o.CreatedAt.In(loc).Format(dayLayout)] += o.Total

		for _, item := range o.Items {
			p, ok := products[item.Title]
			if !ok {
				id := item.ProductID
				if id == "" {
					id = item.Title
				}
				p = &Product{ID: id, Name: item.Title}
				products[item.Title] = p
				order = append(order, item.Title)
			}
			p.Orders++
			p.Sales += item.Total
		}
	}

	sum.TotalOrders = len(orders)
	sum.AOV = sum.TotalSales / float64(sum.TotalOrders)
	sum.Profit = sum.TotalSales * ProfitMargin

	// YYYY-MM-DD ordena cronologicamente como texto
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		sum.SalesTrend = append(sum.SalesTrend, TrendPoint{Date: d, Sales: daily[d]})
	}

	sum.TopProducts = make([]Product, 0, len(order))
	for _, name := range order {
		sum.TopProducts = append(sum.TopProducts, *products[name])
	}
	sort.SliceStable(sum.TopProducts, func(i, j int) bool {
		return sum.TopProducts[i].Sales > sum.TopProducts[j].Sales
	})
	if len(sum.TopProducts) > topProductsLimit {
		sum.TopProducts = sum.TopProducts[:topProductsLimit]
	}
	return sum
}
