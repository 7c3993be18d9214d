package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"opsdash/utilities"
)

const (
	shopifyAPIVersion = "2024-01"
	shopifyTimeout    = 30 * time.Second
)

var errMissingCredentials = errors.New("credenciais da Shopify não configuradas")

// Shopify lê pedidos da Admin API (GraphQL) e resume as vendas.
type Shopify struct {
	domain     string
	token      string
	loc        *time.Location
	httpClient *http.Client
	now        func() time.Time
}

// NewShopify aceita o domínio da loja ("loja.myshopify.com") ou uma URL base
// completa. Credenciais vazias fazem todo FetchSummary cair no resumo zerado.
func NewShopify(domain, token string, loc *time.Location) *Shopify {
	if loc == nil {
		loc = time.Local
	}
	return &Shopify{
		domain:     strings.TrimSuffix(domain, "/"),
		token:      token,
		loc:        loc,
		httpClient: &http.Client{Timeout: shopifyTimeout},
		now:        time.Now,
	}
}

func (s *Shopify) endpoint() string {
	base := s.domain
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base + "/admin/api/" + shopifyAPIVersion + "/graphql.json"
}

func ordersQuery(r DateRange) string {
	return fmt.Sprintf(`{
  orders(first: 250, query: "created_at:>=%s AND created_at:<=%s") {
    edges {
      node {
        id
        createdAt
        totalPriceSet { shopMoney { amount } }
        lineItems(first: 5) {
          edges {
            node {
              title
              product { id }
              discountedTotalSet { shopMoney { amount } }
            }
          }
        }
      }
    }
  }
}`, r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339))
}

type money struct {
	ShopMoney struct {
		Amount string `json:"amount"`
	} `json:"shopMoney"`
}

type ordersResponse struct {
	Data *struct {
		Orders struct {
			Edges []struct {
				Node struct {
					ID            string    `json:"id"`
					CreatedAt     time.Time `json:"createdAt"`
					TotalPriceSet money     `json:"totalPriceSet"`
					LineItems     struct {
						Edges []struct {
							Node struct {
								Title   string `json:"title"`
								Product *struct {
									ID string `json:"id"`
								} `json:"product"`
								DiscountedTotalSet money `json:"discountedTotalSet"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"lineItems"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// FetchSummary nunca devolve erro; qualquer falha é registrada e vira FallbackSales.
func (s *Shopify) FetchSummary(ctx context.Context, r DateRange) SalesSummary {
	now := s.now()
	orders, err := s.fetchOrders(ctx, r.OrDefault(now))
	if err != nil {
		utilities.LogError(err, "Erro ao buscar vendas na Shopify")
		return FallbackSales(now, s.loc)
	}
	utilities.LogDebug("%d pedidos lidos da Shopify", len(orders))
	return Summarize(orders, now, s.loc)
}

func (s *Shopify) fetchOrders(ctx context.Context, r DateRange) ([]Order, error) {
	if s.domain == "" || s.token == "" {
		return nil, errMissingCredentials
	}

	payload, err := json.Marshal(map[string]string{"query": ordersQuery(r)})
	if err != nil {
		return nil, fmt.Errorf("erro ao preparar consulta da Shopify: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição para a Shopify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao comunicar com a Shopify: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta da Shopify: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Shopify retornou status %d: %s", resp.StatusCode, string(body))
	}

	var out ordersResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta da Shopify: %w", err)
	}
	if len(out.Errors) > 0 && string(out.Errors) != "null" {
		return nil, fmt.Errorf("erros na consulta GraphQL da Shopify: %s", string(out.Errors))
	}
	if out.Data == nil {
		return nil, errors.New("resposta da Shopify sem data")
	}

	orders := make([]Order, 0, len(out.Data.Orders.Edges))
	for _, edge := range out.Data.Orders.Edges {
		n := edge.Node
		total, err := parseAmount(n.TotalPriceSet)
		if err != nil {
			return nil, fmt.Errorf("pedido %s: %w", n.ID, err)
		}
		o := Order{CreatedAt: n.CreatedAt, Total: total}
		for _, li := range n.LineItems.Edges {
			amount, err := parseAmount(li.Node.DiscountedTotalSet)
			if err != nil {
				return nil, fmt.Errorf("pedido %s: %w", n.ID, err)
			}
			item := LineItem{Title: li.Node.Title, Total: amount}
			if li.Node.Product != nil {
				item.ProductID = li.Node.Product.ID
			}
			o.Items = append(o.Items, item)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func parseAmount(m money) (float64, error) {
	if m.ShopMoney.Amount == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(m.ShopMoney.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("valor inválido %q: %w", m.ShopMoney.Amount, err)
	}
	return v, nil
}
