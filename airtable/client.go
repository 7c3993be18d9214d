// Package airtable fala com a API REST de registros do Airtable.
//
// Só o necessário para o painel: listar (com sort, filtro e paginação por
// offset), criar, atualizar parcialmente e apagar em lotes de até 10 registros.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// MaxRecordsPerRequest é o limite do Airtable para create/update/destroy por requisição.
const MaxRecordsPerRequest = 10

const requestTimeout = 30 * time.Second

// ErrBatchTooLarge indica uma chamada com mais registros do que o backend aceita.
var ErrBatchTooLarge = errors.New("airtable: no máximo 10 registros por requisição")

// Fields são os campos de um registro, indexados pelo nome de exibição.
type Fields map[string]any

// Record é um registro como o Airtable devolve.
type Record struct {
	ID          string `json:"id,omitempty"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

// SortField ordena uma listagem. Direction é "asc" ou "desc".
type SortField struct {
	Field     string
	Direction string
}

// ListOptions filtra e ordena List.
type ListOptions struct {
	Sort            []SortField
	FilterByFormula string
	MaxRecords      int
	PageSize        int
}

// APIError é a resposta de erro do Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
}

// Client acessa uma base do Airtable.
type Client struct {
	apiURL string
	baseID string
	http   *http.Client
}

// NewClient cria um cliente autenticado com o token pessoal (Bearer) do Airtable.
func NewClient(ctx context.Context, apiURL, baseID, apiKey string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = requestTimeout
	return NewClientWithHTTP(apiURL, baseID, hc)
}

// NewClientWithHTTP usa um http.Client já configurado (testes, proxies).
func NewClientWithHTTP(apiURL, baseID string, hc *http.Client) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		baseID: baseID,
		http:   hc,
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type writeRequest struct {
	Records  []Record `json:"records"`
	Typecast bool     `json:"typecast,omitempty"`
}

type writeResponse struct {
	Records []Record `json:"records"`
}

// List busca todos os registros da tabela, seguindo o offset de página em página.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		q := listQuery(opts)
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("erro ao listar %s: %w", table, err)
		}
		all = append(all, page.Records...)

		if page.Offset == "" || (opts.MaxRecords > 0 && len(all) >= opts.MaxRecords) {
			break
		}
		offset = page.Offset
	}
	if opts.MaxRecords > 0 && len(all) > opts.MaxRecords {
		all = all[:opts.MaxRecords]
	}
	return all, nil
}

// Create cria registros. Com typecast o Airtable cria opções novas de select.
func (c *Client) Create(ctx context.Context, table string, fields []Fields, typecast bool) ([]Record, error) {
	if len(fields) > MaxRecordsPerRequest {
		return nil, ErrBatchTooLarge
	}
	body := writeRequest{Typecast: typecast}
	for _, f := range fields {
		body.Records = append(body.Records, Record{Fields: f})
	}

	var resp writeResponse
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &resp); err != nil {
		return nil, fmt.Errorf("erro ao criar registro em %s: %w", table, err)
	}
	return resp.Records, nil
}

// Update altera só os campos enviados (PATCH); os demais ficam intactos.
func (c *Client) Update(ctx context.Context, table string, records []Record, typecast bool) ([]Record, error) {
	if len(records) > MaxRecordsPerRequest {
		return nil, ErrBatchTooLarge
	}
	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("erro ao atualizar %s: registro sem id", table)
		}
	}
	body := writeRequest{Records: records, Typecast: typecast}

	var resp writeResponse
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table), body, &resp); err != nil {
		return nil, fmt.Errorf("erro ao atualizar registro em %s: %w", table, err)
	}
	return resp.Records, nil
}

// Destroy apaga até MaxRecordsPerRequest registros numa única chamada.
func (c *Client) Destroy(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > MaxRecordsPerRequest {
		return ErrBatchTooLarge
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("records[]", id)
	}
	if err := c.do(ctx, http.MethodDelete, c.tableURL(table)+"?"+q.Encode(), nil, nil); err != nil {
		return fmt.Errorf("erro ao apagar registros de %s: %w", table, err)
	}
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.apiURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		dir := strings.ToLower(s.Direction)
		if dir != "desc" {
			dir = "asc"
		}
		q.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
	}
	if opts.FilterByFormula != "" {
		q.Set("filterByFormula", opts.FilterByFormula)
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, target string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("erro ao preparar corpo: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("erro ao decodificar resposta: %w", err)
	}
	return nil
}

// decodeAPIError aceita as duas formas que o Airtable usa:
// {"error":"NOT_FOUND"} e {"error":{"type":"...","message":"..."}}.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Type: http.StatusText(status)}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var asString string
	if err := json.Unmarshal(envelope.Error, &asString); err == nil {
		apiErr.Type = asString
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		if detail.Type != "" {
			apiErr.Type = detail.Type
		}
		apiErr.Message = detail.Message
	}
	return apiErr
}
