// Package gatewaytest fornece um backend de registros em memória para testes.
package gatewaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"opsdash/airtable"
)

// Métodos para FailNext/Fail/Calls.
const (
	MethodList    = "list"
	MethodCreate  = "create"
	MethodUpdate  = "update"
	MethodDestroy = "destroy"
)

var formulaRe = regexp.MustCompile(`^\{(\w+)\} = '(.*)'$`)

// MemoryStore imita o Airtable: valores passam por JSON, Update faz merge,
// Destroy respeita o limite de 10 ids.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]airtable.Record
	nextID   int
	calls    map[string]int
	failNext map[string]error
	fail     map[string]error

	// DestroyBatches guarda os ids de cada chamada de Destroy, em ordem.
	DestroyBatches [][]string

	// BeforeUpdate, se definido, roda antes de aplicar um Update (sem lock).
	BeforeUpdate func(table string, recs []airtable.Record)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   map[string][]airtable.Record{},
		calls:    map[string]int{},
		failNext: map[string]error{},
		fail:     map[string]error{},
	}
}

func key(method, table string) string { return method + ":" + table }

// Seed insere registros como se já existissem no backend.
func (m *MemoryStore) Seed(table string, recs ...airtable.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range recs {
		if r.ID == "" {
			r.ID = m.newID()
		}
		r.Fields = roundTrip(r.Fields)
		m.tables[table] = append(m.tables[table], r)
	}
}

// FailNext faz a próxima chamada method em table falhar com err.
func (m *MemoryStore) FailNext(method, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[key(method, table)] = err
}

// Fail faz toda chamada method em table falhar até Recover.
func (m *MemoryStore) Fail(method, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[key(method, table)] = err
}

func (m *MemoryStore) Recover(method, table string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fail, key(method, table))
}

// Calls conta chamadas feitas (inclusive as que falharam).
func (m *MemoryStore) Calls(method, table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key(method, table)]
}

// Records devolve uma cópia da tabela.
func (m *MemoryStore) Records(table string) []airtable.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]airtable.Record, len(m.tables[table]))
	for i, r := range m.tables[table] {
		out[i] = airtable.Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: roundTrip(r.Fields)}
	}
	return out
}

// Set altera um campo direto no backend, simulando outra pessoa editando.
func (m *MemoryStore) Set(table, id, field string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.tables[table] {
		if r.ID == id {
			f := roundTrip(r.Fields)
			f[field] = value
			m.tables[table][i].Fields = roundTrip(f)
		}
	}
}

func (m *MemoryStore) enter(method, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(method, table)
	m.calls[k]++
	if err, ok := m.failNext[k]; ok {
		delete(m.failNext, k)
		return err
	}
	return m.fail[k]
}

func (m *MemoryStore) List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error) {
	if err := m.enter(MethodList, table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs := m.Records(table)

	if opts.FilterByFormula != "" {
		match := formulaRe.FindStringSubmatch(opts.FilterByFormula)
		if match == nil {
			return nil, fmt.Errorf("gatewaytest: fórmula não suportada: %s", opts.FilterByFormula)
		}
		want := strings.ReplaceAll(match[2], `\'`, `'`)
		filtered := recs[:0]
		for _, r := range recs {
			if fmt.Sprint(r.Fields[match[1]]) == want {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}

	for i := len(opts.Sort) - 1; i >= 0; i-- {
		s := opts.Sort[i]
		desc := s.Direction == "desc"
		sort.SliceStable(recs, func(a, b int) bool {
			va, vb := fmt.Sprint(recs[a].Fields[s.Field]), fmt.Sprint(recs[b].Fields[s.Field])
			if desc {
				return va > vb
			}
			return va < vb
		})
	}

	if opts.MaxRecords > 0 && len(recs) > opts.MaxRecords {
		recs = recs[:opts.MaxRecords]
	}
	return recs, nil
}

func (m *MemoryStore) Create(ctx context.Context, table string, fields []airtable.Fields, typecast bool) ([]airtable.Record, error) {
	if err := m.enter(MethodCreate, table); err != nil {
		return nil, err
	}
	if len(fields) > airtable.MaxRecordsPerRequest {
		return nil, airtable.ErrBatchTooLarge
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]airtable.Record, 0, len(fields))
	for _, f := range fields {
		rec := airtable.Record{ID: m.newID(), Fields: dropNil(roundTrip(f))}
		m.tables[table] = append(m.tables[table], rec)
		out = append(out, airtable.Record{ID: rec.ID, Fields: roundTrip(rec.Fields)})
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, table string, recs []airtable.Record, typecast bool) ([]airtable.Record, error) {
	if err := m.enter(MethodUpdate, table); err != nil {
		return nil, err
	}
	if m.BeforeUpdate != nil {
		m.BeforeUpdate(table, recs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]airtable.Record, 0, len(recs))
	for _, upd := range recs {
		idx := -1
		for i, r := range m.tables[table] {
			if r.ID == upd.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &airtable.APIError{StatusCode: 404, Type: "NOT_FOUND"}
		}
		merged := roundTrip(m.tables[table][idx].Fields)
		for k, v := range roundTrip(upd.Fields) {
			merged[k] = v
		}
		m.tables[table][idx].Fields = dropNil(merged)
		out = append(out, airtable.Record{ID: upd.ID, Fields: roundTrip(m.tables[table][idx].Fields)})
	}
	return out, nil
}

func (m *MemoryStore) Destroy(ctx context.Context, table string, ids []string) error {
	if err := m.enter(MethodDestroy, table); err != nil {
		return err
	}
	if len(ids) > airtable.MaxRecordsPerRequest {
		return airtable.ErrBatchTooLarge
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DestroyBatches = append(m.DestroyBatches, append([]string(nil), ids...))
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *MemoryStore) newID() string {
	m.nextID++
	return fmt.Sprintf("rec%05d", m.nextID)
}

// roundTrip passa os campos por JSON, como o backend real faria.
func roundTrip(f airtable.Fields) airtable.Fields {
	out := airtable.Fields{}
	if f == nil {
		return out
	}
	data, err := json.Marshal(f)
	if err != nil {
		panic(fmt.Sprintf("gatewaytest: campos não serializáveis: %v", err))
	}
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func dropNil(f airtable.Fields) airtable.Fields {
	for k, v := range f {
		if v == nil {
			delete(f, k)
		}
	}
	return f
}
