// Package gateway traduz entre as entidades da UI (models) e os registros do
// backend hospedado. Não guarda estado nem faz cache.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opsdash/airtable"
	"opsdash/utilities"
)

// Kind é o tipo lógico de registro; o valor é o nome da tabela no backend.
type Kind string

const (
	KindTask    Kind = "Tasks"
	KindMeeting Kind = "Meet Logs"
	KindProject Kind = "Projects"
	KindUser    Kind = "Users"
)

// BatchSize é o limite de registros por chamada de exclusão.
const BatchSize = airtable.MaxRecordsPerRequest

var (
	ErrRequiredField = errors.New("campo obrigatório vazio")
	ErrNoRecord      = errors.New("backend não devolveu o registro")
)

// RecordStore é o backend de registros. *airtable.Client satisfaz.
type RecordStore interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
	Create(ctx context.Context, table string, fields []airtable.Fields, typecast bool) ([]airtable.Record, error)
	Update(ctx context.Context, table string, records []airtable.Record, typecast bool) ([]airtable.Record, error)
	Destroy(ctx context.Context, table string, ids []string) error
}

type Gateway struct {
	store RecordStore
}

func New(store RecordStore) *Gateway {
	return &Gateway{store: store}
}

func (k Kind) requiredField() string {
	switch k {
	case KindProject, KindUser:
		return "Name"
	default:
		return "Title"
	}
}

// typecast: Users é gravado sem typecast, como sempre foi.
func (k Kind) typecast() bool {
	return k != KindUser
}

// List busca todos os registros de um tipo.
func (g *Gateway) List(ctx context.Context, kind Kind, sort ...airtable.SortField) ([]airtable.Record, error) {
	return g.list(ctx, kind, airtable.ListOptions{Sort: sort})
}

func (g *Gateway) list(ctx context.Context, kind Kind, opts airtable.ListOptions) ([]airtable.Record, error) {
	recs, err := g.store.List(ctx, string(kind), opts)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("Erro ao buscar registros de %s", kind))
		return nil, err
	}
	utilities.LogDebug("%d registros lidos de %s", len(recs), kind)
	return recs, nil
}

// Create valida o campo obrigatório antes de qualquer chamada remota.
func (g *Gateway) Create(ctx context.Context, kind Kind, fields airtable.Fields) (airtable.Record, error) {
	if err := requireField(kind, fields); err != nil {
		return airtable.Record{}, err
	}
	recs, err := g.store.Create(ctx, string(kind), []airtable.Fields{fields}, kind.typecast())
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("Erro ao criar registro em %s", kind))
		return airtable.Record{}, err
	}
	if len(recs) == 0 {
		return airtable.Record{}, ErrNoRecord
	}
	utilities.LogInfo("Registro criado em %s: %s", kind, recs[0].ID)
	return recs[0], nil
}

// Update envia apenas os campos informados; os demais não mudam no backend.
func (g *Gateway) Update(ctx context.Context, kind Kind, id string, partial airtable.Fields) (airtable.Record, error) {
	if id == "" {
		return airtable.Record{}, fmt.Errorf("%w: id", ErrRequiredField)
	}
	if v, ok := partial[kind.requiredField()]; ok {
		if err := requireField(kind, airtable.Fields{kind.requiredField(): v}); err != nil {
			return airtable.Record{}, err
		}
	}
	recs, err := g.store.Update(ctx, string(kind), []airtable.Record{{ID: id, Fields: partial}}, kind.typecast())
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("Erro ao atualizar registro %s em %s", id, kind))
		return airtable.Record{}, err
	}
	if len(recs) == 0 {
		return airtable.Record{}, ErrNoRecord
	}
	return recs[0], nil
}

// Delete é irreversível; erros sempre sobem para quem chamou.
func (g *Gateway) Delete(ctx context.Context, kind Kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id", ErrRequiredField)
	}
	if err := g.store.Destroy(ctx, string(kind), []string{id}); err != nil {
		utilities.LogError(err, fmt.Sprintf("Erro ao apagar registro %s de %s", id, kind))
		return err
	}
	utilities.LogInfo("Registro apagado de %s: %s", kind, id)
	return nil
}

// DeleteMany apaga em lotes de BatchSize. Para no primeiro lote que falhar;
// lotes anteriores já foram apagados e não há relatório por registro.
func (g *Gateway) DeleteMany(ctx context.Context, kind Kind, ids []string) error {
	for start := 0; start < len(ids); start += BatchSize {
		end := start + BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := g.store.Destroy(ctx, string(kind), ids[start:end]); err != nil {
			utilities.LogError(err, fmt.Sprintf("Erro ao apagar lote de %s", kind))
			return err
		}
	}
	utilities.LogInfo("%d registros apagados de %s", len(ids), kind)
	return nil
}

func requireField(kind Kind, fields airtable.Fields) error {
	name := kind.requiredField()
	if strings.TrimSpace(Text(fields[name])) == "" {
		return fmt.Errorf("%w: %s", ErrRequiredField, name)
	}
	return nil
}
