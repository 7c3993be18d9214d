// Package views guarda o estado das telas de lista e de detalhe entre
// requisições e aplica as edições de forma otimista.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"opsdash/utilities"
)

var (
	// ErrUpdateFailed é o único erro visível de uma edição otimista que falhou.
	ErrUpdateFailed = errors.New("não foi possível salvar a alteração")
	ErrNotInView    = errors.New("registro não está carregado nesta tela")
	ErrLoadFailed   = errors.New("não foi possível carregar os dados")
	ErrSaveFailed   = errors.New("não foi possível salvar")
	ErrDeleteFailed = errors.New("não foi possível excluir")
	ErrNotFound     = errors.New("registro não encontrado")
	ErrInvalidValue = errors.New("valor inválido")
)

// List é a cópia local de uma lista remota. Snapshot sempre devolve uma cópia.
type List[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
	idOf   func(T) string
}

func NewList[T any](idOf func(T) string) *List[T] {
	return &List[T]{idOf: idOf, items: []T{}}
}

func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T{}, l.items...)
}

func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Replace troca o conteúdo inteiro.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{}, items...)
	l.loaded = true
}

func (l *List[T]) Find(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if l.idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Remove tira o item local; devolve false se não estava na lista.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if l.idOf(it) == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// apply troca o item id por uma cópia alterada e devolve a lista anterior.
func (l *List[T]) apply(id string, patch func(*T)) ([]T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if l.idOf(it) != id {
			continue
		}
		prev := l.items
		next := append([]T{}, l.items...)
		patch(&next[i])
		l.items = next
		return prev, true
	}
	return nil, false
}

// Optimistic aplica patch localmente, publica, e só então chama remote.
// Se remote falhar, a lista local é substituída pelo que fetch trouxer do
// backend; se fetch também falhar, volta a lista de antes da edição.
// Em qualquer falha o erro devolvido é ErrUpdateFailed (com a causa embrulhada).
// Edições simultâneas do mesmo registro não são serializadas: a última vence.
func Optimistic[T any](
	ctx context.Context,
	list *List[T],
	id string,
	patch func(*T),
	remote func(context.Context) error,
	fetch func(context.Context) ([]T, error),
) error {
	prev, ok := list.apply(id, patch)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInView, id)
	}

	err := remote(ctx)
	if err == nil {
		return nil
	}
	utilities.LogError(err, fmt.Sprintf("Edição otimista de %s falhou, recarregando", id))

	// a reconciliação não depende do cliente ainda estar esperando
	fresh, ferr := fetch(context.WithoutCancel(ctx))
	if ferr != nil {
		utilities.LogError(ferr, "Erro ao recarregar lista após falha; restaurando estado anterior")
		list.Replace(prev)
	} else {
		list.Replace(fresh)
	}
	return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
}
