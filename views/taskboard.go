package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"opsdash/gateway"
	"opsdash/models"
	"opsdash/utilities"
)

type Column struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []models.Task     `json:"tasks"`
}

// TaskBoard é o quadro kanban de tarefas.
type TaskBoard struct {
	store  TaskStore
	list   *List[models.Task]
	notify *Notifier

	mu    sync.RWMutex
	focus string
}

func NewTaskBoard(store TaskStore, notify *Notifier) *TaskBoard {
	return &TaskBoard{store: store, list: NewList(taskID), notify: notify}
}

func (b *TaskBoard) fetch(ctx context.Context) ([]models.Task, error) {
	return b.store.ListTasks(ctx)
}

// Loaded indica se Load já rodou com sucesso alguma vez.
func (b *TaskBoard) Loaded() bool {
	return b.list.Loaded()
}

// Load busca todas as tarefas e substitui o cache.
func (b *TaskBoard) Load(ctx context.Context) error {
	tasks, err := b.fetch(ctx)
	if err != nil {
		b.notify.Notify(ActionLoad)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	b.list.Replace(tasks)
	return nil
}

func (b *TaskBoard) Tasks() []models.Task {
	return b.list.Snapshot()
}

// Columns agrupa as tarefas na ordem fixa To Do, In Progress, Done.
func (b *TaskBoard) Columns() []Column {
	cols := make([]Column, len(models.TaskStatuses))
	idx := map[models.TaskStatus]int{}
	for i, s := range models.TaskStatuses {
		cols[i] = Column{Status: s, Tasks: []models.Task{}}
		idx[s] = i
	}
	for _, t := range b.list.Snapshot() {
		i, ok := idx[t.Status]
		if !ok {
			i = idx[models.StatusToDo]
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

// ChangeStatus move a tarefa de coluna antes de confirmar com o backend.
func (b *TaskBoard) ChangeStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}
	err := Optimistic(ctx, b.list, id,
		func(t *models.Task) { t.Status = status },
		func(ctx context.Context) error { return b.store.UpdateTaskStatus(ctx, id, status) },
		b.fetch,
	)
	if errors.Is(err, ErrUpdateFailed) {
		b.notify.Notify(ActionTaskStatus)
	}
	return err
}

// Create valida antes de chamar o backend e recarrega o quadro em seguida.
func (b *TaskBoard) Create(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if err := validateTask(&in); err != nil {
		return models.Task{}, err
	}

	task, err := b.store.CreateTask(ctx, in)
	if err != nil {
		b.notify.Notify(ActionTaskCreate)
		return models.Task{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := b.Load(ctx); err != nil {
		utilities.LogWarn(err, "Tarefa criada, mas o quadro não foi recarregado")
		b.list.Replace(append(b.list.Snapshot(), task))
	}
	return task, nil
}

func validateTask(in *models.CreateTaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: Title", gateway.ErrRequiredField)
	}
	if in.Status != "" && !in.Status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, in.Status)
	}
	if !models.ValidDate(in.DueDate) {
		return fmt.Errorf("%w: data %q", ErrInvalidValue, in.DueDate)
	}
	return nil
}

// Delete só tira a tarefa da tela depois que o backend confirmar.
func (b *TaskBoard) Delete(ctx context.Context, id string) error {
	if err := b.store.DeleteTask(ctx, id); err != nil {
		b.notify.Notify(ActionTaskDelete)
		b.reload(ctx)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	b.list.Remove(id)
	return nil
}

// DeleteMany apaga em lotes; o quadro é recarregado em qualquer caso porque
// lotes anteriores ao que falhou já foram apagados.
func (b *TaskBoard) DeleteMany(ctx context.Context, ids []string) error {
	err := b.store.DeleteTasks(ctx, ids)
	b.reload(ctx)
	if err != nil {
		b.notify.Notify(ActionTaskDelete)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

func (b *TaskBoard) reload(ctx context.Context) {
	tasks, err := b.fetch(context.WithoutCancel(ctx))
	if err != nil {
		utilities.LogError(err, "Erro ao recarregar tarefas")
		return
	}
	b.list.Replace(tasks)
}

// Focus destaca uma tarefa (link direto para ela). Id vazio limpa o destaque.
func (b *TaskBoard) Focus(id string) bool {
	if id != "" {
		if _, ok := b.list.Find(id); !ok {
			return false
		}
	}
	b.mu.Lock()
	b.focus = id
	b.mu.Unlock()
	return true
}

func (b *TaskBoard) Focused() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.focus
}
