package models

import (
	"strings"
	"time"
)

// TaskStatus é a coluna do quadro onde a tarefa aparece.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// TaskStatuses na ordem das colunas do quadro.
var TaskStatuses = []TaskStatus{StatusToDo, StatusInProgress, StatusDone}

// IsValid indica se s é um dos três status aceitos.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseTaskStatus normaliza o valor vindo do backend. Vazio ou desconhecido vira To Do.
func ParseTaskStatus(raw string) TaskStatus {
	s := TaskStatus(strings.TrimSpace(raw))
	if s.IsValid() {
		return s
	}
	return StatusToDo
}

// DateLayout é o formato das datas de calendário trocadas com o backend.
const DateLayout = "2006-01-02"

// ValidDate aceita vazio ou uma data YYYY-MM-DD.
func ValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	Assignee  string     `json:"assignee"`
	DueDate   string     `json:"dueDate,omitempty"`
	Creator   string     `json:"creator,omitempty"`
	ProjectID string     `json:"projectId,omitempty"`
	Project   string     `json:"project,omitempty"`
}

// Assignees separa o campo livre de responsáveis (nomes separados por vírgula).
func (t Task) Assignees() []string {
	return splitNames(t.Assignee, ",")
}

type CreateTaskInput struct {
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	Assignee  string     `json:"assignee"`
	DueDate   string     `json:"dueDate"`
	Creator   string     `json:"creator"`
	ProjectID string     `json:"projectId"`
}

// UpdateTaskInput usa ponteiros para indicar quais campos atualizar.
type UpdateTaskInput struct {
	Title     *string     `json:"title"`
	Status    *TaskStatus `json:"status"`
	Assignee  *string     `json:"assignee"`
	DueDate   *string     `json:"dueDate"`
	ProjectID *string     `json:"projectId"`
}

func splitNames(s, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
