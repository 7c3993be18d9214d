package views

import (
	"sync"
	"time"
)

// Ações que geram aviso. Cada uma tem uma única mensagem genérica.
const (
	ActionTaskStatus       = "task.status"
	ActionTaskCreate       = "task.create"
	ActionTaskDelete       = "task.delete"
	ActionMeetingSave      = "meeting.save"
	ActionMeetingDelete    = "meeting.delete"
	ActionProjectRelation  = "project.relation"
	ActionProjectCreate    = "project.create"
	ActionProjectDelete    = "project.delete"
	ActionProjectNotes     = "project.notes"
	ActionCalendarSchedule = "calendar.schedule"
	ActionLoad             = "load"
)

var noticeMessages = map[string]string{
	ActionTaskStatus:       "Falha ao atualizar o status da tarefa",
	ActionTaskCreate:       "Falha ao criar a tarefa",
	ActionTaskDelete:       "Falha ao excluir a tarefa",
	ActionMeetingSave:      "Falha ao salvar a reunião",
	ActionMeetingDelete:    "Falha ao excluir a reunião",
	ActionProjectRelation:  "Falha ao atualizar o status do projeto",
	ActionProjectCreate:    "Falha ao criar o projeto",
	ActionProjectDelete:    "Falha ao excluir o projeto",
	ActionProjectNotes:     "Falha ao salvar as notas",
	ActionCalendarSchedule: "Falha ao agendar a reunião",
	ActionLoad:             "Falha ao carregar os dados",
}

const maxPendingNotices = 50

type Notice struct {
	Action  string    `json:"action"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier acumula avisos para o usuário até alguém lê-los.
// Um Notifier nil ignora tudo.
type Notifier struct {
	mu      sync.Mutex
	pending []Notice
	now     func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

func (n *Notifier) Notify(action string) {
	if n == nil {
		return
	}
	msg, ok := noticeMessages[action]
	if !ok {
		msg = noticeMessages[ActionLoad]
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, Notice{Action: action, Message: msg, At: n.now()})
	if len(n.pending) > maxPendingNotices {
		n.pending = n.pending[len(n.pending)-maxPendingNotices:]
	}
}

// Notices devolve e esvazia os avisos pendentes.
func (n *Notifier) Notices() []Notice {
	if n == nil {
		return []Notice{}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
