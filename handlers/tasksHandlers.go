package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"opsdash/models"
	"opsdash/views"
)

type boardResponse struct {
	Columns []views.Column `json:"columns"`
	Focus   string         `json:"focus,omitempty"`
}

// ListTasksHandler recarrega o quadro. ?focus=<id> destaca uma tarefa.
func (a *App) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.board.Load(r.Context()); err != nil {
		writeError(w, err, "Erro ao listar tarefas")
		return
	}
	if focus := r.URL.Query().Get("focus"); focus != "" && !a.board.Focus(focus) {
		LogDebug("Tarefa %s não encontrada para destaque", focus)
	}
	a.writeBoard(w, http.StatusOK)
}

func (a *App) writeBoard(w http.ResponseWriter, status int) {
	writeJSON(w, status, boardResponse{Columns: a.board.Columns(), Focus: a.board.Focused()})
}

func (a *App) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Creator = a.currentUser()

	task, err := a.board.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, "Erro ao criar tarefa")
		return
	}
	LogInfo("Tarefa %s criada por %s", task.ID, in.Creator)
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTaskStatusHandler move a tarefa de coluna (atualização otimista).
func (a *App) UpdateTaskStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.ensureTasks(r.Context()); err != nil {
		writeError(w, err, "Erro ao carregar tarefas")
		return
	}
	err := withReload(r.Context(), a.board.Load, func() error {
		return a.board.ChangeStatus(r.Context(), id, req.Status)
	})
	if err != nil {
		writeError(w, err, "Erro ao atualizar status da tarefa")
		return
	}
	a.writeBoard(w, http.StatusOK)
}

func (a *App) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	if err := a.board.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Erro ao excluir tarefa")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) BatchDeleteTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, errBadRequest, "Lista de ids vazia")
		return
	}
	if err := a.board.DeleteMany(r.Context(), req.IDs); err != nil {
		writeError(w, err, "Erro ao excluir tarefas em lote")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
