package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"opsdash/models"
	"opsdash/views"
)

func (a *App) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.grid.Load(r.Context()); err != nil {
		writeError(w, err, "Erro ao listar projetos")
		return
	}
	writeJSON(w, http.StatusOK, a.grid.Projects())
}

func (a *App) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := a.grid.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, "Erro ao criar projeto")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type relationRequest struct {
	RelationStatus models.RelationStatus `json:"relationStatus"`
}

func (a *App) UpdateProjectRelationHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	var req relationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.ensureProjects(r.Context()); err != nil {
		writeError(w, err, "Erro ao carregar projetos")
		return
	}
	err := withReload(r.Context(), a.grid.Load, func() error {
		return a.grid.ChangeRelationStatus(r.Context(), id, req.RelationStatus)
	})
	if err != nil {
		writeError(w, err, "Erro ao atualizar status do projeto")
		return
	}
	writeJSON(w, http.StatusOK, a.grid.Projects())
}

func (a *App) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	if err := a.grid.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Erro ao excluir projeto")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// openProject carrega a tela de detalhe; em erro já respondeu.
func (a *App) openProject(w http.ResponseWriter, r *http.Request) (*views.ProjectDetail, bool) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return nil, false
	}
	d := views.NewProjectDetail(a.projects, a.tasks, a.notices)
	if _, err := d.Load(r.Context(), id); err != nil {
		writeError(w, err, "Erro ao abrir projeto")
		return nil, false
	}
	return d, true
}

func (a *App) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := a.openProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.View())
}

func (a *App) UpdateProjectNotesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	d, ok := a.openProject(w, r)
	if !ok {
		return
	}
	if err := d.SaveNotes(r.Context(), req.Notes); err != nil {
		writeError(w, err, "Erro ao salvar notas do projeto")
		return
	}
	writeJSON(w, http.StatusOK, d.View())
}

func (a *App) CreateProjectTaskHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Creator = a.currentUser()
	d, ok := a.openProject(w, r)
	if !ok {
		return
	}
	task, err := d.CreateTask(r.Context(), in)
	if err != nil {
		writeError(w, err, "Erro ao criar tarefa do projeto")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}
