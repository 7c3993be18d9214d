package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"opsdash/models"
)

func (a *App) ListMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.meetings.Load(r.Context()); err != nil {
		writeError(w, err, "Erro ao listar reuniões")
		return
	}
	writeJSON(w, http.StatusOK, a.meetings.Meetings())
}

func (a *App) CreateMeetingHandler(w http.ResponseWriter, r *http.Request) {
	a.saveMeeting(w, r, "")
}

func (a *App) UpdateMeetingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	a.saveMeeting(w, r, id)
}

func (a *App) saveMeeting(w http.ResponseWriter, r *http.Request, id string) {
	var in models.MeetingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Creator = a.currentUser()

	m, err := a.meetings.Save(r.Context(), id, in)
	if err != nil {
		writeError(w, err, "Erro ao salvar reunião")
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, m)
}

func (a *App) DeleteMeetingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !requireID(w, id) {
		return
	}
	if err := a.meetings.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Erro ao excluir reunião")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
