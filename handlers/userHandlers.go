package handlers

import (
	"net/http"

	"opsdash/session"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type sessionResponse struct {
	State  string `json:"state"`
	User   string `json:"user,omitempty"`
	Role   string `json:"role"`
	UserID string `json:"userId,omitempty"`
}

func toSessionResponse(id session.Identity) sessionResponse {
	return sessionResponse{State: id.State.String(), User: id.DisplayName, Role: id.Role, UserID: id.UserID}
}

// LoginHandler valida a senha da equipe e o nome de quem entra.
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !a.session.Login(r.Context(), req.Name, req.Password) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(a.session.Identity()))
}

func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.session.Logout(r.Context()); err != nil {
		writeError(w, err, "Erro ao fazer logout")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout efetuado com sucesso"})
}

// SessionHandler é público: a tela de login usa para saber se já há sessão.
func (a *App) SessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSessionResponse(a.session.Identity()))
}

// UpdateRoleHandler grava o papel; se o backend falhar o papel fica salvo
// localmente e a resposta é 502.
func (a *App) UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.session.UpdateRole(r.Context(), req.Role); err != nil {
		writeError(w, err, "Erro ao atualizar papel")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(a.session.Identity()))
}

type dockPayload struct {
	Items []string `json:"items"`
}

func (a *App) GetDockHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dockPayload{Items: a.session.Dock()})
}

func (a *App) UpdateDockHandler(w http.ResponseWriter, r *http.Request) {
	var req dockPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.session.SetDock(r.Context(), req.Items); err != nil {
		writeError(w, err, "Erro ao salvar dock")
		return
	}
	writeJSON(w, http.StatusOK, dockPayload{Items: a.session.Dock()})
}
