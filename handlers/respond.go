package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"opsdash/analytics"
	"opsdash/gateway"
	"opsdash/session"
	"opsdash/views"
)

var errBadRequest = errors.New("requisição inválida")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		LogError(err, "Erro ao codificar resposta JSON")
	}
}

// decodeJSON lê o corpo; em erro já respondeu 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		LogError(err, "Erro ao decodificar JSON")
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return false
	}
	return true
}

// remoteFailures são as mensagens genéricas mostradas quando o backend falha.
var remoteFailures = []error{
	views.ErrUpdateFailed,
	views.ErrSaveFailed,
	views.ErrDeleteFailed,
	views.ErrLoadFailed,
	session.ErrRoleSyncFailed,
}

// statusFor traduz o erro no código HTTP e na mensagem para o cliente.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, gateway.ErrRequiredField),
		errors.Is(err, views.ErrInvalidValue),
		errors.Is(err, analytics.ErrInvalidRange),
		errors.Is(err, analytics.ErrUnknownPreset),
		errors.Is(err, session.ErrUnknownDockItem),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, views.ErrNotInView), errors.Is(err, views.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	}
	for _, sentinel := range remoteFailures {
		if errors.Is(err, sentinel) {
			return http.StatusBadGateway, sentinel.Error()
		}
	}
	return http.StatusInternalServerError, "Erro interno"
}

func writeError(w http.ResponseWriter, err error, context string) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		LogError(err, context)
	} else {
		LogDebug("%s: %v", context, err)
	}
	http.Error(w, msg, status)
}
