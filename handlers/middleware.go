package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carrega o id de correlação de cada requisição.
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware registra informações sobre cada requisição HTTP
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		// Criar um ResponseWriter personalizado para capturar o status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		LogRequest(requestID, r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, time.Since(start))
	})
}

// responseWriter é um wrapper para http.ResponseWriter que captura o status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// AuthMiddleware só deixa passar quem tem sessão ativa; os demais recebem
// 401 com Location apontando para a tela de login.
func (a *App) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.session.IsAuthenticated() {
			LogDebug("Acesso negado a %s: sessão %s", r.URL.Path, a.session.State())
			w.Header().Set("Location", "/login")
			http.Error(w, "Não autorizado", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
