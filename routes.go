package main

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"opsdash/config"
	"opsdash/handlers"
	"opsdash/utilities"
)

func newRouter(app *handlers.App) *mux.Router {
	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)
	auth := app.AuthMiddleware

	// --- Rotas de Autenticação e Públicas ---
	r.HandleFunc("/auth/login", app.LoginHandler).Methods("POST")
	r.HandleFunc("/auth/session", app.SessionHandler).Methods("GET")
	r.HandleFunc("/auth/logout", auth(app.LogoutHandler)).Methods("POST")
	r.HandleFunc("/auth/role", auth(app.UpdateRoleHandler)).Methods("PUT")

	r.HandleFunc("/preferences/dock", auth(app.GetDockHandler)).Methods("GET")
	r.HandleFunc("/preferences/dock", auth(app.UpdateDockHandler)).Methods("PUT")
	r.HandleFunc("/notices", auth(app.NoticesHandler)).Methods("GET")

	// --- Tarefas ---
	r.HandleFunc("/tasks", auth(app.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/tasks", auth(app.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/tasks/batch-delete", auth(app.BatchDeleteTasksHandler)).Methods("POST")
	r.HandleFunc("/tasks/{id}/status", auth(app.UpdateTaskStatusHandler)).Methods("PATCH")
	r.HandleFunc("/tasks/{id}", auth(app.DeleteTaskHandler)).Methods("DELETE")

	// --- Reuniões ---
	r.HandleFunc("/meetings", auth(app.ListMeetingsHandler)).Methods("GET")
	r.HandleFunc("/meetings", auth(app.CreateMeetingHandler)).Methods("POST")
	r.HandleFunc("/meetings/{id}", auth(app.UpdateMeetingHandler)).Methods("PUT")
	r.HandleFunc("/meetings/{id}", auth(app.DeleteMeetingHandler)).Methods("DELETE")

	// --- Projetos ---
	r.HandleFunc("/projects", auth(app.ListProjectsHandler)).Methods("GET")
	r.HandleFunc("/projects", auth(app.CreateProjectHandler)).Methods("POST")
	r.HandleFunc("/projects/{id}", auth(app.GetProjectHandler)).Methods("GET")
	r.HandleFunc("/projects/{id}", auth(app.DeleteProjectHandler)).Methods("DELETE")
	r.HandleFunc("/projects/{id}/relation-status", auth(app.UpdateProjectRelationHandler)).Methods("PATCH")
	r.HandleFunc("/projects/{id}/notes", auth(app.UpdateProjectNotesHandler)).Methods("PUT")
	r.HandleFunc("/projects/{id}/tasks", auth(app.CreateProjectTaskHandler)).Methods("POST")

	// --- Calendário e painel ---
	r.HandleFunc("/calendar", auth(app.CalendarHandler)).Methods("GET")
	r.HandleFunc("/calendar/schedule", auth(app.ScheduleMeetingHandler)).Methods("POST")
	r.HandleFunc("/dashboard", auth(app.DashboardHandler)).Methods("GET")
	r.HandleFunc("/analytics/sales", auth(app.SalesHandler)).Methods("GET")
	r.HandleFunc("/analytics/ads", auth(app.AdsHandler)).Methods("GET")
	r.HandleFunc("/analytics/social", auth(app.SocialHandler)).Methods("GET")

	return r
}

func withCORS(h http.Handler, allowedOrigins []string) http.Handler {
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization", handlers.RequestIDHeader})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	exposed := gorillahandlers.ExposedHeaders([]string{"Location", handlers.RequestIDHeader})

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	}
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)
	return gorillahandlers.CORS(headers, methods, exposed, gorillahandlers.AllowedOrigins(allowedOrigins))(h)
}

// LoadRoutes monta o roteador e bloqueia servindo HTTP.
func LoadRoutes(app *handlers.App, cfg *config.Config) error {
	handler := withCORS(newRouter(app), cfg.AllowedOrigins)

	utilities.LogInfo("Servidor iniciado na porta %s", cfg.ServerPort)
	return http.ListenAndServe(":"+cfg.ServerPort, handler)
}
