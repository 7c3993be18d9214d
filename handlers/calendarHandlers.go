package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// CalendarHandler devolve a grade do mês (?year=2025&month=3; padrão: mês atual).
func (a *App) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	now := a.now().In(a.loc)
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: ano %q", errBadRequest, v), "Parâmetro inválido")
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: mês %q", errBadRequest, v), "Parâmetro inválido")
			return
		}
		month = time.Month(m)
	}

	if err := a.calendar.Load(r.Context()); err != nil {
		writeError(w, err, "Erro ao carregar calendário")
		return
	}
	grid, err := a.calendar.Month(year, month)
	if err != nil {
		writeError(w, err, "Erro ao montar calendário")
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (a *App) ScheduleMeetingHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  string `json:"date"`
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := a.calendar.Schedule(r.Context(), req.Date, req.Title, a.currentUser())
	if err != nil {
		writeError(w, err, "Erro ao agendar reunião")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
