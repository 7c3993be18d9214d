package handlers

import (
	"net/http"

	"opsdash/analytics"
	"opsdash/views"
)

// rangeFrom lê ?preset=&start=&end=; sem preset vale last7days.
func (a *App) rangeFrom(r *http.Request) (analytics.DateRange, error) {
	q := r.URL.Query()
	return analytics.RangeFor(analytics.Preset(q.Get("preset")), q.Get("start"), q.Get("end"), a.now(), a.loc)
}

type dashboardResponse struct {
	Recent    views.Recent     `json:"recent"`
	Analytics *views.Analytics `json:"analytics"`
}

// DashboardHandler devolve os recentes e o painel de indicadores. Se uma
// atualização mais nova terminou antes, é ela que vai na resposta.
func (a *App) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dr, err := a.rangeFrom(r)
	if err != nil {
		writeError(w, err, "Período inválido")
		return
	}
	recent, err := a.dashboard.Recent(r.Context())
	if err != nil {
		writeError(w, err, "Erro ao carregar painel")
		return
	}
	a.dashboard.Refresh(r.Context(), dr)
	writeJSON(w, http.StatusOK, dashboardResponse{Recent: recent, Analytics: a.dashboard.Current()})
}

func (a *App) SalesHandler(w http.ResponseWriter, r *http.Request) {
	dr, err := a.rangeFrom(r)
	if err != nil {
		writeError(w, err, "Período inválido")
		return
	}
	writeJSON(w, http.StatusOK, a.sales.FetchSummary(r.Context(), dr))
}

func (a *App) AdsHandler(w http.ResponseWriter, r *http.Request) {
	dr, err := a.rangeFrom(r)
	if err != nil {
		writeError(w, err, "Período inválido")
		return
	}
	writeJSON(w, http.StatusOK, a.ads.FetchSummary(r.Context(), dr))
}

func (a *App) SocialHandler(w http.ResponseWriter, r *http.Request) {
	dr, err := a.rangeFrom(r)
	if err != nil {
		writeError(w, err, "Período inválido")
		return
	}
	writeJSON(w, http.StatusOK, a.social.FetchSummary(r.Context(), dr))
}

// NoticesHandler entrega e limpa os avisos pendentes.
func (a *App) NoticesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.notices.Notices())
}
