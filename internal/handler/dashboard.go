package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harthaxer/GsmLabManager/internal/repository"
)

type DashboardHandler struct {
	Repo repository.ReportRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.overview)
}

func (h DashboardHandler) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Repo.Overview(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"todaySales":    ov.TodaySales.StringFixed(2),
		"activeRepairs": ov.ActiveRepairs,
		"lowStockItems": ov.LowStockItems,
	})
}
