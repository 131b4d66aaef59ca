package handler

import (
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Store *store.Store
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
}

// summary is the home screen: sales/dues rollups plus recent bills, newest
// first.
func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	stats := h.Store.Stats()
	bills := h.Store.Bills()

	recent := make([]map[string]any, 0, len(bills))
	for i := len(bills) - 1; i >= 0; i-- {
		recent = append(recent, toBillResponse(bills[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalSales":  stats.TotalSales,
		"totalDues":   stats.TotalDues,
		"billCount":   len(bills),
		"recentBills": recent,
	})
}
