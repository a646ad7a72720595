package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
)

type DashboardHandler struct {
	DashboardService *service.DashboardService
}

// ServeHTTP handles GET /dashboard
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.DashboardService.Build(r.Context(), principal(r).ProfileID)
	if err != nil {
		writeServiceError(w, r, err, "build dashboard")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newDashboardResponse(dashboard))
}
