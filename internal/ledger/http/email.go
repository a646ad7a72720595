package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
)

// EmailHandler mails the current month of one ledger to the caller as an
// xlsx attachment.
type EmailHandler struct {
	ExportService  *service.ExportService
	ProfileService *service.ProfileService
	Kind           domain.Kind
}

// ServeHTTP handles GET /email/income-excel and GET /email/expense-excel
func (h *EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.ProfileService.Current(ctx, principal(r).ProfileID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}

	if err := h.ExportService.Email(ctx, profile, h.Kind); err != nil {
		writeServiceError(w, r, err, "email "+h.Kind.String()+" report")
		return
	}

	w.WriteHeader(http.StatusOK)
}
