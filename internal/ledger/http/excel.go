package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
)

// ExcelHandler streams the current month of one ledger as an xlsx download.
type ExcelHandler struct {
	ExportService *service.ExportService
	Kind          domain.Kind
}

// ServeHTTP handles GET /excel/download/incomes and GET /excel/download/expenses
func (h *ExcelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report, err := h.ExportService.Build(r.Context(), principal(r).ProfileID, h.Kind)
	if err != nil {
		writeServiceError(w, r, err, "export "+h.Kind.Plural())
		return
	}

	httpx.WriteAttachment(w, report.ContentType, report.Filename, report.Data)
}
