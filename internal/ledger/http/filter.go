package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
)

type FilterHandler struct {
	Incomes  *service.LedgerService
	Expenses *service.LedgerService
}

// ServeHTTP handles POST /filter
func (h *FilterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	kind, err := domain.ParseKind(req.Type)
	if err != nil {
		writeBadRequest(w, `Invalid filter type. Must be "income" or "expense" !`)
		return
	}

	ledger := h.Incomes
	if kind == domain.KindExpense {
		ledger = h.Expenses
	}

	entries, err := ledger.Filter(r.Context(), principal(r).ProfileID, service.FilterQuery{
		StartDate: req.StartDate.value(),
		EndDate:   req.EndDate.value(),
		Keyword:   req.Keyword,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		writeServiceError(w, r, err, "filter "+kind.Plural())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTransactionResponses(entries))
}
