package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
)

// TransactionHandler serves one ledger. The router mounts an instance per
// kind, under /incomes and /expenses.
type TransactionHandler struct {
	LedgerService *service.LedgerService
}

// HandleCreate handles POST /incomes and POST /expenses
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, err := h.LedgerService.Add(r.Context(), principal(r).ProfileID, service.TransactionInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Icon:       req.Icon,
		Amount:     req.Amount,
		Date:       req.Date.value(),
	})
	if err != nil {
		writeServiceError(w, r, err, "add "+h.LedgerService.Kind.String())
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newTransactionResponse(entry))
}

// HandleList handles GET /incomes and GET /expenses: the current month.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.LedgerService.ListCurrentMonth(r.Context(), principal(r).ProfileID)
	if err != nil {
		writeServiceError(w, r, err, "list "+h.LedgerService.Kind.Plural())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTransactionResponses(entries))
}

// HandleDelete handles DELETE /incomes/{id} and DELETE /expenses/{id}
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.LedgerService.Delete(r.Context(), principal(r).ProfileID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete "+h.LedgerService.Kind.String())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
