package http

import (
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
)

// CategoryHandler handles all category endpoints. Every route is scoped to
// the calling profile.
type CategoryHandler struct {
	CategoryService *service.CategoryService
}

func (req CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: req.Name, Icon: req.Icon, Type: req.Type}
}

// HandleCreate handles POST /categories
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	category, err := h.CategoryService.Add(r.Context(), principal(r).ProfileID, req.input())
	if err != nil {
		writeServiceError(w, r, err, "create category")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newCategoryResponse(category))
}

// HandleList handles GET /categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.List(r.Context(), principal(r).ProfileID)
	if err != nil {
		writeServiceError(w, r, err, "list categories")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newCategoryResponses(categories))
}

// HandleListByType handles GET /categories/{type}
func (h *CategoryHandler) HandleListByType(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.ListByType(r.Context(), principal(r).ProfileID, r.PathValue("type"))
	if err != nil {
		writeServiceError(w, r, err, "list categories")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newCategoryResponses(categories))
}

// HandleUpdate handles PUT /categories/{categoryId}
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	category, err := h.CategoryService.Update(r.Context(), principal(r).ProfileID, r.PathValue("categoryId"), req.input())
	if err != nil {
		writeServiceError(w, r, err, "update category")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newCategoryResponse(category))
}
