package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

// serviceErrors maps service sentinels to a status and error code. The
// sentinel's own text is the message.
var serviceErrors = []struct {
	target error
	status int
	code   string
}{
	{service.ErrEmailTaken, http.StatusConflict, "conflict"},
	{service.ErrCategoryExists, http.StatusConflict, "conflict"},

	{service.ErrProfileNotFound, http.StatusNotFound, "not_found"},
	{service.ErrCategoryNotFound, http.StatusNotFound, "not_found"},
	{service.ErrTransactionNotFound, http.StatusNotFound, "not_found"},

	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrAccountInactive, http.StatusForbidden, "account_inactive"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
	{service.ErrAuthFailure, http.StatusUnauthorized, "unauthorized"},

	{service.ErrInvalidRegistration, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidCategory, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidKind, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidTransaction, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidAmount, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidSortField, http.StatusBadRequest, "invalid_request"},
}

// writeServiceError answers err with its mapped status. Anything unmapped is
// logged and answered with a generic 500 naming the failed action.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.target) {
			httpx.WriteError(w, e.status, e.code, e.target.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error("failed to "+action, "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to "+action)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", message)
}

// principal returns the caller bound by the gate. Routes using it sit behind
// RequireIdentity.
func principal(r *http.Request) httpx.Principal {
	p, _ := httpx.PrincipalFromContext(r.Context())
	return p
}
