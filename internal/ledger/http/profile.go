package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

// ProfileHandler serves registration, activation, login and the caller's
// own profile.
type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// HandleRegister handles POST /register.
func (h *ProfileHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	profile, err := h.ProfileService.Register(r.Context(), service.Registration{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err, "register profile")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newProfileResponse(profile))
}

// HandleActivate handles GET /activate?token=. It is opened from the
// activation mail, so both outcomes are plain text.
func (h *ProfileHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.ProfileService.Activate(ctx, r.URL.Query().Get("token"))
	switch {
	case err == nil:
		httpx.WriteText(w, http.StatusOK, "Profile activated successfully")
	case errors.Is(err, service.ErrActivationTokenInvalid), errors.Is(err, service.ErrAlreadyActivated):
		httpx.WriteText(w, http.StatusNotFound, "Activation token not found or already used")
	default:
		log.Error("failed to activate profile", "err", err)
		httpx.WriteText(w, http.StatusInternalServerError, "Failed to activate profile")
	}
}

// HandleLogin handles POST /login.
func (h *ProfileHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.ProfileService.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrAccountInactive) {
		httpx.WriteError(w, http.StatusForbidden, "account_inactive",
			"Account not active for this email : "+req.Email+". Please activate your account first !")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  newProfileResponse(result.Profile),
	})
}

// HandleProfile handles GET /profile.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ProfileService.Current(r.Context(), principal(r).ProfileID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(profile))
}
