package handler

import (
	"net/http"

	"github.com/selfgrowth/tracker/internal/ctxkeys"
	"github.com/selfgrowth/tracker/internal/response"
	"github.com/selfgrowth/tracker/internal/service"
)

type AccountHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

func NewAccountHandler(authService *service.AuthService, secureCookie bool) *AccountHandler {
	return &AccountHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type profileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req profileRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.authService.UpdateProfile(user.ID, req.Username, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": updated})
}

// DeleteAccount removes the caller's account with all habits and logs and
// clears the session cookie.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.DeleteAccount(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	clearAuthCookie(w, h.secureCookie)
	response.OK(w, http.StatusOK, "Account deleted successfully", nil)
}
