package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/selfgrowth/tracker/internal/ctxkeys"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/response"
	"github.com/selfgrowth/tracker/internal/service"
)

const authCookieName = "auth_token"

type AuthHandler struct {
	authService  *service.AuthService
	jwtExpiry    time.Duration
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, jwtExpiry time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		jwtExpiry:    jwtExpiry,
		secureCookie: secureCookie,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.issueToken(w, r, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.issueToken(w, r, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.secureCookie)
	response.OK(w, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	response.OK(w, http.StatusOK, "", map[string]any{"user": user})
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, status int, message string, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, status, message, authPayload{User: user, Token: token})
}

func clearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
