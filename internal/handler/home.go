package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/selfgrowth/tracker/internal/response"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HomeHandler struct {
	appName string
	db      Pinger
}

func NewHomeHandler(appName string, db Pinger) *HomeHandler {
	return &HomeHandler{appName: appName, db: db}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	response.OK(w, http.StatusOK, h.appName+" API", map[string]any{
		"endpoints": []string{"/api/auth", "/api/habits", "/api/ws", "/api/health"},
	})
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	response.OK(w, http.StatusOK, "Server is running", map[string]any{
		"timestamp": time.Now().UTC(),
	})
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.Error(w, http.StatusNotFound, "Route not found")
}
