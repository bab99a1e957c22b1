package routes

import (
	"net/http"

	"github.com/selfgrowth/tracker/internal/app"
	"github.com/selfgrowth/tracker/internal/handler"
	"github.com/selfgrowth/tracker/internal/middleware"
	"github.com/selfgrowth/tracker/internal/websocket"
)

func SetupRoutes(app *app.App) http.Handler {
	origins := middleware.ParseOrigins(app.Cfg.ClientURL)

	// Handlers
	home := handler.NewHomeHandler(app.Cfg.AppName, app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.JWTExpiry, app.Cfg.IsProduction())
	account := handler.NewAccountHandler(app.AuthService, app.Cfg.IsProduction())
	habit := handler.NewHabitHandler(app.HabitService, app.ExportService, app.Hub)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Index)
	mux.HandleFunc("GET /api/health", home.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(middleware.ParseTrustedProxies(app.Cfg.TrustedProxies))

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/profile", middleware.RequireAuth(auth.Profile))

	// Account
	mux.HandleFunc("PUT /api/users/profile", middleware.RequireAuth(account.UpdateProfile))
	mux.HandleFunc("DELETE /api/users/account", middleware.RequireAuth(account.DeleteAccount))

	// Habits
	mux.HandleFunc("POST /api/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("GET /api/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("GET /api/habits/stats", middleware.RequireAuth(habit.Stats))
	mux.HandleFunc("GET /api/dashboard/stats", middleware.RequireAuth(habit.Stats))
	mux.HandleFunc("GET /api/habits/export", middleware.RequireAuth(habit.Export))
	mux.HandleFunc("POST /api/habits/export", middleware.RequireAuth(habit.Archive))
	mux.HandleFunc("GET /api/habits/{id}", middleware.RequireAuth(habit.Get))
	mux.HandleFunc("PUT /api/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("POST /api/habits/{id}/log", middleware.RequireAuth(habit.Log))
	mux.HandleFunc("GET /api/habits/{id}/logs", middleware.RequireAuth(habit.Logs))
	mux.HandleFunc("GET /api/habits/{id}/streak", middleware.RequireAuth(habit.Streak))

	// Live updates
	mux.HandleFunc("GET /api/ws", middleware.RequireAuth(websocket.HandleWebSocket(app.Hub, origins)))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.SecurityHeaders,
		middleware.CORS(origins),
		middleware.RequestLogging,
		middleware.BodyLimit,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
