package websocket

import (
	"log/slog"
	"net/http"
	"net/url"

	ws "github.com/coder/websocket"
	"github.com/selfgrowth/tracker/internal/ctxkeys"
)

// HandleWebSocket upgrades an authenticated request and runs it as a hub
// client for the requesting user. Origins may be given as full URLs or as
// host patterns.
func HandleWebSocket(hub *Hub, origins []string) http.HandlerFunc {
	originPatterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		originPatterns = append(originPatterns, o)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Warn("websocket accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn, user.ID)
		client.Run(r.Context())
	}
}
