package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hansol-dev/leaguedesk/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the router; the upgrade accepts any origin.
		return true
	},
}

type LiveHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewLiveHandler(hub *live.Hub, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		logger: logger,
	}
}

// Subscribe handles GET /ws: upgrades the connection and streams change
// events until the client goes away.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn)
	go client.WritePump()
	go client.ReadPump()
}
