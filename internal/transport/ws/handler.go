package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"nightfall/internal/app"
	"nightfall/internal/domain"
)

// Handler upgrades player connections
type Handler struct {
	session  *app.GameSession
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(session *app.GameSession, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the channel carries no credentials, any page may open it
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := domain.PlayerID(r.URL.Query().Get("player"))
	if playerID == "" {
		http.Error(w, "player is required", http.StatusBadRequest)
		return
	}
	if !h.session.HasPlayer(playerID) {
		http.Error(w, "unknown player", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.session, playerID, h.logger)

	// one live channel per player; a newer tab replaces the older one
	if previous := h.session.RegisterClient(client); previous != nil {
		h.logger.Debug("replacing websocket", "playerID", playerID)
		previous.Close()
	}

	h.logger.Info("websocket connected", "playerID", playerID, "connected", h.session.ConnectedCount())

	client.Run()

	h.logger.Info("websocket disconnected", "playerID", playerID)
}
