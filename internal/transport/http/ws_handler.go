package http

import (
	"net/http"

	"quizzler/internal/domain"
)

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// serveScoreboardWS streams scoreboard snapshots: the current standings on
// connect, then one message per change for as long as the client stays
// connected.
func (h *Handler) serveScoreboardWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	rows, err := h.service.Scoreboard(r.Context())
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: map[string]string{"message": err.Error()}})
		return
	}
	if err := conn.WriteJSON(wsMessage{Type: "scoreboard", Payload: domain.Scoreboard{Rows: rows}}); err != nil {
		return
	}

	updates, cancel := h.service.SubscribeScoreboard(r.Context())
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for update := range updates {
			if err := conn.WriteJSON(wsMessage{Type: "scoreboard", Payload: update}); err != nil {
				h.logger.Warn("ws write failed", "error", err)
				return
			}
		}
	}()

	// Drain the connection to notice the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}
