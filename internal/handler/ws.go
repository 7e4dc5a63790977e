package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local host application; tighten if ever exposed
	},
}

// wsRequest is one client frame: the player's revealed move.
type wsRequest struct {
	PlayerMove string `json:"playerMove"`
}

// wsError is sent for frames that cannot be played.
type wsError struct {
	Error string `json:"error"`
}

// ServeWS handles GET /api/v1/sessions/{id}/ws: a live round-by-round
// stream. Each client frame carries a player move; each server frame is the
// completed round result. Rounds stay strictly sequential per session.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	id, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMsgSize)

	h.log.Info().Str("sessionId", id).Msg("WebSocket client connected")
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("sessionId", id).Msg("WebSocket unexpected close")
			}
			return
		}

		var req wsRequest
		reply := any(nil)
		if err := json.Unmarshal(message, &req); err != nil {
			reply = wsError{Error: "invalid JSON frame"}
		} else if playerMove, err := engine.ParseMove(req.PlayerMove); err != nil {
			reply = wsError{Error: err.Error()}
		} else {
			reply = hs.playRound(playerMove)
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
