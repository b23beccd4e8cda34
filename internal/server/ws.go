package server

import (
	"net/http"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The camera page may be served from any origin during development;
	// session mutation still goes through the API-key-protected routes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsError is the per-frame error payload sent back over the socket.
type wsError struct {
	Error string `json:"error"`
}

// handleDetectWS upgrades to a WebSocket and runs the live detection loop:
// the client sends one keypoint frame per message, the server answers with
// one analysis result. Bad frames get an error message and the loop
// continues; session lifecycle stays under /api/v1/detect.
func (s *Server) handleDetectWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.log.Info("detection stream connected", "remote", r.RemoteAddr)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("detection stream read error", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		snap, err := models.ParseFrame(data)
		if err != nil {
			if err := conn.WriteJSON(wsError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		analysis := s.tracker.Observe(snap)
		if analysis == nil {
			if err := conn.WriteJSON(wsError{Error: "no active detection session"}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(analysis); err != nil {
			s.log.Warn("detection stream write error", "error", err)
			return
		}
	}
}
