package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/HackrsValv/design-critic/internal/app"
	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// wsFrame is one message of the streaming critique protocol. Exactly one of
// Event, Result or Error is set.
type wsFrame struct {
	Type   string                     `json:"type"`
	Event  *app.StageEvent            `json:"event,omitempty"`
	Result *critique.CritiqueResponse `json:"result,omitempty"`
	Error  *ErrorResponse             `json:"error,omitempty"`
}

// handleCritiqueWS runs one critique over a WebSocket, streaming pipeline
// stage events before the final result. The client sends a single
// CritiqueRequest JSON message and then only reads.
func (s *Server) handleCritiqueWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var req critique.CritiqueRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", Error: &ErrorResponse{
			Error:   string(critique.KindValidation),
			Message: "invalid JSON",
		}})
		return
	}

	onStage := func(ev app.StageEvent) {
		_ = conn.WriteJSON(wsFrame{Type: "stage", Event: &ev})
	}

	resp, err := s.orchestrator.Critique(r.Context(), &req, onStage)
	if err != nil {
		_, kind, msg := statusForError(err)
		_ = conn.WriteJSON(wsFrame{Type: "error", Error: &ErrorResponse{
			Error:   string(kind),
			Message: msg,
		}})
		return
	}

	_ = conn.WriteJSON(wsFrame{Type: "result", Result: resp})

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
