package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kunalroy0223/liveiq/internal/app"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and streams change
// notifications. The wall role is open; admin and player connections
// present a session token. Players may also send answer submissions.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	role := app.Role(r.URL.Query().Get("role"))
	switch role {
	case app.RoleAdmin, app.RolePlayer, app.RoleWall:
	default:
		http.Error(w, "role must be admin, player, or wall", http.StatusBadRequest)
		return
	}

	userID := ""
	if role != app.RoleWall {
		claims, err := s.tokens.Parse(r.URL.Query().Get("token"))
		if err != nil || claims.Role != string(role) {
			http.Error(w, "invalid token for role", http.StatusUnauthorized)
			return
		}
		userID = claims.Subject
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if role == app.RolePlayer {
		s.users.Touch(r.Context(), userID)
	}

	updates, cancel := s.hub.Subscribe(role, userID)
	defer cancel()

	send := make(chan app.Event, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; everything else funnels through send.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- update:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Initial snapshot so late joiners render without waiting for a change.
	snapshot, err := s.live.Snapshot(r.Context(), role)
	if err != nil {
		send <- app.Event{Type: "error", Payload: errorPayload{Message: err.Error()}}
	} else {
		for _, ev := range snapshot {
			send <- ev
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			if role != app.RolePlayer {
				send <- app.Event{Type: "error", Payload: errorPayload{Message: "only players may answer"}}
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- app.Event{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			sub, err := s.live.SubmitAnswer(r.Context(), userID, payload.Answer)
			if err != nil {
				send <- app.Event{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- app.Event{Type: "submitted", Payload: sub}
		default:
			send <- app.Event{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
