package http

import (
	"encoding/json"
	"net/http"

	"capitals-quiz/internal/app"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *app.QuizService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// deliver queues msg for the writer. It reports false once the writer has
// stopped, since nothing will drain send after that.
func deliver(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS streams a running session's state over a websocket and accepts
// answers for it. The session is started over REST first.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("session_id", sessionID).Logger()
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("ws write error")
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
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

read:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var msg outboundMessage[any]
		switch inbound.Type {
		case "answer":
			var payload answerRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.TimeRemaining < 0 {
				msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				break
			}
			answered, _, err := h.service.Answer(r.Context(), sessionID, payload.Choice, payload.TimeRemaining)
			if err != nil {
				msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				break
			}
			// The new state follows on the updates channel.
			msg = outboundMessage[any]{Type: "answerResult", Payload: answered}
		default:
			msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
		if !deliver(send, writerDone, msg) {
			break read
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
