package gateway

import (
	"context"
	"encoding/json"
	"group-chat/domain"
	"group-chat/domain/event"
	"group-chat/errors"
	"group-chat/sink"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 64 * 1024
)

type inboundFrame struct {
	Event event.Name      `json:"event" validate:"required,oneof=NEW_MESSAGE START_TYPING STOP_TYPING"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

type newMessagePayload struct {
	ChatID  string `json:"chatId" validate:"required"`
	Message string `json:"message" validate:"required,max=4096"`
}

type typingPayload struct {
	ChatID string `json:"chatId" validate:"required"`
}

// closer is implemented by sinks that own a transport.
type closer interface {
	Close()
}

// serveSocket upgrades an authenticated request and binds the connection to the requester.
// The binding is released when the connection ends, unless a newer connection took it over.
func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	userID := requester(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	socket := sink.NewSocketSink(userID, s.cfg.ConnectionBufferSize)
	if previous := s.registry.Bind(userID, socket); previous != nil {
		if c, ok := previous.(closer); ok {
			c.Close()
		}
		s.log.Debug("Connection superseded", "user_id", userID, "connection_id", previous.ConnectionID())
	}
	s.log.Info("User connected", "user_id", userID, "connection_id", socket.ConnectionID())

	ctx := r.Context()
	go s.writePump(ctx, conn, socket)
	s.readPump(ctx, conn, socket)

	if s.registry.UnbindSink(userID, socket) {
		s.log.Info("User disconnected", "user_id", userID, "connection_id", socket.ConnectionID())
	}
	socket.Close()
}

// readPump dispatches inbound frames until the connection fails or the sink is closed.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, socket *sink.SocketSink) {
	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Websocket read failed", "user_id", socket.UserID(), "error", err)
			}
			return
		}
		if err = s.dispatch(ctx, socket.UserID(), raw); err != nil {
			s.reject(ctx, socket, err)
		}
	}
}

// reject answers a refused event with an ALERT to its sender.
// Failures outside the taxonomy are logged as errors and never detailed to the client.
func (s *Server) reject(ctx context.Context, socket *sink.SocketSink, err error) {
	if errors.KindOf(err) == "" {
		s.log.Error("Inbound event failed", "user_id", socket.UserID(), "error", err)
		_ = socket.Consume(ctx, event.Alert{Message: "Internal server error"})
		return
	}
	s.log.Debug("Inbound event rejected", "user_id", socket.UserID(), "error", err)
	_ = socket.Consume(ctx, event.Alert{Message: errors.MessageOf(err)})
}

// writePump is the only writer of conn.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, socket *sink.SocketSink) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case evt := <-socket.Events():
			frame, err := event.Encode(evt)
			if err != nil {
				s.log.Error("Event encoding failed", "event", evt.Name(), "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				socket.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				socket.Close()
				return
			}
		case <-socket.Done():
			closeConn(conn, websocket.ClosePolicyViolation, "connection superseded")
			return
		case <-ctx.Done():
			socket.Close()
			closeConn(conn, websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}

func closeConn(conn *websocket.Conn, code int, reason string) {
	message := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
}

func (s *Server) dispatch(ctx context.Context, userID string, raw []byte) error {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return errors.Validation("Malformed event")
	}
	if err := s.check(&frame); err != nil {
		return err
	}

	switch frame.Event {
	case event.NewMessageName:
		var payload newMessagePayload
		if err := s.unmarshalPayload(frame.Data, &payload); err != nil {
			return err
		}
		_, err := s.messages.SendText(ctx, domain.ChatID(payload.ChatID), userID, payload.Message)
		return err
	case event.StartTypingName, event.StopTypingName:
		var payload typingPayload
		if err := s.unmarshalPayload(frame.Data, &payload); err != nil {
			return err
		}
		return s.messages.Typing(ctx, domain.ChatID(payload.ChatID), userID, frame.Event == event.StartTypingName)
	}
	return errors.Validation("Unknown event " + string(frame.Event))
}

func (s *Server) unmarshalPayload(data json.RawMessage, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Validation("Malformed event payload")
	}
	return s.check(dst)
}
