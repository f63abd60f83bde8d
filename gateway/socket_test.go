package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/domain/event"
	"group-chat/errors"
	"group-chat/mocks"
	"group-chat/repositories"
	"group-chat/runtime"
	"group-chat/runtime/workers"
	"group-chat/services"
	"group-chat/sink"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type liveStack struct {
	url      string
	tokens   *auth.Tokens
	chats    *services.ChatService
	registry *runtime.Registry
}

func newLiveStack(t *testing.T) *liveStack {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	users := repositories.NewUserRepository(db)
	for _, user := range []domain.User{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}, {ID: "carol", Name: "Carol"}} {
		require.NoError(t, users.SaveUser(user))
	}
	chatRepo := repositories.NewChatRepository(db, log)
	messageRepo := repositories.NewMessageRepository(db, log)
	registry := runtime.NewRegistry()
	broadcaster := workers.NewBroadcaster(log, registry, 64, time.Second)
	attachments := services.NewAttachmentService(log, mocks.NewMockBlobStore(gomock.NewController(t)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = broadcaster.Run(ctx) }()

	locks := runtime.NewKeyedMutex()
	stack := &liveStack{
		tokens:   auth.NewTokens(testSecret),
		chats:    services.NewChatService(log, locks, chatRepo, messageRepo, users, attachments, broadcaster),
		registry: registry,
	}
	messages := services.NewMessageService(log, locks, chatRepo, messageRepo, users, attachments, broadcaster)
	server := NewServer(log, Config{ConnectionBufferSize: 16}, stack.tokens, registry, stack.chats, messages, nil)
	httpServer := httptest.NewServer(server.Router())
	t.Cleanup(httpServer.Close)
	stack.url = "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/socket"
	return stack
}

func (s *liveStack) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	token, err := s.tokens.Issue(userID, time.Hour)
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(s.url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return s.registry.IsOnline(userID) }, 2*time.Second, 10*time.Millisecond)
	return conn
}

type received struct {
	Event event.Name      `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// waitFor reads frames until one named name arrives.
func waitFor(t *testing.T, conn *websocket.Conn, name event.Name) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame received
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame.Event == name {
			return frame
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, name event.Name, data any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"event": name, "data": data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func TestSocket_NewMessage_Reaches_Members(t *testing.T) {
	req := require.New(t)
	stack := newLiveStack(t)
	chat, err := stack.chats.CreateGroup(context.Background(), "team", "alice", []string{"bob", "carol"})
	req.NoError(err)
	alice := stack.dial(t, "alice")
	bob := stack.dial(t, "bob")

	// When alice posts through her socket
	send(t, alice, event.NewMessageName, map[string]any{"chatId": chat.ID, "message": "hello"})

	// Then bob receives the message with the sender name
	frame := waitFor(t, bob, event.NewMessageName)
	var payload struct {
		ChatID  domain.ChatID      `json:"chatId"`
		Message domain.LiveMessage `json:"message"`
	}
	req.NoError(json.Unmarshal(frame.Data, &payload))
	req.Equal(chat.ID, payload.ChatID)
	req.Equal("hello", payload.Message.Content)
	req.Equal(domain.Sender{ID: "alice", Name: "Alice"}, payload.Message.Sender)

	// And alice gets her own copy
	waitFor(t, alice, event.NewMessageName)
}

func TestSocket_Typing_Skips_Sender(t *testing.T) {
	req := require.New(t)
	stack := newLiveStack(t)
	chat, err := stack.chats.CreateGroup(context.Background(), "team", "alice", []string{"bob", "carol"})
	req.NoError(err)
	bob := stack.dial(t, "bob")

	send(t, bob, event.StartTypingName, map[string]any{"chatId": chat.ID})
	send(t, bob, event.NewMessageName, map[string]any{"chatId": chat.ID, "message": "marker"})

	// bob sees his message but never his own typing indicator
	req.NoError(bob.SetReadDeadline(time.Now().Add(3 * time.Second)))
	for {
		_, raw, err := bob.ReadMessage()
		req.NoError(err)
		var frame received
		req.NoError(json.Unmarshal(raw, &frame))
		req.NotEqual(event.StartTypingName, frame.Event)
		if frame.Event == event.NewMessageName {
			return
		}
	}
}

func TestSocket_Rejected_Event_Alerts_Sender(t *testing.T) {
	req := require.New(t)
	stack := newLiveStack(t)
	carol := stack.dial(t, "carol")

	send(t, carol, event.NewMessageName, map[string]any{"chatId": domain.NewChatID(), "message": "anyone?"})

	frame := waitFor(t, carol, event.AlertName)
	var alert event.Alert
	req.NoError(json.Unmarshal(frame.Data, &alert))
	req.NotEmpty(alert.Message)

	send(t, carol, "SHOUT", map[string]any{"chatId": "x"})
	waitFor(t, carol, event.AlertName)
}

func TestSocket_Last_Connect_Wins(t *testing.T) {
	req := require.New(t)
	stack := newLiveStack(t)
	first := stack.dial(t, "bob")

	// When bob connects again
	second := stack.dial(t, "bob")

	// Then the first connection is closed by the server
	req.NoError(first.SetReadDeadline(time.Now().Add(3 * time.Second)))
	var err error
	for err == nil {
		_, _, err = first.ReadMessage()
	}
	req.True(websocket.IsCloseError(err, websocket.ClosePolicyViolation), err.Error())

	// And bob stays online through the second one
	_, err = stack.chats.CreateGroup(context.Background(), "team", "alice", []string{"bob", "carol"})
	req.NoError(err)
	req.True(stack.registry.IsOnline("bob"))
	waitFor(t, second, event.RefetchChatsName)
}

func TestSocket_Disconnect_Goes_Offline(t *testing.T) {
	stack := newLiveStack(t)
	conn := stack.dial(t, "alice")

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return !stack.registry.IsOnline("alice") }, 2*time.Second, 10*time.Millisecond)
}

func TestSocket_Reject_Log_Levels(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageService(ctrl)
	var output bytes.Buffer
	log := slog.New(slog.NewTextHandler(&output, &slog.HandlerOptions{Level: slog.LevelInfo}))
	server := NewServer(log, Config{ConnectionBufferSize: 4}, auth.NewTokens(testSecret),
		runtime.NewRegistry(), mocks.NewMockIChatService(ctrl), messages, nil)
	chatID := domain.NewChatID()
	frame := func(text string) []byte {
		return []byte(fmt.Sprintf(`{"event":"NEW_MESSAGE","data":{"chatId":%q,"message":%q}}`, chatID, text))
	}

	t.Run("Storage failure is logged as an error and hidden from the sender", func(t *testing.T) {
		req := require.New(t)
		output.Reset()
		socket := sink.NewSocketSink("carol", 4)
		messages.EXPECT().SendText(gomock.Any(), chatID, "carol", "hello").
			Return(services.Posted{}, fmt.Errorf("store message in chat %s: disk full", chatID))

		err := server.dispatch(context.Background(), "carol", frame("hello"))
		server.reject(context.Background(), socket, err)

		req.Contains(output.String(), `level=ERROR msg="Inbound event failed"`)
		req.Contains(output.String(), "disk full")
		req.Equal(event.Alert{Message: "Internal server error"}, <-socket.Events())
	})

	t.Run("Refused event stays below the default level", func(t *testing.T) {
		req := require.New(t)
		output.Reset()
		socket := sink.NewSocketSink("carol", 4)
		messages.EXPECT().SendText(gomock.Any(), chatID, "carol", "hi").
			Return(services.Posted{}, errors.Forbidden("You are not a member of this chat"))

		err := server.dispatch(context.Background(), "carol", frame("hi"))
		server.reject(context.Background(), socket, err)

		req.Empty(output.String())
		req.Equal(event.Alert{Message: "You are not a member of this chat"}, <-socket.Events())
	})
}
