package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/mocks"
	"group-chat/runtime"
	"group-chat/services"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "a-secret-long-enough-for-tests"

type harness struct {
	router   http.Handler
	tokens   *auth.Tokens
	chats    *mocks.MockIChatService
	messages *mocks.MockIMessageService
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		tokens:   auth.NewTokens(testSecret),
		chats:    mocks.NewMockIChatService(ctrl),
		messages: mocks.NewMockIMessageService(ctrl),
	}
	server := NewServer(logs.GetLoggerFromLevel(slog.LevelError),
		Config{MaxUploadSize: 1 << 20, ConnectionBufferSize: 8, CORSOrigin: "http://app.local"},
		h.tokens, runtime.NewRegistry(), h.chats, h.messages, nil)
	h.router = server.Router()
	return h
}

func (h *harness) do(t *testing.T, userID, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, target, reader)
	r.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := h.tokens.Issue(userID, time.Hour)
		require.NoError(t, err)
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestServer_Requires_Authentication(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	w := h.do(t, "", http.MethodGet, "/api/v1/chat/my", nil)

	req.Equal(http.StatusUnauthorized, w.Code)
}

func TestServer_Healthz_And_Preflight(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	w := h.do(t, "", http.MethodGet, "/healthz", nil)
	req.Equal(http.StatusOK, w.Code)

	w = h.do(t, "", http.MethodOptions, "/api/v1/chat/new", nil)
	req.Equal(http.StatusNoContent, w.Code)
	req.Equal("http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CreateGroup(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	chat := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	h.chats.EXPECT().CreateGroup(gomock.Any(), "team", "alice", []string{"bob", "carol"}).Return(chat, nil)

	w := h.do(t, "alice", http.MethodPost, "/api/v1/chat/new", newGroupRequest{Name: "team", Members: []string{"bob", "carol"}})

	req.Equal(http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	req.Equal(true, body["success"])
	view := body["chat"].(map[string]any)
	req.Equal(string(chat.ID), view["_id"])
	req.Equal(true, view["groupChat"])
}

func TestServer_Validation_Errors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"malformed body", http.MethodPost, "/api/v1/chat/new", "{"},
		{"missing name", http.MethodPost, "/api/v1/chat/new", newGroupRequest{Members: []string{"bob"}}},
		{"empty members", http.MethodPut, "/api/v1/chat/addmembers", addMembersRequest{ChatID: "c1"}},
		{"missing user", http.MethodPut, "/api/v1/chat/removemember", removeMemberRequest{ChatID: "c1"}},
		{"missing peer", http.MethodPost, "/api/v1/chat/direct", directRequest{}},
		{"non numeric page", http.MethodGet, "/api/v1/chat/message/c1?page=two", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			w := h.do(t, "alice", tt.method, tt.target, tt.body)
			req.Equal(http.StatusBadRequest, w.Code)
			req.Equal(string(errors.KindValidation), decodeBody(t, w)["kind"])
		})
	}
}

func TestServer_Maps_Failure_Kinds_To_Status(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", errors.NotFound("Chat not found"), http.StatusNotFound, "Chat not found"},
		{"forbidden", errors.Forbidden("You are not allowed to delete the chat"), http.StatusForbidden, "You are not allowed to delete the chat"},
		{"invariant", domain.ErrGroupTooSmall, http.StatusUnprocessableEntity, "Group must have at least 3 members"},
		{"wrapped", fmt.Errorf("delete: %w", errors.Forbidden("nope")), http.StatusForbidden, "nope"},
		{"internal", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			h := newHarness(t)
			h.chats.EXPECT().DeleteChat(gomock.Any(), domain.ChatID("c1"), "alice").Return(tt.err)

			w := h.do(t, "alice", http.MethodDelete, "/api/v1/chat/c1", nil)

			req.Equal(tt.status, w.Code)
			body := decodeBody(t, w)
			req.Equal(false, body["success"])
			req.Equal(tt.message, body["message"])
		})
	}
}

func TestServer_Static_Routes_Win_Over_Id(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.chats.EXPECT().GetMyGroups(gomock.Any(), "alice").Return([]services.ChatSummary{{ID: "g1", IsGroup: true, Name: "team"}}, nil)
	h.chats.EXPECT().GetMyChats(gomock.Any(), "alice").Return(nil, nil)

	w := h.do(t, "alice", http.MethodGet, "/api/v1/chat/my/groups", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Len(decodeBody(t, w)["groups"], 1)

	w = h.do(t, "alice", http.MethodGet, "/api/v1/chat/my", nil)
	req.Equal(http.StatusOK, w.Code)
}

func TestServer_GetChatDetails_Populate(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	chat := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	h.chats.EXPECT().GetChatDetails(gomock.Any(), chat.ID, "bob", true).Return(services.ChatDetails{
		Chat:    chat,
		Members: []domain.User{{ID: "alice", Name: "Alice", Avatar: "a.png"}, {ID: "bob", Name: "Bob"}, {ID: "carol", Name: "Carol"}},
	}, nil)

	w := h.do(t, "bob", http.MethodGet, "/api/v1/chat/"+string(chat.ID)+"?populate=true", nil)

	req.Equal(http.StatusOK, w.Code)
	members := decodeBody(t, w)["chat"].(map[string]any)["members"].([]any)
	req.Len(members, 3)
	req.Equal(map[string]any{"_id": "alice", "name": "Alice", "avatar": "a.png"}, members[0])
}

func TestServer_GetMessages(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.messages.EXPECT().ListPage(gomock.Any(), domain.ChatID("c1"), "alice", 2).Return(services.Page{
		Messages:   []domain.Message{{ChatID: "c1", SenderID: "bob", Content: "hi"}},
		TotalPages: 3,
	}, nil)

	w := h.do(t, "alice", http.MethodGet, "/api/v1/chat/message/c1?page=2", nil)

	req.Equal(http.StatusOK, w.Code)
	body := decodeBody(t, w)
	req.EqualValues(3, body["totalPages"])
	message := body["messages"].([]any)[0].(map[string]any)
	req.Equal("bob", message["sender"])
	req.Equal([]any{}, message["attachments"])
}

func TestServer_SendAttachments(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	req.NoError(form.WriteField("chatId", "c1"))
	for _, name := range []string{"a.png", "b.pdf"} {
		part, err := form.CreateFormFile("files", name)
		req.NoError(err)
		_, err = part.Write([]byte("content of " + name))
		req.NoError(err)
	}
	req.NoError(form.Close())

	h.messages.EXPECT().SendAttachments(gomock.Any(), domain.ChatID("c1"), "alice", []domain.File{
		{Name: "a.png", Data: []byte("content of a.png")},
		{Name: "b.pdf", Data: []byte("content of b.pdf")},
	}).Return(services.Posted{Message: domain.Message{ChatID: "c1", SenderID: "alice"}}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", &buf)
	r.Header.Set("Content-Type", form.FormDataContentType())
	token, err := h.tokens.Issue("alice", time.Hour)
	req.NoError(err)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code, w.Body.String())
}

func TestServer_SendAttachments_Missing_Chat(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	req.NoError(form.Close())
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", strings.NewReader(buf.String()))
	r.Header.Set("Content-Type", form.FormDataContentType())
	token, err := h.tokens.Issue("alice", time.Hour)
	req.NoError(err)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)

	req.Equal(http.StatusBadRequest, w.Code)
}
