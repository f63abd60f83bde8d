package services_test

import (
	"context"
	"fmt"
	"group-chat/domain"
	"group-chat/errors"
	"group-chat/mocks"
	"group-chat/runtime"
	"group-chat/services"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mocked struct {
	chats       *mocks.MockIChatRepository
	messages    *mocks.MockIMessageRepository
	users       *mocks.MockIUserRepository
	attachments *mocks.MockIAttachmentService
	emitter     *mocks.MockEmitter
}

func newMocked(t *testing.T) *mocked {
	ctrl := gomock.NewController(t)
	return &mocked{
		chats:       mocks.NewMockIChatRepository(ctrl),
		messages:    mocks.NewMockIMessageRepository(ctrl),
		users:       mocks.NewMockIUserRepository(ctrl),
		attachments: mocks.NewMockIAttachmentService(ctrl),
		emitter:     mocks.NewMockEmitter(ctrl),
	}
}

func (m *mocked) chatService() *services.ChatService {
	return services.NewChatService(logs.GetLoggerFromLevel(slog.LevelError), runtime.NewKeyedMutex(),
		m.chats, m.messages, m.users, m.attachments, m.emitter)
}

func (m *mocked) messageService() *services.MessageService {
	return services.NewMessageService(logs.GetLoggerFromLevel(slog.LevelError), runtime.NewKeyedMutex(),
		m.chats, m.messages, m.users, m.attachments, m.emitter)
}

func TestChatService_DeleteChat_History_Failure(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	chat := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	boom := fmt.Errorf("value log corrupted")

	// Given the chat is gone but its history cannot be removed
	gomock.InOrder(
		m.chats.EXPECT().GetChat(chat.ID).Return(chat, nil),
		m.messages.EXPECT().GetAttachmentIDs(chat.ID).Return([]string{"p1"}, nil),
		m.chats.EXPECT().DeleteChat(chat.ID).Return(nil),
		m.messages.EXPECT().DeleteMessages(chat.ID).Return(0, boom),
	)
	// Then neither the blobs are purged nor the members told

	err := m.chatService().DeleteChat(context.Background(), chat.ID, "alice")

	req.ErrorIs(err, boom)
	req.Empty(errors.KindOf(err))
}

func TestChatService_DeleteChat_Keeps_Chat_When_Attachments_Unreadable(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	chat := domain.NewDirectChat("alice", "bob", time.Now().UTC())
	m.chats.EXPECT().GetChat(chat.ID).Return(chat, nil)
	m.messages.EXPECT().GetAttachmentIDs(chat.ID).Return(nil, fmt.Errorf("iterator failed"))

	err := m.chatService().DeleteChat(context.Background(), chat.ID, "bob")

	req.ErrorContains(err, "iterator failed")
}

func TestChatService_DeleteChat_Purges_After_Commit(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	chat := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())

	gomock.InOrder(
		m.chats.EXPECT().GetChat(chat.ID).Return(chat, nil),
		m.messages.EXPECT().GetAttachmentIDs(chat.ID).Return([]string{"p1", "p2"}, nil),
		m.chats.EXPECT().DeleteChat(chat.ID).Return(nil),
		m.messages.EXPECT().DeleteMessages(chat.ID).Return(12, nil),
		m.attachments.EXPECT().Purge(gomock.Any(), []string{"p1", "p2"}),
		m.emitter.EXPECT().Emit(chat.Members, gomock.Any()),
	)

	req.NoError(m.chatService().DeleteChat(context.Background(), chat.ID, "alice"))
}

func TestChatService_GetMyChats_Storage_Failure(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.chats.EXPECT().FindChatsByMember("alice").Return(nil, fmt.Errorf("db closed"))

	_, err := m.chatService().GetMyChats(context.Background(), "alice")

	req.Error(err)
	req.Empty(errors.KindOf(err))
}

func TestMessageService_SendAttachments_Purges_When_Store_Fails(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	chat := domain.NewDirectChat("alice", "bob", time.Now().UTC())
	files := []domain.File{{Name: "a.png"}, {Name: "b.png"}}
	uploaded := []domain.Attachment{
		{PublicID: "p1", URL: "u1", Kind: domain.KindImage},
		{PublicID: "p2", URL: "u2", Kind: domain.KindImage},
	}

	m.chats.EXPECT().GetChat(chat.ID).Return(chat, nil).Times(2)
	m.attachments.EXPECT().Upload(gomock.Any(), files).Return(uploaded, nil)
	m.users.EXPECT().GetUser("alice").Return(domain.User{ID: "alice", Name: "Alice"}, nil)
	m.messages.EXPECT().StoreMessage(gomock.Any()).Return(fmt.Errorf("disk full"))

	// Then the orphan blobs are reclaimed and nothing is emitted
	m.attachments.EXPECT().Purge(gomock.Any(), []string{"p1", "p2"})

	_, err := m.messageService().SendAttachments(context.Background(), chat.ID, "alice", files)

	req.ErrorContains(err, "disk full")
}

func TestMessageService_SendText_Unknown_Author(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	chat := domain.NewDirectChat("alice", "bob", time.Now().UTC())
	m.chats.EXPECT().GetChat(chat.ID).Return(chat, nil)
	m.users.EXPECT().GetUser("alice").Return(domain.User{}, errors.NotFound("User not found"))

	_, err := m.messageService().SendText(context.Background(), chat.ID, "alice", "hi")

	req.ErrorIs(err, errors.ErrNotFound)
}
