//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"group-chat/contract"
	"group-chat/domain"
	"group-chat/domain/event"
	"group-chat/errors"
	"group-chat/repositories"
	"group-chat/runtime"
	"group-chat/runtime/workers"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultPageSize is the number of messages returned per history page.
const DefaultPageSize = 20

type IMessageService interface {
	Append(ctx context.Context, chatID domain.ChatID, sender, content string, attachments []domain.Attachment) (Posted, error)
	SendText(ctx context.Context, chatID domain.ChatID, sender, content string) (Posted, error)
	SendAttachments(ctx context.Context, chatID domain.ChatID, sender string, files []domain.File) (Posted, error)
	ListPage(ctx context.Context, chatID domain.ChatID, requester string, page int) (Page, error)
	Typing(ctx context.Context, chatID domain.ChatID, sender string, typing bool) error
}

// Posted is the result of a successful append.
type Posted struct {
	Message domain.Message
	Live    domain.LiveMessage
	Members []string
}

// Page is one slice of a chat history, oldest first.
type Page struct {
	Messages   []domain.Message
	TotalPages int
}

// Censor masks forbidden words of a message text and reports the words it found.
type Censor interface {
	Censor(text string) (string, []string)
}

// MessageService appends messages to chats and serves their history.
// The membership check and the write of a message happen under the per-chat
// lock shared with ChatService, so a message never outlives its chat.
type MessageService struct {
	log         *slog.Logger
	locks       *runtime.KeyedMutex
	chats       repositories.IChatRepository
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository
	attachments IAttachmentService
	emitter     contract.Emitter
	censor      Censor
	pageSize    int
	clock       *monotonicClock
}

type MessageServiceOption func(*MessageService)

// WithCensor filters the text of every appended message.
func WithCensor(censor Censor) MessageServiceOption {
	return func(s *MessageService) { s.censor = censor }
}

func NewMessageService(log *slog.Logger,
	locks *runtime.KeyedMutex,
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	attachments IAttachmentService,
	emitter contract.Emitter,
	options ...MessageServiceOption) *MessageService {
	s := &MessageService{
		log:         log,
		locks:       locks,
		chats:       chats,
		messages:    messages,
		users:       users,
		attachments: attachments,
		emitter:     emitter,
		pageSize:    DefaultPageSize,
		clock:       &monotonicClock{now: time.Now},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Append stores a message from sender in the chat. It emits nothing.
func (s *MessageService) Append(ctx context.Context, chatID domain.ChatID, sender, content string, attachments []domain.Attachment) (Posted, error) {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()
	return s.append(chatID, sender, content, attachments)
}

// post appends and announces while holding the chat lock, so that no deletion
// or removal can slip between the membership check and the broadcast.
func (s *MessageService) post(chatID domain.ChatID, sender, content string, attachments []domain.Attachment) (Posted, error) {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()
	posted, err := s.append(chatID, sender, content, attachments)
	if err != nil {
		return Posted{}, err
	}
	s.announce(posted)
	return posted, nil
}

func (s *MessageService) append(chatID domain.ChatID, sender, content string, attachments []domain.Attachment) (Posted, error) {
	chat, err := s.memberChat(chatID, sender)
	if err != nil {
		return Posted{}, err
	}
	if s.censor != nil && content != "" {
		censored, words := s.censor.Censor(content)
		if len(words) > 0 {
			s.log.Info("Message censored", "chat_id", chatID, "sender", sender, "words", len(words))
			content = censored
		}
	}
	message := domain.Message{
		ID:          uuid.New(),
		ChatID:      chatID,
		SenderID:    sender,
		Content:     content,
		Attachments: attachments,
		CreatedAt:   s.clock.Now(),
	}
	if err = message.Validate(); err != nil {
		return Posted{}, err
	}
	author, err := s.users.GetUser(sender)
	if err != nil {
		return Posted{}, err
	}
	if err = s.messages.StoreMessage(message); err != nil {
		return Posted{}, fmt.Errorf("store message in chat %s: %w", chatID, err)
	}
	return Posted{
		Message: message,
		Live:    message.Live(author),
		Members: chat.Members,
	}, nil
}

// SendText appends a text message and notifies every member, the sender included.
func (s *MessageService) SendText(ctx context.Context, chatID domain.ChatID, sender, content string) (Posted, error) {
	return s.post(chatID, sender, content, nil)
}

// SendAttachments uploads the files then appends them as one message.
// Uploads run outside the chat lock, membership is checked again before the write.
// Blobs uploaded for a message that could not be stored are purged.
func (s *MessageService) SendAttachments(ctx context.Context, chatID domain.ChatID, sender string, files []domain.File) (Posted, error) {
	if _, err := s.memberChat(chatID, sender); err != nil {
		return Posted{}, err
	}
	attachments, err := s.attachments.Upload(ctx, files)
	if err != nil {
		return Posted{}, err
	}
	posted, err := s.post(chatID, sender, "", attachments)
	if err != nil {
		s.attachments.Purge(ctx, lo.Map(attachments, func(a domain.Attachment, _ int) string {
			return a.PublicID
		}))
		return Posted{}, err
	}
	return posted, nil
}

// ListPage returns the page-th page of the history, counting from the newest messages.
// Messages inside a page are in chronological order.
func (s *MessageService) ListPage(ctx context.Context, chatID domain.ChatID, requester string, page int) (Page, error) {
	if _, err := s.memberChat(chatID, requester); err != nil {
		return Page{}, err
	}
	page = max(page, 1)
	messages, err := s.messages.GetPage(chatID, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list messages of chat %s: %w", chatID, err)
	}
	count, err := s.messages.CountMessages(chatID)
	if err != nil {
		return Page{}, fmt.Errorf("count messages of chat %s: %w", chatID, err)
	}
	return Page{
		Messages:   lo.Reverse(messages),
		TotalPages: (count + s.pageSize - 1) / s.pageSize,
	}, nil
}

// Typing relays a typing indicator to the other members of the chat.
func (s *MessageService) Typing(ctx context.Context, chatID domain.ChatID, sender string, typing bool) error {
	chat, err := s.memberChat(chatID, sender)
	if err != nil {
		return err
	}
	var evt event.Event = event.StopTyping{ChatID: chatID}
	if typing {
		evt = event.StartTyping{ChatID: chatID}
	}
	s.emitter.Emit(workers.Except(chat.Members, sender), evt)
	return nil
}

func (s *MessageService) announce(posted Posted) {
	chatID := posted.Message.ChatID
	s.emitter.Emit(posted.Members, event.NewMessage{ChatID: chatID, Message: posted.Live})
	s.emitter.Emit(posted.Members, event.NewMessageAlert{ChatID: chatID})
	s.log.Debug("Message posted",
		"chat_id", chatID,
		"message_id", posted.Message.ID,
		"attachments", len(posted.Message.Attachments))
}

func (s *MessageService) memberChat(chatID domain.ChatID, userID string) (domain.Chat, error) {
	chat, err := s.chats.GetChat(chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	if !chat.IsMember(userID) {
		return domain.Chat{}, errors.Forbidden("You are not a member of this chat")
	}
	return chat, nil
}

// monotonicClock never returns the same instant twice, so that storage
// key order always matches append order.
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Nanosecond)
	}
	c.last = now
	return now
}
