//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
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
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type IChatService interface {
	CreateGroup(ctx context.Context, name, founder string, members []string) (domain.Chat, error)
	AddMembers(ctx context.Context, chatID domain.ChatID, requester string, candidates []string) (domain.Chat, error)
	RemoveMember(ctx context.Context, chatID domain.ChatID, requester, target string) (domain.Chat, error)
	LeaveGroup(ctx context.Context, chatID domain.ChatID, requester string) (domain.Chat, error)
	RenameGroup(ctx context.Context, chatID domain.ChatID, requester, name string) (domain.Chat, error)
	DeleteChat(ctx context.Context, chatID domain.ChatID, requester string) error
	OpenDirectChat(ctx context.Context, requester, peer string) (domain.Chat, error)
	GetMyChats(ctx context.Context, requester string) ([]ChatSummary, error)
	GetMyGroups(ctx context.Context, requester string) ([]ChatSummary, error)
	GetChatDetails(ctx context.Context, chatID domain.ChatID, requester string, populate bool) (ChatDetails, error)
}

// Succession picks the next creator of a group among its remaining members.
type Succession func(remaining []string) string

// RandomSuccession hands the group to a uniformly random remaining member.
// This is the policy applied when a creator leaves: no explicit successor is asked for.
func RandomSuccession(remaining []string) string {
	return remaining[rand.IntN(len(remaining))]
}

// ChatSummary is the list view of a chat from the requester's point of view.
type ChatSummary struct {
	ID      domain.ChatID `json:"_id"`
	IsGroup bool          `json:"groupChat"`
	Name    string        `json:"name"`
	Avatars []string      `json:"avatar"`
	Members []string      `json:"members,omitempty"`
}

// ChatDetails is a chat with, when populated, the display fields of its members.
type ChatDetails struct {
	Chat    domain.Chat
	Members []domain.User
}

// ChatService owns the chat lifecycle and the membership invariants.
// Every privileged group operation is authorized against the creator.
// Mutations of one chat are serialized by a per-chat lock around the
// storage transaction; events are emitted only after the commit.
// The lock set is shared with MessageService.
type ChatService struct {
	log         *slog.Logger
	chats       repositories.IChatRepository
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository
	attachments IAttachmentService
	emitter     contract.Emitter
	locks       *runtime.KeyedMutex
	succession  Succession
	now         func() time.Time
}

type ChatServiceOption func(*ChatService)

func WithSuccession(succession Succession) ChatServiceOption {
	return func(s *ChatService) { s.succession = succession }
}

func NewChatService(log *slog.Logger,
	locks *runtime.KeyedMutex,
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	attachments IAttachmentService,
	emitter contract.Emitter,
	options ...ChatServiceOption) *ChatService {
	s := &ChatService{
		log:         log,
		chats:       chats,
		messages:    messages,
		users:       users,
		attachments: attachments,
		emitter:     emitter,
		locks:       locks,
		succession:  RandomSuccession,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// CreateGroup creates a group owned by founder. founder must not be listed in members.
func (s *ChatService) CreateGroup(ctx context.Context, name, founder string, members []string) (domain.Chat, error) {
	if lo.Contains(members, founder) {
		return domain.Chat{}, errors.Invariant("The creator is added automatically and cannot be invited")
	}
	invited := lo.Uniq(members)
	all := append([]string{founder}, invited...)
	if len(all) < domain.MinGroupMembers {
		return domain.Chat{}, domain.ErrGroupTooSmall
	}
	if len(all) > domain.MaxGroupMembers {
		return domain.Chat{}, domain.ErrGroupTooLarge
	}
	if _, err := s.users.GetUsers(all); err != nil {
		return domain.Chat{}, err
	}

	chat := domain.NewGroupChat(name, founder, all, s.now())
	if err := s.chats.CreateChat(chat); err != nil {
		return domain.Chat{}, err
	}
	s.log.Info("Group created", "chat_id", chat.ID, "creator", founder, "members", len(all))

	s.emitter.Emit(chat.Members, event.Alert{Message: fmt.Sprintf("Welcome to %s group chat", name)})
	s.emitter.Emit(invited, event.RefetchChats{ChatID: chat.ID})
	return chat, nil
}

// AddMembers appends the candidates who are not members yet.
func (s *ChatService) AddMembers(ctx context.Context, chatID domain.ChatID, requester string, candidates []string) (domain.Chat, error) {
	candidates = lo.Uniq(candidates)
	if len(candidates) == 0 {
		return domain.Chat{}, errors.Invariant("Please provide members")
	}
	users, err := s.users.GetUsers(candidates)
	if err != nil {
		return domain.Chat{}, err
	}

	unlock := s.locks.Lock(string(chatID))
	defer unlock()

	var added []string
	chat, err := s.chats.UpdateChat(chatID, func(chat *domain.Chat) error {
		if err := requireCreator(chat, requester, "add members"); err != nil {
			return err
		}
		added = lo.Reject(candidates, func(candidate string, _ int) bool {
			return chat.IsMember(candidate)
		})
		chat.Members = append(chat.Members, added...)
		if len(chat.Members) > domain.MaxGroupMembers {
			return domain.ErrGroupTooLarge
		}
		return nil
	})
	if err != nil {
		return domain.Chat{}, err
	}
	if len(added) == 0 {
		return chat, nil
	}

	names := lo.FilterMap(users, func(user domain.User, _ int) (string, bool) {
		return user.Name, lo.Contains(added, user.ID)
	})
	s.log.Info("Members added", "chat_id", chatID, "added", len(added), "members", len(chat.Members))
	s.emitter.Emit(chat.Members, event.Alert{
		Message: fmt.Sprintf("%s has been added to the group", strings.Join(names, ", ")),
		ChatID:  chatID,
	})
	s.emitter.Emit(chat.Members, event.RefetchChats{ChatID: chatID})
	return chat, nil
}

// RemoveMember removes target from the group. The removed user is still told to refetch.
func (s *ChatService) RemoveMember(ctx context.Context, chatID domain.ChatID, requester, target string) (domain.Chat, error) {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()

	var before []string
	chat, err := s.chats.UpdateChat(chatID, func(chat *domain.Chat) error {
		if err := requireCreator(chat, requester, "remove members"); err != nil {
			return err
		}
		if !chat.IsMember(target) {
			return errors.NotFound("User is not a member of this group")
		}
		if target == chat.CreatorID {
			return errors.Invariant("The creator cannot be removed, leave the group instead")
		}
		if len(chat.Members)-1 < domain.MinGroupMembers {
			return domain.ErrGroupTooSmall
		}
		before = slices.Clone(chat.Members)
		chat.Members = chat.MembersExcept(target)
		return nil
	})
	if err != nil {
		return domain.Chat{}, err
	}

	s.log.Info("Member removed", "chat_id", chatID, "user_id", target, "members", len(chat.Members))
	s.emitter.Emit(chat.Members, event.Alert{
		Message: fmt.Sprintf("%s has been removed from the group", s.displayName(target)),
		ChatID:  chatID,
	})
	s.emitter.Emit(before, event.RefetchChats{ChatID: chatID})
	return chat, nil
}

// LeaveGroup removes the requester. A leaving creator hands the group over
// to a successor chosen among the remaining members.
func (s *ChatService) LeaveGroup(ctx context.Context, chatID domain.ChatID, requester string) (domain.Chat, error) {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()

	chat, err := s.chats.UpdateChat(chatID, func(chat *domain.Chat) error {
		if !chat.IsGroup {
			return errors.Invariant("This is not a group chat")
		}
		if !chat.IsMember(requester) {
			return errors.Forbidden("You are not a member of this group")
		}
		remaining := chat.MembersExcept(requester)
		if len(remaining) < domain.MinGroupMembers {
			return domain.ErrGroupTooSmall
		}
		if chat.CreatorID == requester {
			chat.CreatorID = s.succession(remaining)
		}
		chat.Members = remaining
		return nil
	})
	if err != nil {
		return domain.Chat{}, err
	}

	s.log.Info("Member left", "chat_id", chatID, "user_id", requester, "creator", chat.CreatorID)
	s.emitter.Emit(chat.Members, event.Alert{
		Message: fmt.Sprintf("%s has left the group", s.displayName(requester)),
		ChatID:  chatID,
	})
	return chat, nil
}

func (s *ChatService) RenameGroup(ctx context.Context, chatID domain.ChatID, requester, name string) (domain.Chat, error) {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()

	chat, err := s.chats.UpdateChat(chatID, func(chat *domain.Chat) error {
		if err := requireCreator(chat, requester, "rename the group"); err != nil {
			return err
		}
		chat.Name = name
		return nil
	})
	if err != nil {
		return domain.Chat{}, err
	}

	s.emitter.Emit(chat.Members, event.RefetchChats{ChatID: chatID})
	return chat, nil
}

// DeleteChat removes the chat, its history and its attachments.
// Blobs are purged on a best-effort basis after the metadata is gone:
// a purge failure never undoes nor blocks the deletion.
func (s *ChatService) DeleteChat(ctx context.Context, chatID domain.ChatID, requester string) error {
	unlock := s.locks.Lock(string(chatID))
	defer unlock()

	chat, err := s.chats.GetChat(chatID)
	if err != nil {
		return err
	}
	if chat.IsGroup && chat.CreatorID != requester {
		return errors.Forbidden("You are not allowed to delete the chat")
	}
	if !chat.IsGroup && !chat.IsMember(requester) {
		return errors.Forbidden("You are not allowed to delete the chat")
	}

	publicIDs, err := s.messages.GetAttachmentIDs(chatID)
	if err != nil {
		return fmt.Errorf("collect attachments of chat %s: %w", chatID, err)
	}
	if err = s.chats.DeleteChat(chatID); err != nil {
		return err
	}
	deleted, err := s.messages.DeleteMessages(chatID)
	if err != nil {
		s.log.Error("Chat deleted but its history could not be removed", "chat_id", chatID, "error", err)
		return fmt.Errorf("delete history of chat %s: %w", chatID, err)
	}
	s.attachments.Purge(ctx, publicIDs)

	s.log.Info("Chat deleted", "chat_id", chatID, "messages", deleted, "attachments", len(publicIDs))
	s.emitter.Emit(chat.Members, event.RefetchChats{ChatID: chatID})
	return nil
}

// OpenDirectChat returns the direct chat between requester and peer, creating it on first use.
func (s *ChatService) OpenDirectChat(ctx context.Context, requester, peer string) (domain.Chat, error) {
	if requester == peer {
		return domain.Chat{}, errors.Invariant("A direct chat needs two distinct members")
	}
	if _, err := s.users.GetUsers([]string{requester, peer}); err != nil {
		return domain.Chat{}, err
	}

	pair := []string{requester, peer}
	slices.Sort(pair)
	unlock := s.locks.Lock("direct:" + strings.Join(pair, ":"))
	defer unlock()

	chat, found, err := s.chats.FindDirectChat(requester, peer)
	if err != nil {
		return domain.Chat{}, err
	}
	if found {
		return chat, nil
	}

	chat = domain.NewDirectChat(requester, peer, s.now())
	if err = s.chats.CreateChat(chat); err != nil {
		return domain.Chat{}, err
	}
	s.log.Info("Direct chat created", "chat_id", chat.ID)
	s.emitter.Emit([]string{peer}, event.RefetchChats{ChatID: chat.ID})
	return chat, nil
}

// GetMyChats lists the chats of requester. Direct chats are named after the other member.
func (s *ChatService) GetMyChats(ctx context.Context, requester string) ([]ChatSummary, error) {
	chats, err := s.chats.FindChatsByMember(requester)
	if err != nil {
		return nil, err
	}
	users, err := s.users.LookupUsers(lo.FlatMap(chats, func(chat domain.Chat, _ int) []string {
		return chat.Members
	}))
	if err != nil {
		return nil, err
	}
	return lo.Map(chats, func(chat domain.Chat, _ int) ChatSummary {
		return summarize(chat, requester, users)
	}), nil
}

// GetMyGroups lists the groups created by requester.
func (s *ChatService) GetMyGroups(ctx context.Context, requester string) ([]ChatSummary, error) {
	chats, err := s.chats.FindChatsByMember(requester)
	if err != nil {
		return nil, err
	}
	groups := lo.Filter(chats, func(chat domain.Chat, _ int) bool {
		return chat.IsGroup && chat.CreatorID == requester
	})
	users, err := s.users.LookupUsers(lo.FlatMap(groups, func(chat domain.Chat, _ int) []string {
		return lo.Slice(chat.Members, 0, domain.AvatarPreviewSize)
	}))
	if err != nil {
		return nil, err
	}
	return lo.Map(groups, func(chat domain.Chat, _ int) ChatSummary {
		summary := summarize(chat, requester, users)
		summary.Members = nil
		return summary
	}), nil
}

// GetChatDetails returns a chat the requester belongs to.
func (s *ChatService) GetChatDetails(ctx context.Context, chatID domain.ChatID, requester string, populate bool) (ChatDetails, error) {
	chat, err := s.chats.GetChat(chatID)
	if err != nil {
		return ChatDetails{}, err
	}
	if !chat.IsMember(requester) {
		return ChatDetails{}, errors.Forbidden("You are not a member of this chat")
	}
	details := ChatDetails{Chat: chat}
	if !populate {
		return details, nil
	}
	users, err := s.users.LookupUsers(chat.Members)
	if err != nil {
		return ChatDetails{}, err
	}
	details.Members = lo.Map(chat.Members, func(id string, _ int) domain.User {
		if user, ok := users[id]; ok {
			return user
		}
		return domain.User{ID: id}
	})
	return details, nil
}

func (s *ChatService) displayName(userID string) string {
	user, err := s.users.GetUser(userID)
	if err != nil {
		s.log.Warn("Display name lookup failed", "user_id", userID, "error", err)
		return userID
	}
	return user.Name
}

func requireCreator(chat *domain.Chat, requester, action string) error {
	if !chat.IsGroup {
		return errors.Invariant("This is not a group chat")
	}
	if chat.CreatorID != requester {
		return errors.Forbidden(fmt.Sprintf("You are not allowed to %s", action))
	}
	return nil
}

func summarize(chat domain.Chat, requester string, users map[string]domain.User) ChatSummary {
	summary := ChatSummary{
		ID:      chat.ID,
		IsGroup: chat.IsGroup,
		Name:    chat.Name,
		Members: chat.MembersExcept(requester),
	}
	if chat.IsGroup {
		summary.Avatars = lo.Map(lo.Slice(chat.Members, 0, domain.AvatarPreviewSize), func(id string, _ int) string {
			return users[id].Avatar
		})
		return summary
	}
	other, _ := chat.OtherMember(requester)
	summary.Name = users[other].Name
	summary.Avatars = []string{users[other].Avatar}
	return summary
}
