package repositories

import (
	"group-chat/domain"
	"group-chat/errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newChatRepository(t *testing.T) *ChatRepository {
	return NewChatRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelError))
}

func TestChatRepository_Create_Then_Find(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	at := time.Now().UTC()
	group := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, at)
	direct := domain.NewDirectChat("alice", "dave", at.Add(time.Second))

	req.NoError(repository.CreateChat(group))
	req.NoError(repository.CreateChat(direct))

	stored, err := repository.GetChat(group.ID)
	req.NoError(err)
	req.Equal(group.Members, stored.Members)
	req.Equal("alice", stored.CreatorID)

	chats, err := repository.FindChatsByMember("alice")
	req.NoError(err)
	req.Len(chats, 2)
	req.Equal(group.ID, chats[0].ID)

	chats, err = repository.FindChatsByMember("bob")
	req.NoError(err)
	req.Len(chats, 1)

	found, ok, err := repository.FindDirectChat("dave", "alice")
	req.NoError(err)
	req.True(ok)
	req.Equal(direct.ID, found.ID)

	_, ok, err = repository.FindDirectChat("bob", "alice")
	req.NoError(err)
	req.False(ok)
}

func TestChatRepository_Rejects_Invalid_Chat(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)

	err := repository.CreateChat(domain.NewGroupChat("duo", "alice", []string{"alice", "bob"}, time.Now()))

	req.ErrorIs(err, domain.ErrGroupTooSmall)
}

func TestChatRepository_GetChat_NotFound(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)

	_, err := repository.GetChat(domain.NewChatID())

	req.ErrorIs(err, errors.ErrNotFound)
}

func TestChatRepository_UpdateChat_Maintains_Member_Index(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	group := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	req.NoError(repository.CreateChat(group))

	// When bob is replaced by dave
	updated, err := repository.UpdateChat(group.ID, func(chat *domain.Chat) error {
		chat.Members = append(chat.MembersExcept("bob"), "dave")
		return nil
	})

	// Then the membership index follows
	req.NoError(err)
	req.Equal([]string{"alice", "carol", "dave"}, updated.Members)
	bobChats, err := repository.FindChatsByMember("bob")
	req.NoError(err)
	req.Empty(bobChats)
	daveChats, err := repository.FindChatsByMember("dave")
	req.NoError(err)
	req.Len(daveChats, 1)
}

func TestChatRepository_UpdateChat_Aborts_On_Error(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	group := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	req.NoError(repository.CreateChat(group))

	// When the mutation breaks an invariant
	_, err := repository.UpdateChat(group.ID, func(chat *domain.Chat) error {
		chat.Members = chat.MembersExcept("carol")
		return nil
	})

	// Then nothing is written
	req.ErrorIs(err, domain.ErrGroupTooSmall)
	stored, err := repository.GetChat(group.ID)
	req.NoError(err)
	req.Len(stored.Members, 3)

	_, err = repository.UpdateChat(group.ID, func(chat *domain.Chat) error {
		return errors.Forbidden("You are not allowed to rename the group")
	})
	req.ErrorIs(err, errors.ErrForbidden)
}

func TestChatRepository_Direct_Membership_Is_Immutable(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	direct := domain.NewDirectChat("alice", "bob", time.Now().UTC())
	req.NoError(repository.CreateChat(direct))

	_, err := repository.UpdateChat(direct.ID, func(chat *domain.Chat) error {
		chat.Members = []string{"alice", "carol"}
		return nil
	})

	req.ErrorIs(err, errors.ErrInvariantViolation)
}

func TestChatRepository_Concurrent_Updates_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	group := domain.NewGroupChat("team", "alice", []string{"alice", "bob", "carol"}, time.Now().UTC())
	req.NoError(repository.CreateChat(group))

	// When two writers add distinct members at the same time
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, member := range []string{"dave", "erin"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repository.UpdateChat(group.ID, func(chat *domain.Chat) error {
				chat.Members = append(chat.Members, member)
				return nil
			})
		}()
	}
	wg.Wait()

	// Then both additions survive
	req.NoError(errs[0])
	req.NoError(errs[1])
	stored, err := repository.GetChat(group.ID)
	req.NoError(err)
	req.ElementsMatch([]string{"alice", "bob", "carol", "dave", "erin"}, stored.Members)
}

func TestChatRepository_DeleteChat(t *testing.T) {
	req := require.New(t)
	repository := newChatRepository(t)
	direct := domain.NewDirectChat("alice", "bob", time.Now().UTC())
	req.NoError(repository.CreateChat(direct))

	req.NoError(repository.DeleteChat(direct.ID))

	_, err := repository.GetChat(direct.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	chats, err := repository.FindChatsByMember("alice")
	req.NoError(err)
	req.Empty(chats)
	_, ok, err := repository.FindDirectChat("alice", "bob")
	req.NoError(err)
	req.False(ok)
	req.ErrorIs(repository.DeleteChat(direct.ID), errors.ErrNotFound)
}
