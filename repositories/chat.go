//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"group-chat/domain"
	"group-chat/errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const maxConflictRetries = 5

type IChatRepository interface {
	CreateChat(chat domain.Chat) error
	GetChat(id domain.ChatID) (domain.Chat, error)
	UpdateChat(id domain.ChatID, mutate func(chat *domain.Chat) error) (domain.Chat, error)
	DeleteChat(id domain.ChatID) error
	FindChatsByMember(userID string) ([]domain.Chat, error)
	FindDirectChat(first, second string) (domain.Chat, bool, error)
}

// ChatRepository stores chats in BadgerDB with two secondary indexes:
//
//	chat:{chat_id}                  -> chat record
//	member:{user_id}:{chat_id}      -> empty, lists the chats of a user
//	direct:{user_a}:{user_b}        -> chat id, user ids sorted, one direct chat per pair
type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) *ChatRepository {
	return &ChatRepository{db: db, log: log}
}

func chatKey(id domain.ChatID) []byte {
	return []byte("chat:" + string(id))
}

func memberKey(userID string, id domain.ChatID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", userID, id))
}

func memberPrefix(userID string) []byte {
	return []byte(fmt.Sprintf("member:%s:", userID))
}

func directKey(first, second string) []byte {
	pair := []string{first, second}
	slices.Sort(pair)
	return []byte(fmt.Sprintf("direct:%s:%s", pair[0], pair[1]))
}

// CreateChat persists a new chat and its indexes in a single transaction.
func (c ChatRepository) CreateChat(chat domain.Chat) error {
	if err := chat.Validate(); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(chatKey(chat.ID)); err == nil {
			return errors.Invariant(fmt.Sprintf("Chat %s already exists", chat.ID))
		}
		if err := txn.Set(chatKey(chat.ID), marshalChat(chat)); err != nil {
			return err
		}
		for _, member := range chat.Members {
			if err := txn.Set(memberKey(member, chat.ID), nil); err != nil {
				return err
			}
		}
		if !chat.IsGroup {
			return txn.Set(directKey(chat.Members[0], chat.Members[1]), []byte(chat.ID))
		}
		return nil
	})
}

func (c ChatRepository) GetChat(id domain.ChatID) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		chat, err = getChat(txn, id)
		return err
	})
	return chat, err
}

// UpdateChat runs a read-check-write cycle on one chat inside a single transaction.
// mutate receives a copy of the stored chat; returning an error aborts without writing.
// The result must still satisfy the chat invariants, and direct chat membership never changes.
// Transactions that conflict with a concurrent writer are retried from the read.
func (c ChatRepository) UpdateChat(id domain.ChatID, mutate func(chat *domain.Chat) error) (domain.Chat, error) {
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		var updated domain.Chat
		err := c.db.Update(func(txn *badger.Txn) error {
			current, err := getChat(txn, id)
			if err != nil {
				return err
			}
			updated = current.Clone()
			if err = mutate(&updated); err != nil {
				return err
			}
			updated.ID = current.ID
			if !current.IsGroup && !slices.Equal(current.Members, updated.Members) {
				return errors.Invariant("Direct chat membership is immutable")
			}
			if err = updated.Validate(); err != nil {
				return err
			}
			updated.UpdatedAt = time.Now().UTC()
			if err = txn.Set(chatKey(id), marshalChat(updated)); err != nil {
				return err
			}
			left, joined := lo.Difference(current.Members, updated.Members)
			for _, member := range left {
				if err = txn.Delete(memberKey(member, id)); err != nil {
					return err
				}
			}
			for _, member := range joined {
				if err = txn.Set(memberKey(member, id), nil); err != nil {
					return err
				}
			}
			return nil
		})
		if stderrors.Is(err, badger.ErrConflict) {
			c.log.Debug("Chat update conflicted, retrying", "chat_id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Chat{}, err
		}
		return updated, nil
	}
	return domain.Chat{}, fmt.Errorf("update chat %s: %w", id, errors.ErrTooManyConflicts)
}

// DeleteChat removes the chat record and its indexes. Messages are owned by the MessageRepository.
func (c ChatRepository) DeleteChat(id domain.ChatID) error {
	return c.db.Update(func(txn *badger.Txn) error {
		chat, err := getChat(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(chatKey(id)); err != nil {
			return err
		}
		for _, member := range chat.Members {
			if err = txn.Delete(memberKey(member, id)); err != nil {
				return err
			}
		}
		if !chat.IsGroup {
			return txn.Delete(directKey(chat.Members[0], chat.Members[1]))
		}
		return nil
	})
}

// FindChatsByMember returns every chat userID belongs to, oldest first.
func (c ChatRepository) FindChatsByMember(userID string) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		var ids []domain.ChatID
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, domain.ChatID(strings.TrimPrefix(key, string(prefix))))
		}
		for _, id := range ids {
			chat, err := getChat(txn, id)
			if errors.KindOf(err) == errors.KindNotFound {
				c.log.Warn("Dangling membership index", "user_id", userID, "chat_id", id)
				continue
			}
			if err != nil {
				return err
			}
			chats = append(chats, chat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(chats, func(a, b domain.Chat) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return chats, nil
}

// FindDirectChat returns the direct chat between two users, if any.
func (c ChatRepository) FindDirectChat(first, second string) (domain.Chat, bool, error) {
	var chat domain.Chat
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(directKey(first, second))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		chat, err = getChat(txn, domain.ChatID(id))
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return chat, found, err
}

func getChat(txn *badger.Txn, id domain.ChatID) (domain.Chat, error) {
	item, err := txn.Get(chatKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Chat{}, errors.NotFound("Chat not found")
	}
	if err != nil {
		return domain.Chat{}, fmt.Errorf("get chat %s: %w", id, err)
	}
	var chat domain.Chat
	err = item.Value(func(val []byte) error {
		chat, err = unmarshalChat(val)
		return err
	})
	return chat, err
}
