//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"group-chat/domain"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetPage(chatID domain.ChatID, skip, limit int) ([]domain.Message, error)
	CountMessages(chatID domain.ChatID) (int, error)
	GetAttachmentIDs(chatID domain.ChatID) ([]string, error)
	DeleteMessages(chatID domain.ChatID) (int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

func messagePrefix(chatID domain.ChatID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", chatID))
}

// messageKey is formatted as "msg:{chat_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the UUID as a tie breaker if two messages
//     share the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.ChatID,
		message.CreatedAt.UnixNano(),
		message.ID,
	))
}

// StoreMessage persists a message together with its attachment references.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), marshalMessage(message))
	})
}

// GetPage walks the chat history newest first, skips the first skip messages
// and returns at most limit messages, still newest first.
func (m MessageRepository) GetPage(chatID domain.ChatID, skip, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts from the greatest key below the seek key
		seekKey := append(prefix, 0xFF)
		skipped := 0
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			if skipped < skip {
				skipped++
				continue
			}
			err := it.Item().Value(func(val []byte) error {
				message, err := unmarshalMessage(val)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return fmt.Errorf("decode message %s: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (m MessageRepository) CountMessages(chatID domain.ChatID) (int, error) {
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// GetAttachmentIDs collects the public ids of every attachment stored in the chat.
func (m MessageRepository) GetAttachmentIDs(chatID domain.ChatID) ([]string, error) {
	var publicIDs []string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				message, err := unmarshalMessage(val)
				if err != nil {
					return err
				}
				for _, attachment := range message.Attachments {
					publicIDs = append(publicIDs, attachment.PublicID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return publicIDs, err
}

// DeleteMessages removes the whole history of a chat and returns how many messages were dropped.
// Keys are collected in a read transaction and deleted through a WriteBatch so that
// large histories do not hit the transaction size limit.
func (m MessageRepository) DeleteMessages(chatID domain.ChatID) (int, error) {
	var keys [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	batch := m.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err = batch.Delete(key); err != nil {
			return 0, fmt.Errorf("delete messages of chat %s: %w", chatID, err)
		}
	}
	if err = batch.Flush(); err != nil {
		return 0, fmt.Errorf("delete messages of chat %s: %w", chatID, err)
	}
	m.log.Debug("Chat history deleted", "chat_id", chatID, "messages", len(keys))
	return len(keys), nil
}
