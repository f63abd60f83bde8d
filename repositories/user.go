//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"group-chat/domain"
	"group-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IUserRepository interface {
	SaveUser(user domain.User) error
	GetUser(id string) (domain.User, error)
	GetUsers(ids []string) ([]domain.User, error)
	LookupUsers(ids []string) (map[string]domain.User, error)
}

// UserRepository is the read model of the users owned by the authentication collaborator.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

// SaveUser creates or replaces the display fields of a user.
func (u UserRepository) SaveUser(user domain.User) error {
	if user.ID == "" {
		return errors.Validation("user id is required")
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), marshalUser(user))
	})
}

func (u UserRepository) GetUser(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	return user, err
}

// GetUsers returns the users in the order of ids, failing with NotFound if any is unknown.
func (u UserRepository) GetUsers(ids []string) ([]domain.User, error) {
	users := make([]domain.User, 0, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			user, err := getUser(txn, id)
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// LookupUsers returns the known users among ids, skipping unknown ones.
func (u UserRepository) LookupUsers(ids []string) (map[string]domain.User, error) {
	users := make(map[string]domain.User, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			user, err := getUser(txn, id)
			if errors.KindOf(err) == errors.KindNotFound {
				continue
			}
			if err != nil {
				return err
			}
			users[id] = user
		}
		return nil
	})
	return users, err
}

func getUser(txn *badger.Txn, id string) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.NotFound(fmt.Sprintf("User %s not found", id))
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	var user domain.User
	err = item.Value(func(val []byte) error {
		user, err = unmarshalUser(val)
		return err
	})
	return user, err
}
