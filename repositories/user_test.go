package repositories

import (
	"group-chat/domain"
	"group-chat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))
	alice := domain.User{ID: "alice", Name: "Alice", Avatar: "https://cdn/alice.png"}
	bob := domain.User{ID: "bob", Name: "Bob"}
	req.NoError(repository.SaveUser(alice))
	req.NoError(repository.SaveUser(bob))

	// GetUsers keeps the requested order
	users, err := repository.GetUsers([]string{"bob", "alice"})
	req.NoError(err)
	req.Equal([]domain.User{bob, alice}, users)

	// and fails when one user is unknown
	_, err = repository.GetUsers([]string{"alice", "ghost"})
	req.ErrorIs(err, errors.ErrNotFound)

	// LookupUsers skips unknown users
	found, err := repository.LookupUsers([]string{"alice", "ghost", "alice"})
	req.NoError(err)
	req.Equal(map[string]domain.User{"alice": alice}, found)

	req.ErrorIs(repository.SaveUser(domain.User{Name: "nameless"}), errors.ErrValidation)
}
