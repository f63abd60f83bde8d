// Package domain contains core concepts of the chat system.
// This file defines Chat entities and their membership invariants.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DirectChatMembers = 2
	MinGroupMembers   = 3
	MaxGroupMembers   = 100
	// AvatarPreviewSize is the number of member avatars shown for a group.
	AvatarPreviewSize = 3
)

type ChatID string

func NewChatID() ChatID {
	return ChatID(uuid.NewString())
}

func (id ChatID) String() string {
	return string(id)
}

// Chat is either a direct chat (two members, immutable membership)
// or a group chat (3 to 100 members, owned by CreatorID).
// Members keep insertion order.
type Chat struct {
	ID        ChatID
	IsGroup   bool
	Name      string
	CreatorID string
	Members   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewGroupChat(name, creatorID string, members []string, at time.Time) Chat {
	return Chat{
		ID:        NewChatID(),
		IsGroup:   true,
		Name:      name,
		CreatorID: creatorID,
		Members:   lo.Uniq(members),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func NewDirectChat(first, second string, at time.Time) Chat {
	return Chat{
		ID:        NewChatID(),
		Members:   []string{first, second},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (c Chat) IsMember(userID string) bool {
	return lo.Contains(c.Members, userID)
}

// OtherMember returns the member of a direct chat who is not userID.
func (c Chat) OtherMember(userID string) (string, bool) {
	return lo.Find(c.Members, func(member string) bool {
		return member != userID
	})
}

// MembersExcept returns a copy of the members without userID.
func (c Chat) MembersExcept(userID string) []string {
	return lo.Without(c.Members, userID)
}

// Validate checks the structural invariants of the chat.
func (c Chat) Validate() error {
	if len(lo.Uniq(c.Members)) != len(c.Members) {
		return ErrDuplicateMembers
	}
	if !c.IsGroup {
		if len(c.Members) != DirectChatMembers {
			return ErrDirectChatSize
		}
		return nil
	}
	switch {
	case len(c.Members) < MinGroupMembers:
		return ErrGroupTooSmall
	case len(c.Members) > MaxGroupMembers:
		return ErrGroupTooLarge
	case !c.IsMember(c.CreatorID):
		return ErrCreatorNotMember
	}
	return nil
}

func (c Chat) Clone() Chat {
	c.Members = slices.Clone(c.Members)
	return c
}
