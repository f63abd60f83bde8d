package domain

import "group-chat/errors"

var (
	ErrDuplicateMembers = errors.Invariant("Chat members must be unique")
	ErrDirectChatSize   = errors.Invariant("A direct chat must have exactly 2 members")
	ErrGroupTooSmall    = errors.Invariant("Group must have at least 3 members")
	ErrGroupTooLarge    = errors.Invariant("Group members limit reached")
	ErrCreatorNotMember = errors.Invariant("Group creator must be a member")
	ErrEmptyMessage     = errors.Invariant("A message needs content or attachments")
	ErrTooManyFiles     = errors.Invariant("You can only upload 5 files at a time")
	ErrNoFiles          = errors.Invariant("Select files to send")
)
