package repositories

import (
	"fmt"
	"group-chat/domain"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored with the protobuf wire format so that fields can be
// added later without rewriting existing values. Field numbers below are
// part of the storage format and must never be reused.

const (
	userFieldID     protowire.Number = 1
	userFieldName   protowire.Number = 2
	userFieldAvatar protowire.Number = 3
)

const (
	chatFieldID        protowire.Number = 1
	chatFieldIsGroup   protowire.Number = 2
	chatFieldName      protowire.Number = 3
	chatFieldCreatorID protowire.Number = 4
	chatFieldMembers   protowire.Number = 5
	chatFieldCreatedAt protowire.Number = 6
	chatFieldUpdatedAt protowire.Number = 7
)

const (
	messageFieldID          protowire.Number = 1
	messageFieldChatID      protowire.Number = 2
	messageFieldSenderID    protowire.Number = 3
	messageFieldContent     protowire.Number = 4
	messageFieldAttachments protowire.Number = 5
	messageFieldCreatedAt   protowire.Number = 6
)

const (
	attachmentFieldPublicID protowire.Number = 1
	attachmentFieldURL      protowire.Number = 2
	attachmentFieldKind     protowire.Number = 3
)

func marshalUser(u domain.User) []byte {
	var b []byte
	b = appendString(b, userFieldID, u.ID)
	b = appendString(b, userFieldName, u.Name)
	b = appendString(b, userFieldAvatar, u.Avatar)
	return b
}

func unmarshalUser(b []byte) (domain.User, error) {
	var u domain.User
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ == protowire.BytesType {
			switch num {
			case userFieldID:
				return consumeString(b, &u.ID)
			case userFieldName:
				return consumeString(b, &u.Name)
			case userFieldAvatar:
				return consumeString(b, &u.Avatar)
			}
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	return u, err
}

func marshalChat(c domain.Chat) []byte {
	var b []byte
	b = appendString(b, chatFieldID, string(c.ID))
	if c.IsGroup {
		b = protowire.AppendTag(b, chatFieldIsGroup, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	b = appendString(b, chatFieldName, c.Name)
	b = appendString(b, chatFieldCreatorID, c.CreatorID)
	for _, member := range c.Members {
		b = protowire.AppendTag(b, chatFieldMembers, protowire.BytesType)
		b = protowire.AppendString(b, member)
	}
	b = appendTime(b, chatFieldCreatedAt, c.CreatedAt)
	b = appendTime(b, chatFieldUpdatedAt, c.UpdatedAt)
	return b
}

func unmarshalChat(b []byte) (domain.Chat, error) {
	var c domain.Chat
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case typ == protowire.BytesType && num == chatFieldID:
			var id string
			n := consumeString(b, &id)
			c.ID = domain.ChatID(id)
			return n
		case typ == protowire.VarintType && num == chatFieldIsGroup:
			v, n := protowire.ConsumeVarint(b)
			c.IsGroup = protowire.DecodeBool(v)
			return n
		case typ == protowire.BytesType && num == chatFieldName:
			return consumeString(b, &c.Name)
		case typ == protowire.BytesType && num == chatFieldCreatorID:
			return consumeString(b, &c.CreatorID)
		case typ == protowire.BytesType && num == chatFieldMembers:
			var member string
			n := consumeString(b, &member)
			c.Members = append(c.Members, member)
			return n
		case typ == protowire.VarintType && num == chatFieldCreatedAt:
			return consumeTime(b, &c.CreatedAt)
		case typ == protowire.VarintType && num == chatFieldUpdatedAt:
			return consumeTime(b, &c.UpdatedAt)
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	return c, err
}

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID.String())
	b = appendString(b, messageFieldChatID, string(m.ChatID))
	b = appendString(b, messageFieldSenderID, m.SenderID)
	b = appendString(b, messageFieldContent, m.Content)
	for _, attachment := range m.Attachments {
		b = protowire.AppendTag(b, messageFieldAttachments, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalAttachment(attachment))
	}
	b = appendTime(b, messageFieldCreatedAt, m.CreatedAt)
	return b
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	var rawID string
	var nested error
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case typ == protowire.BytesType && num == messageFieldID:
			return consumeString(b, &rawID)
		case typ == protowire.BytesType && num == messageFieldChatID:
			var chatID string
			n := consumeString(b, &chatID)
			m.ChatID = domain.ChatID(chatID)
			return n
		case typ == protowire.BytesType && num == messageFieldSenderID:
			return consumeString(b, &m.SenderID)
		case typ == protowire.BytesType && num == messageFieldContent:
			return consumeString(b, &m.Content)
		case typ == protowire.BytesType && num == messageFieldAttachments:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			attachment, err := unmarshalAttachment(v)
			if err != nil {
				nested = err
				return len(b)
			}
			m.Attachments = append(m.Attachments, attachment)
			return n
		case typ == protowire.VarintType && num == messageFieldCreatedAt:
			return consumeTime(b, &m.CreatedAt)
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if err != nil {
		return domain.Message{}, err
	}
	if nested != nil {
		return domain.Message{}, fmt.Errorf("attachment: %w", nested)
	}
	m.ID, err = uuid.Parse(rawID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message id %q: %w", rawID, err)
	}
	return m, nil
}

func marshalAttachment(a domain.Attachment) []byte {
	var b []byte
	b = appendString(b, attachmentFieldPublicID, a.PublicID)
	b = appendString(b, attachmentFieldURL, a.URL)
	b = appendString(b, attachmentFieldKind, string(a.Kind))
	return b
}

func unmarshalAttachment(b []byte) (domain.Attachment, error) {
	var a domain.Attachment
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ == protowire.BytesType {
			switch num {
			case attachmentFieldPublicID:
				return consumeString(b, &a.PublicID)
			case attachmentFieldURL:
				return consumeString(b, &a.URL)
			case attachmentFieldKind:
				var kind string
				n := consumeString(b, &kind)
				a.Kind = domain.Kind(kind)
				return n
			}
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	return a, err
}

// consumeFields walks every field of b. fn consumes the value of one field
// and returns the number of bytes read, or a negative protowire error code.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := fn(num, typ, b)
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

func consumeString(b []byte, dst *string) int {
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeTime(b []byte, dst *time.Time) int {
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = time.Unix(0, int64(v)).UTC()
	}
	return n
}
