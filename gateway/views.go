package gateway

import (
	"group-chat/domain"
	"group-chat/services"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type newGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type addMembersRequest struct {
	ChatID  string   `json:"chatId" validate:"required"`
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type removeMemberRequest struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type renameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type directRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type chatView struct {
	ID        domain.ChatID `json:"_id"`
	GroupChat bool          `json:"groupChat"`
	Name      string        `json:"name,omitempty"`
	Creator   string        `json:"creator,omitempty"`
	Members   any           `json:"members"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type memberView struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type messageView struct {
	ID          uuid.UUID           `json:"_id"`
	ChatID      domain.ChatID       `json:"chat"`
	Sender      string              `json:"sender"`
	Content     string              `json:"content"`
	Attachments []domain.Attachment `json:"attachments"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func toChatView(chat domain.Chat) chatView {
	return chatView{
		ID:        chat.ID,
		GroupChat: chat.IsGroup,
		Name:      chat.Name,
		Creator:   chat.CreatorID,
		Members:   chat.Members,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
}

func toDetailsView(details services.ChatDetails) chatView {
	view := toChatView(details.Chat)
	if details.Members != nil {
		view.Members = lo.Map(details.Members, func(user domain.User, _ int) memberView {
			return memberView{ID: user.ID, Name: user.Name, Avatar: user.Avatar}
		})
	}
	return view
}

func toMessageView(message domain.Message) messageView {
	attachments := message.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return messageView{
		ID:          message.ID,
		ChatID:      message.ChatID,
		Sender:      message.SenderID,
		Content:     message.Content,
		Attachments: attachments,
		CreatedAt:   message.CreatedAt,
	}
}
