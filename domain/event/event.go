// Package event holds the closed set of real-time events pushed to connected members.
// Each event name has exactly one payload type with a fixed field set.
package event

import (
	"encoding/json"
	"group-chat/domain"
)

type Name string

const (
	AlertName           Name = "ALERT"
	RefetchChatsName    Name = "REFETCH_CHATS"
	NewMessageName      Name = "NEW_MESSAGE"
	NewMessageAlertName Name = "NEW_MESSAGE_ALERT"
	StartTypingName     Name = "START_TYPING"
	StopTypingName      Name = "STOP_TYPING"
)

// Event is implemented only by the payload types of this package.
type Event interface {
	Name() Name
	event()
}

// Alert is a human readable notice about the chat.
// ChatID is empty for notices that are not bound to an open chat view.
type Alert struct {
	Message string        `json:"message"`
	ChatID  domain.ChatID `json:"chatId,omitempty"`
}

// RefetchChats hints clients to reload their chat list.
type RefetchChats struct {
	ChatID domain.ChatID `json:"chatId,omitempty"`
}

type NewMessage struct {
	ChatID  domain.ChatID      `json:"chatId"`
	Message domain.LiveMessage `json:"message"`
}

// NewMessageAlert only carries the chat id so clients can bump unread badges.
type NewMessageAlert struct {
	ChatID domain.ChatID `json:"chatId"`
}

type StartTyping struct {
	ChatID domain.ChatID `json:"chatId"`
}

type StopTyping struct {
	ChatID domain.ChatID `json:"chatId"`
}

func (Alert) Name() Name           { return AlertName }
func (RefetchChats) Name() Name    { return RefetchChatsName }
func (NewMessage) Name() Name      { return NewMessageName }
func (NewMessageAlert) Name() Name { return NewMessageAlertName }
func (StartTyping) Name() Name     { return StartTypingName }
func (StopTyping) Name() Name      { return StopTypingName }

func (Alert) event()           {}
func (RefetchChats) event()    {}
func (NewMessage) event()      {}
func (NewMessageAlert) event() {}
func (StartTyping) event()     {}
func (StopTyping) event()      {}

// Frame is the wire envelope written on a socket.
type Frame struct {
	Event Name `json:"event"`
	Data  any  `json:"data"`
}

func Encode(e Event) ([]byte, error) {
	return json.Marshal(Frame{Event: e.Name(), Data: e})
}
