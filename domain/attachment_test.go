package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"clip.mp4", KindVideo},
		{"clip.webm", KindVideo},
		{"voice.ogg", KindVideo},
		{"song.mp3", KindAudio},
		{"memo.wav", KindAudio},
		{"cat.png", KindImage},
		{"CAT.JPG", KindImage},
		{"photo.jpeg", KindImage},
		{"loop.gif", KindImage},
		{"report.pdf", KindFile},
		{"README", KindFile},
		{"archive.tar.gz", KindFile},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.filename))
		})
	}
}

func TestMessage_Validate(t *testing.T) {
	req := require.New(t)
	attachment := Attachment{PublicID: "p", URL: "u", Kind: KindFile}

	req.ErrorIs(Message{}.Validate(), ErrEmptyMessage)
	req.NoError(Message{Content: "hello"}.Validate())
	req.NoError(Message{Attachments: []Attachment{attachment}}.Validate())
	req.ErrorIs(Message{Attachments: make([]Attachment, MaxAttachments+1)}.Validate(), ErrTooManyFiles)
}

func TestMessage_Live_Denormalizes_Sender(t *testing.T) {
	req := require.New(t)
	message := Message{ID: uuid.New(), ChatID: "chat-1", SenderID: "alice", Content: "hi"}

	live := message.Live(User{ID: "alice", Name: "Alice", Avatar: "a.png"})

	req.Equal(Sender{ID: "alice", Name: "Alice"}, live.Sender)
	req.Equal(ChatID("chat-1"), live.ChatID)
	req.NotNil(live.Attachments)
}
