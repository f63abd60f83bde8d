package domain

import (
	"path"
	"strings"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
	KindFile  Kind = "file"
)

var kindsByExtension = map[string]Kind{
	"mp4":  KindVideo,
	"webm": KindVideo,
	"ogg":  KindVideo,
	"mp3":  KindAudio,
	"wav":  KindAudio,
	"png":  KindImage,
	"jpeg": KindImage,
	"jpg":  KindImage,
	"gif":  KindImage,
}

// Classify derives the media kind from the file extension.
// Unknown or missing extensions are plain files.
func Classify(filename string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if kind, ok := kindsByExtension[ext]; ok {
		return kind
	}
	return KindFile
}

// Attachment references a blob held by the storage provider.
type Attachment struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	Kind     Kind   `json:"kind"`
}

// File is a raw upload waiting to be pushed to blob storage.
type File struct {
	Name string
	Data []byte
}

// Blob is what the storage provider returns for an uploaded file.
type Blob struct {
	PublicID    string
	URL         string
	ContentType string
}
