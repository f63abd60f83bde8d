package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Row is a human readable view of one stored key, used by the inspection tools.
type Row struct {
	Key    string
	Type   string
	At     time.Time
	ID     string
	Detail string
}

// Inspect decodes up to limit records whose key starts with prefix.
// Undecodable values are reported in the row instead of failing the scan.
func Inspect(db *badger.DB, prefix string, limit int) ([]Row, error) {
	var rows []Row
	err := db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(prefix)
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)) && len(rows) < limit; it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(val []byte) error {
				rows = append(rows, describe(key, val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

func describe(key string, val []byte) Row {
	row := Row{Key: key, Type: "RAW", Detail: fmt.Sprintf("%d bytes", len(val))}
	kind, _, _ := strings.Cut(key, ":")
	var err error
	switch kind {
	case "user":
		row.Type = "USER"
		user, e := unmarshalUser(val)
		err = e
		row.ID, row.Detail = user.ID, user.Name
	case "chat":
		row.Type = "CHAT"
		chat, e := unmarshalChat(val)
		err = e
		row.ID, row.At = string(chat.ID), chat.CreatedAt
		row.Detail = fmt.Sprintf("group=%t name=%q members=%d", chat.IsGroup, chat.Name, len(chat.Members))
	case "msg":
		row.Type = "MESSAGE"
		message, e := unmarshalMessage(val)
		err = e
		row.ID, row.At = message.ID.String(), message.CreatedAt
		row.Detail = fmt.Sprintf("from=%s attachments=%d %q", message.SenderID, len(message.Attachments), message.Content)
	case "member", "direct":
		row.Type = "INDEX"
		row.Detail = string(val)
	}
	if err != nil {
		row.Detail = "undecodable: " + err.Error()
	}
	return row
}
