package main

import (
	"flag"
	"fmt"
	"group-chat/internal"
	"group-chat/repositories"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Prints the records of a stopped server database, for example:
//
//	go run ./tools -db /tmp/group-chat -prefix msg:
func main() {
	dbPath := flag.String("db", "/tmp/group-chat", "Path to badger DB")
	prefix := flag.String("prefix", "chat:", "Prefix to scan (user:, chat:, member:, direct:, msg:)")
	limit := flag.Int("limit", 500, "Maximum number of rows")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	rows, err := repositories.Inspect(db, *prefix, *limit)
	if err != nil {
		log.Fatal(err)
	}
	internal.RenderRows(os.Stdout, rows)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed writer leaves a log that needs truncating before a read-only open
		if strings.Contains(err.Error(), "Log truncate required") {
			repaired, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = repaired.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
