package main

import (
	"fmt"
	"group-chat/internal"
	"log"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if config.DebugPort == 0 {
		log.Fatal("DEBUG_PORT must be set")
	}

	// BypassLockGuard allows opening while the server holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	address := fmt.Sprintf("localhost:%d", config.DebugPort)
	fmt.Printf("Viewer started at http://%s/inspect?prefix=chat:\n", address)

	mux := http.NewServeMux()
	mux.Handle("/inspect", internal.InspectHandler(db))
	if err = http.ListenAndServe(address, mux); err != nil {
		log.Print(err)
	}
}
