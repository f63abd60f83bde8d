package main

import (
	"context"
	"fmt"
	"group-chat/auth"
	"group-chat/contract"
	"group-chat/gateway"
	"group-chat/internal"
	"group-chat/moderation"
	"group-chat/observability"
	"group-chat/repositories"
	"group-chat/runtime"
	"group-chat/runtime/workers"
	"group-chat/services"
	"group-chat/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a termination signal.
// Returning instead of exiting lets the deferred cleanups run.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blobs, err := storage.NewDiskBlobStore(log, config.BlobDir, config.BlobBaseURL)
	if err != nil {
		return exitConfig, err
	}

	// 3. Presence and fan-out
	registry := runtime.NewRegistry()
	defer registry.Clear()
	broadcaster := workers.NewBroadcaster(log, registry, config.BroadcastBufferSize, config.DeliveryTimeout)

	// 4. Core services
	users := repositories.NewUserRepository(db)
	chats := repositories.NewChatRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	attachments := services.NewAttachmentService(log, blobs)
	chatLocks := runtime.NewKeyedMutex()
	chatService := services.NewChatService(log, chatLocks, chats, messages, users, attachments, broadcaster)
	moderator, err := moderation.NewModerator(config.Blacklist(), config.CensorRune())
	if err != nil {
		return exitConfig, fmt.Errorf("moderation dictionary: %w", err)
	}
	messageService := services.NewMessageService(log, chatLocks, chats, messages, users, attachments, broadcaster,
		services.WithCensor(moderator))

	server := gateway.NewServer(log, gateway.Config{
		Host:                 config.Host,
		Port:                 config.Port,
		CORSOrigin:           config.CORSOrigin,
		MaxUploadSize:        config.MaxUploadSize,
		ConnectionBufferSize: config.ConnectionBufferSize,
	}, auth.NewTokens(config.JWTSecret), registry, chatService, messageService,
		http.StripPrefix("/blobs", blobs.Handler()))

	// 5. Supervision
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := observability.NewMonitor(log, registry, broadcaster, config.MetricInterval)
	workerList := []contract.Worker{broadcaster, server, monitor}
	if config.DebugPort > 0 {
		workerList = append(workerList, internal.NewDebugServer(log, db, config.DebugPort, monitor.Handler()))
	}
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(workerList...)

	log.Info("Starting group chat server", "host", config.Host, "port", config.Port)
	supervisor.Run(ctx)

	log.Info("Program stopped cleanly", "online_users", len(registry.OnlineUsers()))
	return exitOK, nil
}
