package services_test

import (
	"group-chat/domain"
	"group-chat/domain/event"
	"group-chat/mocks"
	"group-chat/repositories"
	"group-chat/runtime"
	"group-chat/services"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type emission struct {
	Targets []string
	Event   event.Event
}

// recorder is an Emitter keeping every emission in order.
type recorder struct {
	mu        sync.Mutex
	emissions []emission
}

func (r *recorder) Emit(targets []string, evt event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = append(r.emissions, emission{Targets: slices.Clone(targets), Event: evt})
}

func (r *recorder) named(name event.Name) []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Filter(r.emissions, func(e emission, _ int) bool { return e.Event.Name() == name })
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = nil
}

type fixture struct {
	chats       *services.ChatService
	messages    *services.MessageService
	attachments *services.AttachmentService
	chatRepo    *repositories.ChatRepository
	messageRepo *repositories.MessageRepository
	users       *repositories.UserRepository
	blobs       *mocks.MockBlobStore
	emitter     *recorder
	locks       *runtime.KeyedMutex
}

var (
	alice = domain.User{ID: "alice", Name: "Alice", Avatar: "alice.png"}
	bob   = domain.User{ID: "bob", Name: "Bob", Avatar: "bob.png"}
	carol = domain.User{ID: "carol", Name: "Carol", Avatar: "carol.png"}
	dave  = domain.User{ID: "dave", Name: "Dave", Avatar: "dave.png"}
	erin  = domain.User{ID: "erin", Name: "Erin", Avatar: "erin.png"}
)

func newFixture(t *testing.T, options ...services.ChatServiceOption) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	f := &fixture{
		chatRepo:    repositories.NewChatRepository(db, log),
		messageRepo: repositories.NewMessageRepository(db, log),
		users:       repositories.NewUserRepository(db),
		blobs:       mocks.NewMockBlobStore(ctrl),
		emitter:     &recorder{},
		locks:       runtime.NewKeyedMutex(),
	}
	for _, user := range []domain.User{alice, bob, carol, dave, erin} {
		require.NoError(t, f.users.SaveUser(user))
	}
	f.attachments = services.NewAttachmentService(log, f.blobs)
	f.chats = services.NewChatService(log, f.locks, f.chatRepo, f.messageRepo, f.users, f.attachments, f.emitter, options...)
	f.messages = services.NewMessageService(log, f.locks, f.chatRepo, f.messageRepo, f.users, f.attachments, f.emitter)
	return f
}
