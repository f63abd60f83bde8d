//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"group-chat/domain"
	"group-chat/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one live connection able to receive events.
type EventSink interface {
	ConnectionID() string
	Consume(ctx context.Context, e event.Event) error
}

// IRegistry maps a user to its live connection.
type IRegistry interface {
	Bind(userID string, sink EventSink) EventSink
	Unbind(userID string)
	UnbindSink(userID string, sink EventSink) bool
	Resolve(userIDs []string) []EventSink
	IsOnline(userID string) bool
}

// Emitter pushes an event to the live connections of the target users.
// It never fails: delivery is best-effort and at-most-once.
type Emitter interface {
	Emit(targets []string, evt event.Event)
}

// BlobStore is the contract with the remote file storage provider.
type BlobStore interface {
	Upload(ctx context.Context, file domain.File) (domain.Blob, error)
	Delete(ctx context.Context, publicIDs []string) error
}
