package sink

import (
	"context"
	"group-chat/domain/event"
	"group-chat/errors"
	"sync"

	"github.com/google/uuid"
)

// SocketSink buffers the events of one live connection.
// The transport drains Events() and writes them to the wire; Consume never
// waits longer than the context it receives.
type SocketSink struct {
	id     string
	userID string
	events chan event.Event
	done   chan struct{}
	once   sync.Once
}

func NewSocketSink(userID string, bufferSize int) *SocketSink {
	return &SocketSink{
		id:     uuid.NewString(),
		userID: userID,
		events: make(chan event.Event, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *SocketSink) ConnectionID() string { return s.id }

func (s *SocketSink) UserID() string { return s.userID }

// Consume queues e for the writer. It fails once the connection is closed
// or when the buffer stays full until ctx expires.
func (s *SocketSink) Consume(ctx context.Context, e event.Event) error {
	select {
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case s.events <- e:
		return nil
	case <-s.done:
		return errors.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SocketSink) Events() <-chan event.Event { return s.events }

func (s *SocketSink) Done() <-chan struct{} { return s.done }

// Close marks the connection as gone. It is safe to call more than once.
func (s *SocketSink) Close() {
	s.once.Do(func() { close(s.done) })
}
