package workers

import (
	"context"
	"group-chat/contract"
	"group-chat/domain/event"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// Envelope is one pending emission: an event and the users it targets.
type Envelope struct {
	Targets []string
	Event   event.Event
}

// Broadcaster pushes events to the live connections of a set of users.
//
// It provides best-effort, at-most-once delivery with no acknowledgment,
// retry or durability. Emit never blocks the caller: envelopes are queued
// and drained in FIFO order by Run, so events emitted by one request path
// reach a given connection in emission order.
//
// Broadcaster is safe for concurrent use by multiple goroutines.
type Broadcaster struct {
	log             *slog.Logger
	registry        contract.IRegistry
	queue           chan Envelope
	deliveryTimeout time.Duration
	dropped         atomic.Uint64
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry,
	bufferSize int, deliveryTimeout time.Duration) *Broadcaster {
	return &Broadcaster{
		log:             log,
		registry:        registry,
		queue:           make(chan Envelope, bufferSize),
		deliveryTimeout: deliveryTimeout,
	}
}

// Emit queues evt for the targets. A full queue drops the event.
func (b *Broadcaster) Emit(targets []string, evt event.Event) {
	if len(targets) == 0 {
		return
	}
	select {
	case b.queue <- Envelope{Targets: lo.Uniq(targets), Event: evt}:
	default:
		b.dropped.Add(1)
		b.log.Warn("Broadcast queue full, dropping event",
			"event", evt.Name(), "targets", len(targets))
	}
}

func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case envelope := <-b.queue:
			b.Deliver(ctx, envelope.Targets, envelope.Event)
		case <-ctx.Done():
			b.log.Debug("Context done, stopping broadcaster", "pending", len(b.queue))
			return nil
		}
	}
}

// Deliver resolves the targets and hands evt to each online connection.
// Offline users are skipped; failing connections are logged and skipped.
// It returns the number of connections that accepted the event.
func (b *Broadcaster) Deliver(ctx context.Context, targets []string, evt event.Event) int {
	delivered := 0
	for _, sink := range b.registry.Resolve(targets) {
		sinkCtx, cancel := context.WithTimeout(ctx, b.deliveryTimeout)
		err := sink.Consume(sinkCtx, evt)
		cancel()
		if err != nil {
			b.log.Warn("Event delivery failed",
				"event", evt.Name(),
				"connection_id", sink.ConnectionID(),
				"error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Pending returns the number of queued envelopes.
func (b *Broadcaster) Pending() int {
	return len(b.queue)
}

func (b *Broadcaster) Capacity() int {
	return cap(b.queue)
}

// Dropped returns how many emissions were discarded on a full queue since start.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Except returns targets without userID, used to skip the author of a typing event.
func Except(targets []string, userID string) []string {
	return lo.Without(targets, userID)
}
