package runtime

import (
	"group-chat/contract"
	"sync"

	"github.com/samber/lo"
)

// Registry is the presence directory: it maps a user to the connection
// that currently receives its events. A user keeps at most one binding,
// the most recent connect wins.
//
// Registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink // map user -> Sink
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.EventSink),
	}
}

// Bind registers the user's active connection and returns the binding it replaced, if any.
func (r *Registry) Bind(userID string, sink contract.EventSink) contract.EventSink {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.sessions[userID]
	r.sessions[userID] = sink
	return previous
}

// Unbind removes the user's binding whatever connection it points to.
func (r *Registry) Unbind(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
}

// UnbindSink removes the user's binding only if it still points to sink.
// A connection superseded by a newer one must not take the newer binding down when it closes.
func (r *Registry) UnbindSink(userID string, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[userID]
	if !ok || current.ConnectionID() != sink.ConnectionID() {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// Resolve returns the bound connections of userIDs, silently omitting offline users.
// Duplicated user ids resolve once.
func (r *Registry) Resolve(userIDs []string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sinks []contract.EventSink
	for _, userID := range lo.Uniq(userIDs) {
		if sink, ok := r.sessions[userID]; ok {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[userID]
	return ok
}

// OnlineUsers returns the ids of all bound users, in no particular order.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Keys(r.sessions)
}

// Clear drops every binding, used on shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = make(map[string]contract.EventSink)
}
