// Package state holds the client-side caches and state machines that sit
// between the API client and the views: the document and conversation
// list stores and the chat session. Each store owns a request lifecycle
// scope, so stale or cancelled responses can never clobber newer data,
// and mutations are confirmed by the server before the cache changes.
package state

import "sync"

// Phase is the list view state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhasePopulated
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePopulated:
		return "populated"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// EventKind discriminates store notifications.
type EventKind int

const (
	// EventChanged fires whenever the cached data or phase changed.
	EventChanged EventKind = iota
	// EventSelectionCleared fires when the currently selected item was
	// removed from the cache.
	EventSelectionCleared
	// EventError carries a user-visible mutation failure. Cancellations
	// are swallowed and never reach subscribers.
	EventError
)

// Event is a store notification delivered to subscribers.
type Event struct {
	Kind EventKind
	Err  error
}

// notifier fans events out to subscribers. Callbacks run outside store
// locks, on the goroutine that triggered the event.
type notifier struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

// subscribe registers fn and returns an unsubscribe function.
func (n *notifier) subscribe(fn func(Event)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func(Event))
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) publish(ev Event) {
	n.mu.Lock()
	fns := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
