// Package lifecycle serializes the fetches of a single view. A Scope owns
// at most one in-flight request at a time: beginning a new request cancels
// the previous one, and every response is identity-checked against the
// scope's current token before it may touch state. Responses of cancelled
// or superseded requests are dropped even when they arrive after newer
// ones, so a slow stale response can never overwrite fresher data.
package lifecycle

import (
	"context"
	"sync"
)

// Scope is the lifetime boundary within which at most one in-flight
// request is permitted. The zero value is ready to use.
type Scope struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// Token identifies one request issued within a Scope. Tokens are compared
// by identity (monotonic sequence number), not only by cancellation
// signal.
type Token struct {
	scope *Scope
	seq   uint64
}

// Begin cancels the scope's previous request, if any, and opens a new one
// under a fresh token. The returned context is cancelled when a later
// Begin or Close invalidates the token. Beginning on a closed scope hands
// out an already-cancelled context and a dead token.
func (s *Scope) Begin(parent context.Context) (context.Context, *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	ctx, cancel := context.WithCancel(parent)
	if s.closed {
		cancel()
		return ctx, &Token{scope: s, seq: s.seq}
	}

	s.seq++
	s.cancel = cancel
	return ctx, &Token{scope: s, seq: s.seq}
}

// Live reports whether the token still identifies the scope's current
// request. A response must only be applied while its token is live.
func (t *Token) Live() bool {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()
	return !t.scope.closed && t.seq == t.scope.seq
}

// Close cancels the in-flight request and permanently invalidates all
// tokens. Responses resolving after Close are no-ops.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.closed = true
}
