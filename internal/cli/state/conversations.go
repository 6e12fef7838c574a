package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/lifecycle"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

// ConversationAPI is the slice of the API client the conversation store
// needs.
type ConversationAPI interface {
	ListConversations(ctx context.Context) ([]types.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
	RenameConversation(ctx context.Context, id int64, title string) error
}

// ConversationStore is the single shared cache of the conversation list.
// Mutations are confirm-then-apply: a rename updates the cached title only
// after the server accepted it, and a delete removes the entry only after
// the server confirmed.
type ConversationStore struct {
	api ConversationAPI
	log *slog.Logger

	notifier
	scope lifecycle.Scope

	mu       sync.Mutex
	phase    Phase
	convos   []types.Conversation
	loadErr  error
	selected int64
	deleting map[int64]bool
	renaming map[int64]bool
}

// NewConversationStore creates an empty store in the Loading phase.
func NewConversationStore(api ConversationAPI, log *slog.Logger) *ConversationStore {
	return &ConversationStore{
		api:      api,
		log:      log,
		phase:    PhaseLoading,
		deleting: make(map[int64]bool),
		renaming: make(map[int64]bool),
	}
}

// Subscribe registers a listener for store events and returns an
// unsubscribe function.
func (s *ConversationStore) Subscribe(fn func(Event)) func() {
	return s.subscribe(fn)
}

// Load fetches the conversation list; the latest Load always wins over
// slower, superseded ones.
func (s *ConversationStore) Load(ctx context.Context) {
	ctx, tok := s.scope.Begin(ctx)

	// Token-guarded pre-write, same rule as the apply: a superseded Load
	// must not reassert Loading over a newer Load's result.
	s.mu.Lock()
	if !tok.Live() {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseLoading
	s.mu.Unlock()
	s.publish(Event{Kind: EventChanged})

	convos, err := s.api.ListConversations(ctx)
	s.apply(tok, convos, err)
}

func (s *ConversationStore) apply(tok *lifecycle.Token, convos []types.Conversation, err error) {
	if err != nil && client.IsCancelled(err) {
		return
	}

	s.mu.Lock()
	if !tok.Live() {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.phase = PhaseFailed
		s.loadErr = err
		s.convos = nil
		s.log.Warn("conversation list fetch failed", "error", err)
	} else {
		s.loadErr = nil
		s.convos = convos
		if len(convos) == 0 {
			s.phase = PhaseEmpty
		} else {
			s.phase = PhasePopulated
		}
	}
	s.mu.Unlock()
	s.publish(Event{Kind: EventChanged})
}

// Delete removes a conversation after server confirmation. One delete per
// id; re-entry while pending is a silent no-op. Failures leave the cache
// unchanged and surface an error event.
func (s *ConversationStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.deleting[id] {
		s.mu.Unlock()
		return nil
	}
	s.deleting[id] = true
	s.mu.Unlock()

	err := s.api.DeleteConversation(ctx, id)

	s.mu.Lock()
	delete(s.deleting, id)
	if err != nil {
		s.mu.Unlock()
		if client.IsCancelled(err) {
			return nil
		}
		s.log.Warn("conversation delete failed", "id", id, "error", err)
		s.publish(Event{Kind: EventError, Err: err})
		return err
	}

	s.convos = removeConvoByID(s.convos, id)
	if len(s.convos) == 0 && s.phase == PhasePopulated {
		s.phase = PhaseEmpty
	}
	cleared := s.selected == id && id != 0
	if cleared {
		s.selected = 0
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventChanged})
	if cleared {
		s.publish(Event{Kind: EventSelectionCleared})
	}
	return nil
}

// Rename updates a conversation title. The cached entry keeps its old
// title until the server confirms; on failure the prior title stands and
// subscribers receive an error event.
func (s *ConversationStore) Rename(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return client.NewValidationError("title cannot be empty")
	}

	s.mu.Lock()
	if s.renaming[id] {
		s.mu.Unlock()
		return nil
	}
	s.renaming[id] = true
	s.mu.Unlock()

	err := s.api.RenameConversation(ctx, id, title)

	s.mu.Lock()
	delete(s.renaming, id)
	if err != nil {
		s.mu.Unlock()
		if client.IsCancelled(err) {
			return nil
		}
		s.log.Warn("conversation rename failed", "id", id, "error", err)
		s.publish(Event{Kind: EventError, Err: err})
		return err
	}

	for i := range s.convos {
		if s.convos[i].ID == id {
			s.convos[i].Title = title
			break
		}
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventChanged})
	return nil
}

// Filter returns the cached conversations whose title contains the query,
// case-insensitively, without touching the cache.
func (s *ConversationStore) Filter(query string) []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.Conversation, 0, len(s.convos))
	for _, c := range s.convos {
		if q == "" || strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}

// Conversations returns a copy of the cached list.
func (s *ConversationStore) Conversations() []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Conversation, len(s.convos))
	copy(out, s.convos)
	return out
}

// Phase returns the current list view phase.
func (s *ConversationStore) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the load error, if the store is in the Failed phase.
func (s *ConversationStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Select marks a conversation as the currently selected one.
func (s *ConversationStore) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the currently selected conversation id, zero for none.
func (s *ConversationStore) Selected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Close cancels any in-flight fetch and suppresses all later state
// updates from it.
func (s *ConversationStore) Close() {
	s.scope.Close()
}

func removeConvoByID(convos []types.Conversation, id int64) []types.Conversation {
	out := convos[:0]
	for _, c := range convos {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
