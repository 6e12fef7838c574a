package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/lifecycle"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

// DefaultSummaryRefreshDelay is the fixed wait before the single re-fetch
// that follows a summary generation trigger. One deferred re-fetch, not a
// polling loop: a slow job will still show pending/generating afterwards
// until the user refreshes.
const DefaultSummaryRefreshDelay = 3 * time.Second

// DocumentAPI is the slice of the API client the document store needs.
type DocumentAPI interface {
	ListDocuments(ctx context.Context) ([]types.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	GenerateSummary(ctx context.Context, id int64) error
}

// DocumentStore is the single shared cache of the document list. All
// views read through it and all mutations go through its methods; deletes
// and summary triggers are guarded per id, and the cache only changes
// after the server confirms.
type DocumentStore struct {
	api DocumentAPI
	log *slog.Logger

	// RefreshDelay overrides DefaultSummaryRefreshDelay (tests shrink it).
	RefreshDelay time.Duration

	notifier
	scope lifecycle.Scope

	mu          sync.Mutex
	phase       Phase
	docs        []types.Document
	loadErr     error
	selected    int64
	deleting    map[int64]bool
	summarizing map[int64]bool
}

// NewDocumentStore creates an empty store in the Loading phase.
func NewDocumentStore(api DocumentAPI, log *slog.Logger) *DocumentStore {
	return &DocumentStore{
		api:          api,
		log:          log,
		RefreshDelay: DefaultSummaryRefreshDelay,
		phase:        PhaseLoading,
		deleting:     make(map[int64]bool),
		summarizing:  make(map[int64]bool),
	}
}

// Subscribe registers a listener for store events and returns an
// unsubscribe function.
func (s *DocumentStore) Subscribe(fn func(Event)) func() {
	return s.subscribe(fn)
}

// Load fetches the document list. A Load supersedes any previous Load in
// flight; the superseded response is dropped by token identity, so the
// latest request always wins regardless of network ordering.
func (s *DocumentStore) Load(ctx context.Context) {
	ctx, tok := s.scope.Begin(ctx)

	// The pre-write is token-guarded too: a Load whose token died between
	// Begin and here must not reassert Loading over a newer Load's result.
	s.mu.Lock()
	if !tok.Live() {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseLoading
	s.mu.Unlock()
	s.publish(Event{Kind: EventChanged})

	docs, err := s.api.ListDocuments(ctx)
	s.apply(tok, docs, err)
}

func (s *DocumentStore) apply(tok *lifecycle.Token, docs []types.Document, err error) {
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
		s.docs = nil
		s.log.Warn("document list fetch failed", "error", err)
	} else {
		s.loadErr = nil
		s.docs = docs
		if len(docs) == 0 {
			s.phase = PhaseEmpty
		} else {
			s.phase = PhasePopulated
		}
	}
	s.mu.Unlock()
	s.publish(Event{Kind: EventChanged})
}

// Delete removes a document after server confirmation. Only one delete
// per id may be in flight; re-entry is a silent no-op. On failure the
// cache is left unchanged and subscribers receive an error event.
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.deleting[id] {
		s.mu.Unlock()
		return nil
	}
	s.deleting[id] = true
	s.mu.Unlock()

	err := s.api.DeleteDocument(ctx, id)

	s.mu.Lock()
	delete(s.deleting, id)
	if err != nil {
		s.mu.Unlock()
		if client.IsCancelled(err) {
			return nil
		}
		s.log.Warn("document delete failed", "id", id, "error", err)
		s.publish(Event{Kind: EventError, Err: err})
		return err
	}

	s.docs = removeDocByID(s.docs, id)
	if len(s.docs) == 0 && s.phase == PhasePopulated {
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

// GenerateSummary triggers asynchronous summary generation for a document
// and schedules the single deferred list re-fetch. The returned channel
// closes once the re-fetch has resolved (or immediately when the trigger
// itself failed or was ignored). Repeat triggers for an id whose job is
// still outstanding are silent no-ops.
func (s *DocumentStore) GenerateSummary(ctx context.Context, id int64) (<-chan struct{}, error) {
	done := make(chan struct{})

	s.mu.Lock()
	if s.summarizing[id] {
		s.mu.Unlock()
		close(done)
		return done, nil
	}
	s.summarizing[id] = true
	delay := s.RefreshDelay
	s.mu.Unlock()

	err := s.api.GenerateSummary(ctx, id)
	if err != nil {
		s.mu.Lock()
		delete(s.summarizing, id)
		s.mu.Unlock()
		close(done)
		if client.IsCancelled(err) {
			return done, nil
		}
		s.log.Warn("summary trigger failed", "id", id, "error", err)
		s.publish(Event{Kind: EventError, Err: err})
		return done, err
	}

	time.AfterFunc(delay, func() {
		defer close(done)
		s.Load(context.Background())
		s.mu.Lock()
		delete(s.summarizing, id)
		s.mu.Unlock()
	})
	return done, nil
}

// Summarizing reports whether a summary trigger for id is outstanding.
func (s *DocumentStore) Summarizing(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarizing[id]
}

// Filter returns the cached documents whose filename, file type or
// summary contain the query, case-insensitively. A pure projection: the
// cache itself is never touched.
func (s *DocumentStore) Filter(query string) []types.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if q == "" || matchesDocument(d, q) {
			out = append(out, d)
		}
	}
	return out
}

func matchesDocument(d types.Document, q string) bool {
	if strings.Contains(strings.ToLower(d.Filename), q) {
		return true
	}
	if strings.Contains(strings.ToLower(d.FileType), q) {
		return true
	}
	return d.Summary != nil && strings.Contains(strings.ToLower(*d.Summary), q)
}

// Documents returns a copy of the cached list.
func (s *DocumentStore) Documents() []types.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Phase returns the current list view phase.
func (s *DocumentStore) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the load error, if the store is in the Failed phase.
func (s *DocumentStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Select marks a document as the currently selected one.
func (s *DocumentStore) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the currently selected document id, zero for none.
func (s *DocumentStore) Selected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Close cancels any in-flight fetch and suppresses all later state
// updates from it.
func (s *DocumentStore) Close() {
	s.scope.Close()
}

func removeDocByID(docs []types.Document, id int64) []types.Document {
	out := docs[:0]
	for _, d := range docs {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
