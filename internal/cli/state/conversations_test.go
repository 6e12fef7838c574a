package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

type convoListCall struct {
	release chan struct{}
	convos  []types.Conversation
	err     error
}

type fakeConvoAPI struct {
	mu        sync.Mutex
	listCalls []*convoListCall
	listReady chan struct{}

	deleteErr   error
	renameErr   error
	renameCalls int
	renamedTo   string
}

func newFakeConvoAPI() *fakeConvoAPI {
	return &fakeConvoAPI{listReady: make(chan struct{}, 16)}
}

func (f *fakeConvoAPI) expectList(convos []types.Conversation, err error) *convoListCall {
	c := &convoListCall{release: make(chan struct{}), convos: convos, err: err}
	f.mu.Lock()
	f.listCalls = append(f.listCalls, c)
	f.mu.Unlock()
	return c
}

func (f *fakeConvoAPI) ListConversations(ctx context.Context) ([]types.Conversation, error) {
	f.mu.Lock()
	var c *convoListCall
	if len(f.listCalls) > 0 {
		c = f.listCalls[0]
		f.listCalls = f.listCalls[1:]
	}
	f.mu.Unlock()
	if c == nil {
		return nil, nil
	}
	f.listReady <- struct{}{}
	<-c.release
	return c.convos, c.err
}

func (f *fakeConvoAPI) DeleteConversation(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeConvoAPI) RenameConversation(ctx context.Context, id int64, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renameCalls++
	if f.renameErr != nil {
		return f.renameErr
	}
	f.renamedTo = title
	return nil
}

func convos(titles ...string) []types.Conversation {
	out := make([]types.Conversation, len(titles))
	for i, title := range titles {
		out[i] = types.Conversation{ID: int64(i + 1), Title: title}
	}
	return out
}

func TestConversationStore_LoadPhases(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("Tax questions"), nil)
	close(call.release)
	s.Load(context.Background())
	assert.Equal(t, PhasePopulated, s.Phase())

	call = api.expectList(nil, client.NewConnectivityError(context.DeadlineExceeded))
	close(call.release)
	s.Load(context.Background())
	assert.Equal(t, PhaseFailed, s.Phase())
	assert.True(t, client.IsConnectivity(s.Err()))
	assert.Empty(t, s.Conversations())
}

func TestConversationStore_StaleLoadResponseDropped(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	first := api.expectList(convos("stale"), nil)
	second := api.expectList(convos("fresh", "fresher"), nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.Load(context.Background()) }()
	<-api.listReady
	go func() { defer wg.Done(); s.Load(context.Background()) }()
	<-api.listReady

	close(second.release)
	waitPhase(t, s.Phase, PhasePopulated)
	close(first.release)
	wg.Wait()

	got := s.Conversations()
	require.Len(t, got, 2)
	assert.Equal(t, "fresh", got[0].Title)
}

func TestConversationStore_LoadAfterCloseKeepsCache(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())

	call := api.expectList(convos("keep"), nil)
	close(call.release)
	s.Load(context.Background())
	require.Equal(t, PhasePopulated, s.Phase())

	s.Close()
	s.Load(context.Background())

	assert.Equal(t, PhasePopulated, s.Phase(), "a load after Close must not re-enter loading")
	assert.Len(t, s.Conversations(), 1)
}

func TestConversationStore_RenameConfirmThenApply(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("Old title"), nil)
	close(call.release)
	s.Load(context.Background())

	require.NoError(t, s.Rename(context.Background(), 1, "  New title  "))
	assert.Equal(t, "New title", api.renamedTo, "title is trimmed before sending")
	assert.Equal(t, "New title", s.Conversations()[0].Title)
}

func TestConversationStore_RenameFailureKeepsOldTitle(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("Old title"), nil)
	close(call.release)
	s.Load(context.Background())

	api.renameErr = client.NewServerError(500, "rename failed")

	var errEv error
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventError {
			errEv = ev.Err
		}
	})

	err := s.Rename(context.Background(), 1, "New title")
	require.Error(t, err)
	assert.Equal(t, "Old title", s.Conversations()[0].Title)
	assert.True(t, client.IsServer(errEv))
}

func TestConversationStore_RenameEmptyTitleRejectedLocally(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	err := s.Rename(context.Background(), 1, "   ")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
	assert.Zero(t, api.renameCalls, "validation failures never reach the network")
}

func TestConversationStore_DeleteClearsSelection(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("a", "b"), nil)
	close(call.release)
	s.Load(context.Background())
	s.Select(1)

	var cleared bool
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventSelectionCleared {
			cleared = true
		}
	})

	require.NoError(t, s.Delete(context.Background(), 1))
	assert.True(t, cleared)
	assert.Zero(t, s.Selected())
	assert.Len(t, s.Conversations(), 1)
}

func TestConversationStore_DeleteFailureKeepsCache(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("a"), nil)
	close(call.release)
	s.Load(context.Background())

	api.deleteErr = client.NewServerError(404, "Conversation not found")
	err := s.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Len(t, s.Conversations(), 1)
}

func TestConversationStore_FilterByTitle(t *testing.T) {
	api := newFakeConvoAPI()
	s := NewConversationStore(api, discardLogger())
	defer s.Close()

	call := api.expectList(convos("Tax questions", "Contract review"), nil)
	close(call.release)
	s.Load(context.Background())

	assert.Len(t, s.Filter("tax"), 1)
	assert.Len(t, s.Filter("REVIEW"), 1)
	assert.Len(t, s.Filter(""), 2)
	assert.Len(t, s.Conversations(), 2)
}
