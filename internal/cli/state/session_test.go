package state

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

type getCall struct {
	release chan struct{}
	detail  *types.ConversationDetail
	err     error
}

type sendCall struct {
	release chan struct{}
	data    *types.ChatData
	err     error
}

type fakeChatAPI struct {
	mu        sync.Mutex
	getCalls  []*getCall
	getReady  chan struct{}
	sendCalls []*sendCall
	sendReady chan struct{}

	// getFn, when set, answers GetConversation calls that have no queued
	// expectation.
	getFn func(id int64) (*types.ConversationDetail, error)

	lastSentMessage string
	lastSentConvoID int64
}

func newFakeChatAPI() *fakeChatAPI {
	return &fakeChatAPI{
		getReady:  make(chan struct{}, 16),
		sendReady: make(chan struct{}, 16),
	}
}

func (f *fakeChatAPI) expectGet(detail *types.ConversationDetail, err error) *getCall {
	c := &getCall{release: make(chan struct{}), detail: detail, err: err}
	f.mu.Lock()
	f.getCalls = append(f.getCalls, c)
	f.mu.Unlock()
	return c
}

func (f *fakeChatAPI) expectSend(data *types.ChatData, err error) *sendCall {
	c := &sendCall{release: make(chan struct{}), data: data, err: err}
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, c)
	f.mu.Unlock()
	return c
}

func (f *fakeChatAPI) GetConversation(ctx context.Context, id int64) (*types.ConversationDetail, error) {
	f.mu.Lock()
	var c *getCall
	if len(f.getCalls) > 0 {
		c = f.getCalls[0]
		f.getCalls = f.getCalls[1:]
	}
	f.mu.Unlock()
	if c == nil {
		if f.getFn != nil {
			return f.getFn(id)
		}
		return &types.ConversationDetail{ID: id}, nil
	}
	f.getReady <- struct{}{}
	<-c.release
	return c.detail, c.err
}

func (f *fakeChatAPI) SendChat(ctx context.Context, message string, conversationID int64) (*types.ChatData, error) {
	f.mu.Lock()
	var c *sendCall
	if len(f.sendCalls) > 0 {
		c = f.sendCalls[0]
		f.sendCalls = f.sendCalls[1:]
	}
	f.lastSentMessage = message
	f.lastSentConvoID = conversationID
	f.mu.Unlock()
	if c == nil {
		return &types.ChatData{Success: true, Response: "ok", ConversationID: conversationID}, nil
	}
	f.sendReady <- struct{}{}
	<-c.release
	return c.data, c.err
}

func TestChatSession_SelectNewChatSeedsWelcome(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)

	assert.Equal(t, SessionReady, s.Phase())
	assert.Zero(t, s.ConversationID())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, types.RoleAssistant, msgs[0].Role)
	assert.Equal(t, WelcomeText, msgs[0].Content)
}

func TestChatSession_SelectLoadsHistory(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	call := api.expectGet(&types.ConversationDetail{
		ID:    5,
		Title: "Tax questions",
		Messages: []types.Message{
			{ID: "1", Role: types.RoleUser, Content: "hi"},
			{ID: "2", Role: types.RoleAssistant, Content: "hello"},
		},
	}, nil)
	close(call.release)

	s.Select(context.Background(), 5)

	assert.Equal(t, SessionReady, s.Phase())
	assert.Equal(t, int64(5), s.ConversationID())
	assert.Equal(t, "Tax questions", s.Title())
	assert.Len(t, s.Messages(), 2)
}

func TestChatSession_SelectFailureClearsMessages(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)
	require.NotEmpty(t, s.Messages())

	call := api.expectGet(nil, client.NewServerError(404, "Conversation not found"))
	close(call.release)
	s.Select(context.Background(), 9)

	assert.Equal(t, SessionFailed, s.Phase())
	assert.Empty(t, s.Messages(), "a failed load must not show stale history")
	assert.True(t, client.IsNotFound(s.Err()))
}

func TestChatSession_RapidReselectDropsStaleLoad(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	stale := api.expectGet(&types.ConversationDetail{ID: 1, Title: "stale", Messages: []types.Message{{ID: "1", Role: types.RoleUser, Content: "old"}}}, nil)
	fresh := api.expectGet(&types.ConversationDetail{ID: 2, Title: "fresh"}, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.Select(context.Background(), 1) }()
	<-api.getReady
	go func() { defer wg.Done(); s.Select(context.Background(), 2) }()
	<-api.getReady

	close(fresh.release)
	require.Eventually(t, func() bool { return s.Phase() == SessionReady }, 2*time.Second, 5*time.Millisecond)
	close(stale.release)
	wg.Wait()

	assert.Equal(t, "fresh", s.Title())
	assert.Equal(t, int64(2), s.ConversationID())
	assert.Empty(t, s.Messages(), "stale history must not overwrite the newer conversation")
}

func TestChatSession_ConcurrentSelectsKeepIDAndTitlePaired(t *testing.T) {
	api := newFakeChatAPI()
	api.getFn = func(id int64) (*types.ConversationDetail, error) {
		return &types.ConversationDetail{ID: id, Title: fmt.Sprintf("convo-%d", id)}, nil
	}
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	// Whichever Select wins, the session must never end up holding one
	// conversation's id with the other conversation's history.
	for i := 0; i < 200; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); s.Select(context.Background(), 1) }()
		go func() { defer wg.Done(); s.Select(context.Background(), 2) }()
		wg.Wait()

		require.Equal(t, SessionReady, s.Phase())
		require.Equal(t, fmt.Sprintf("convo-%d", s.ConversationID()), s.Title())
	}
}

func TestChatSession_SelectAfterCloseIsNoOp(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())

	s.Select(context.Background(), 0)
	require.Equal(t, SessionReady, s.Phase())

	s.Close()
	s.Select(context.Background(), 5)

	assert.Equal(t, SessionReady, s.Phase(), "a closed session must not re-enter loading")
	assert.Zero(t, s.ConversationID())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, WelcomeText, msgs[0].Content)
}

func TestChatSession_SendRejectsBlankInput(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)
	before := len(s.Messages())

	assert.False(t, s.Send(context.Background(), ""))
	assert.False(t, s.Send(context.Background(), "   \t\n"))
	assert.Len(t, s.Messages(), before, "blank input must not append anything")
}

func TestChatSession_SendWhileSendingRejected(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)

	inflight := api.expectSend(&types.ChatData{Success: true, Response: "reply", ConversationID: 3}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); s.Send(context.Background(), "first") }()
	<-api.sendReady

	assert.Equal(t, SessionSending, s.Phase())
	assert.False(t, s.Send(context.Background(), "second"), "re-entry while sending is a no-op")

	close(inflight.release)
	wg.Wait()
	assert.Equal(t, SessionReady, s.Phase())
}

func TestChatSession_SendAdoptsConversationID(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	var created int64
	s.OnConversationCreated(func(id int64) { created = id })

	s.Select(context.Background(), 0)

	call := api.expectSend(&types.ChatData{
		Success:        true,
		Response:       "Here is what your documents say.",
		ConversationID: 42,
		Sources:        []types.Source{{ID: 1, Filename: "notes.pdf"}},
	}, nil)
	close(call.release)

	require.True(t, s.Send(context.Background(), "  what do my docs say?  "))

	assert.Equal(t, int64(42), s.ConversationID(), "first reply assigns the conversation id")
	assert.Equal(t, int64(42), created, "creation callback fires on adoption")
	assert.Equal(t, "what do my docs say?", api.lastSentMessage, "input is trimmed")
	assert.Equal(t, int64(0), api.lastSentConvoID, "anonymous send carries no id")

	msgs := s.Messages()
	require.Len(t, msgs, 3) // welcome, user, assistant
	assert.Equal(t, types.RoleUser, msgs[1].Role)
	assert.Equal(t, types.RoleAssistant, msgs[2].Role)
	assert.Len(t, msgs[2].Sources, 1)

	// A second send on the adopted conversation must not fire the
	// callback again.
	created = 0
	call = api.expectSend(&types.ChatData{Success: true, Response: "more", ConversationID: 42}, nil)
	close(call.release)
	require.True(t, s.Send(context.Background(), "more?"))
	assert.Zero(t, created)
	assert.Equal(t, int64(42), api.lastSentConvoID)
}

func TestChatSession_SendFailureKeepsUserMessage(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)

	call := api.expectSend(nil, client.NewConnectivityError(context.DeadlineExceeded))
	close(call.release)

	require.True(t, s.Send(context.Background(), "are you there?"))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "are you there?", msgs[1].Content, "the user's message is never rolled back")
	assert.Equal(t, types.RoleAssistant, msgs[2].Role)
	assert.Contains(t, msgs[2].Content, "couldn't reach the backend")
	assert.Equal(t, SessionReady, s.Phase(), "a failed send must not wedge the session")
	assert.Zero(t, s.ConversationID(), "no id adoption on failure")
}

func TestChatSession_SendServerErrorShowsDetail(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)

	call := api.expectSend(nil, client.NewServerError(500, "model unavailable"))
	close(call.release)

	require.True(t, s.Send(context.Background(), "hello"))

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	assert.Equal(t, types.RoleAssistant, last.Role)
	assert.True(t, strings.Contains(last.Content, "model unavailable"))
}

func TestChatSession_SelectDuringSendDropsReply(t *testing.T) {
	api := newFakeChatAPI()
	s := NewChatSession(api, discardLogger())
	defer s.Close()

	s.Select(context.Background(), 0)

	inflight := api.expectSend(&types.ChatData{Success: true, Response: "late reply", ConversationID: 7}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); s.Send(context.Background(), "question") }()
	<-api.sendReady

	// Switching to a new chat invalidates the in-flight send.
	s.Select(context.Background(), 0)
	close(inflight.release)
	wg.Wait()

	msgs := s.Messages()
	require.Len(t, msgs, 1, "only the fresh welcome message may remain")
	assert.Equal(t, WelcomeText, msgs[0].Content)
	assert.Zero(t, s.ConversationID(), "a dropped reply must not adopt an id")
}
