package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/lifecycle"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

// SessionPhase is the chat session state.
type SessionPhase int

const (
	// SessionIdle: no conversation selected yet.
	SessionIdle SessionPhase = iota
	// SessionLoading: fetching an existing conversation's history.
	SessionLoading
	// SessionReady: messages populated, input accepted.
	SessionReady
	// SessionSending: a send is in flight; further sends are rejected.
	SessionSending
	// SessionFailed: loading an existing conversation failed; previous
	// messages are cleared and the session can recover by re-selecting.
	SessionFailed
)

func (p SessionPhase) String() string {
	switch p {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionReady:
		return "ready"
	case SessionSending:
		return "sending"
	case SessionFailed:
		return "failed"
	}
	return "unknown"
}

// WelcomeText seeds the message list of a fresh chat.
const WelcomeText = "Hi! Upload documents and ask me anything about them."

// ChatAPI is the slice of the API client the chat session needs.
type ChatAPI interface {
	GetConversation(ctx context.Context, id int64) (*types.ConversationDetail, error)
	SendChat(ctx context.Context, message string, conversationID int64) (*types.ChatData, error)
}

// ChatSession manages one chat view: message history, pending-send state
// and conversation identity. A session starts anonymous; the first
// successful send adopts the server-assigned conversation id. The user's
// own message is appended optimistically and never rolled back; a failed
// send appends a synthetic assistant message instead.
type ChatSession struct {
	api ChatAPI
	log *slog.Logger

	scope lifecycle.Scope

	mu             sync.Mutex
	phase          SessionPhase
	conversationID int64
	title          string
	messages       []types.Message
	loadErr        error
	onCreated      func(conversationID int64)
}

// NewChatSession creates an idle session.
func NewChatSession(api ChatAPI, log *slog.Logger) *ChatSession {
	return &ChatSession{api: api, log: log, phase: SessionIdle}
}

// OnConversationCreated registers a callback fired (outside the session
// lock) when a send adopts a fresh server-assigned conversation id, so
// the conversation list can refresh.
func (s *ChatSession) OnConversationCreated(fn func(conversationID int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCreated = fn
}

// Select switches the session to the given conversation. Zero selects a
// new, anonymous chat: no network call, the message list is welcome-
// seeded and the session is immediately ready. A non-zero id loads the
// history; rapid re-selection cancels the superseded load, and its
// response is dropped by token identity even if it resolves later.
func (s *ChatSession) Select(ctx context.Context, id int64) {
	ctx, tok := s.scope.Begin(ctx)

	// The pre-write is token-guarded: if another Select began between
	// Begin and here, writing conversationID now would pair this id with
	// the other Select's history and later sends would post to the wrong
	// conversation.
	s.mu.Lock()
	if !tok.Live() {
		s.mu.Unlock()
		return
	}
	s.conversationID = id
	s.loadErr = nil
	if id == 0 {
		s.title = ""
		s.messages = []types.Message{assistantMessage(WelcomeText, nil)}
		s.phase = SessionReady
		s.mu.Unlock()
		return
	}
	s.phase = SessionLoading
	s.messages = nil
	s.mu.Unlock()

	detail, err := s.api.GetConversation(ctx, id)

	if err != nil && client.IsCancelled(err) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !tok.Live() {
		return
	}
	if err != nil {
		s.phase = SessionFailed
		s.loadErr = err
		s.messages = nil
		s.log.Warn("conversation load failed", "id", id, "error", err)
		return
	}
	s.title = detail.Title
	s.messages = detail.Messages
	s.phase = SessionReady
}

// Send submits user input. Empty or whitespace-only text and re-entry
// while a send or load is in flight are no-ops; Send reports whether the
// input was accepted. The user message is appended immediately. On
// success the assistant reply (with sources) is appended and, for an
// anonymous session, the server-assigned conversation id is adopted. On
// failure a synthetic assistant message derived from the error kind is
// appended; nothing is ever removed.
func (s *ChatSession) Send(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.phase == SessionSending || s.phase == SessionLoading {
		s.mu.Unlock()
		return false
	}
	convID := s.conversationID
	s.messages = append(s.messages, types.Message{
		ID:        types.MessageID(uuid.NewString()),
		Role:      types.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	s.phase = SessionSending
	s.mu.Unlock()

	// A conversation switch during the send invalidates this token and
	// cancels the transfer.
	ctx, tok := s.scope.Begin(ctx)

	data, err := s.api.SendChat(ctx, text, convID)

	if err != nil && client.IsCancelled(err) {
		s.mu.Lock()
		if tok.Live() && s.phase == SessionSending {
			s.phase = SessionReady
		}
		s.mu.Unlock()
		return true
	}

	var created func(int64)
	var createdID int64

	s.mu.Lock()
	if !tok.Live() {
		s.mu.Unlock()
		return true
	}
	s.phase = SessionReady
	if err != nil {
		s.log.Warn("chat send failed", "conversation_id", convID, "error", err)
		s.messages = append(s.messages, assistantMessage(sendFailureText(err), nil))
		s.mu.Unlock()
		return true
	}
	if convID == 0 && data.ConversationID != 0 {
		s.conversationID = data.ConversationID
		created = s.onCreated
		createdID = data.ConversationID
	}
	s.messages = append(s.messages, assistantMessage(data.Response, data.Sources))
	s.mu.Unlock()

	if created != nil {
		created(createdID)
	}
	return true
}

// sendFailureText maps an error kind to the assistant-style failure
// message shown in place of a reply.
func sendFailureText(err error) string {
	switch {
	case client.IsConnectivity(err):
		return "I couldn't reach the backend. Make sure the server is running, then try again."
	case client.IsServer(err):
		return fmt.Sprintf("Sorry, the server couldn't process your message: %s", client.UserMessage(err))
	default:
		return fmt.Sprintf("Sorry, something went wrong: %s", client.UserMessage(err))
	}
}

func assistantMessage(content string, sources []types.Source) types.Message {
	return types.Message{
		ID:        types.MessageID(uuid.NewString()),
		Role:      types.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Sources:   sources,
	}
}

// Phase returns the current session phase.
func (s *ChatSession) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ConversationID returns the session's conversation id, zero while the
// session is anonymous.
func (s *ChatSession) ConversationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Title returns the loaded conversation title, empty for a new chat.
func (s *ChatSession) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Messages returns a copy of the message history.
func (s *ChatSession) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Err returns the load error, if the session is in the Failed phase.
func (s *ChatSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Close cancels any in-flight request and suppresses its state updates.
func (s *ChatSession) Close() {
	s.scope.Close()
}
