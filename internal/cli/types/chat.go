package types

import (
	"bytes"
	"strconv"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageID holds either a numeric server-assigned id or a string
// temporary id generated by the client for an optimistic message.
type MessageID string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*id = MessageID(s)
		return nil
	}
	*id = MessageID(data)
	return nil
}

// MarshalJSON emits the id as a plain string.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

// Source references a document cited by an assistant message.
type Source struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	URL      string `json:"url,omitempty"`
}

// Message is a single chat message. Sources is empty for user messages.
type Message struct {
	ID        MessageID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`
	Sources   []Source  `json:"sources,omitempty"`
}

// ChatRequest is the request body of POST /api/chat. ConversationID is
// omitted for the first message of a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

// ChatData is the response body of POST /api/chat. ConversationID is
// always populated by the server, including for newly created
// conversations whose id the client must adopt.
type ChatData struct {
	Success        bool      `json:"success"`
	Response       string    `json:"response"`
	ConversationID int64     `json:"conversation_id"`
	MessageID      MessageID `json:"message_id,omitempty"`
	Sources        []Source  `json:"sources"`
}
