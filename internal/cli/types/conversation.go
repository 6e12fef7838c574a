package types

// Conversation is a chat conversation summary as returned by the list
// endpoint. ID is zero only on the client side, before the first send of a
// new chat has been confirmed by the server.
type Conversation struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ConversationListData is the response body of GET /api/conversations.
type ConversationListData struct {
	Success       bool           `json:"success"`
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// ConversationDetail is a conversation with its full message history.
type ConversationDetail struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ConversationData is the response body of GET /api/conversations/{id}.
type ConversationData struct {
	Success      bool               `json:"success"`
	Conversation ConversationDetail `json:"conversation"`
}

// RenameRequest is the request body of PATCH /api/conversations/{id}/title.
type RenameRequest struct {
	Title string `json:"title"`
}

// RenameData is the response body of a successful rename.
type RenameData struct {
	Success bool `json:"success"`
}
