package client

const (
	// Health endpoint
	endpointHealth = "/health"

	// Document endpoints
	endpointDocuments       = "/api/documents"                     // GET
	endpointDocumentByID    = "/api/documents/%d"                  // DELETE
	endpointDocumentSummary = "/api/documents/%d/generate-summary" // POST (async job)
	endpointUpload          = "/api/upload"                        // POST multipart, field "files"

	// Conversation endpoints
	endpointConversations     = "/api/conversations"          // GET
	endpointConversationByID  = "/api/conversations/%d"       // GET, DELETE
	endpointConversationTitle = "/api/conversations/%d/title" // PATCH

	// Chat endpoint
	endpointChat = "/api/chat" // POST

	// Settings endpoints
	endpointSettings = "/api/settings" // GET, PUT
)
