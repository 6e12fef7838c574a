package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-playground/validator/v10"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

// validate checks request payloads before they leave the client.
var validate = validator.New(validator.WithRequiredStructEnabled())

// APIClient wraps a Hertz client for HTTP communication with the backend.
// Every operation takes a context; cancellation is reported as a Cancelled
// error and is always checked before a response body is decoded.
type APIClient struct {
	client  *client.Client
	server  string
	timeout time.Duration
}

// NewAPIClient creates a new API client for the given server address.
// timeout bounds a single request; zero means no client-side deadline.
func NewAPIClient(server string, timeout time.Duration) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client:  c,
		server:  normalizedServer,
		timeout: timeout,
	}, nil
}

// normalizeServerURL normalizes the server URL to ensure it has a scheme
// and no trailing slash.
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// do sends one request and decodes a JSON response into out (out may be
// nil for operations that only need the status code). Error results map
// onto the client error taxonomy: cancellation, connectivity, server.
func (c *APIClient) do(ctx context.Context, method, requestURI, contentType string, body []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.server + requestURI)
	if body != nil {
		req.Header.SetContentTypeBytes([]byte(contentType))
		req.SetBody(body)
	}

	if err := c.client.Do(ctx, req, resp); err != nil {
		if ctx.Err() == context.Canceled {
			return NewCancelledError()
		}
		return NewConnectivityError(err)
	}

	// Cancellation wins over any response that raced with it.
	switch ctx.Err() {
	case context.Canceled:
		return NewCancelledError()
	case context.DeadlineExceeded:
		return NewConnectivityError(ctx.Err())
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return NewServerError(status, errorDetail(resp.Body()))
	}

	if out != nil {
		if err := sonic.Unmarshal(resp.Body(), out); err != nil {
			return NewServerError(status, fmt.Sprintf("malformed response: %v", err))
		}
	}
	return nil
}

// errorDetail extracts the backend's {"detail": ...} message from an error
// body, falling back to the raw body.
func errorDetail(body []byte) string {
	var eb types.ErrorBody
	if err := sonic.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 500 {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := 500
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// Health checks the backend health endpoint.
func (c *APIClient) Health(ctx context.Context) (*types.HealthData, error) {
	var data types.HealthData
	if err := c.do(ctx, consts.MethodGet, endpointHealth, "", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListDocuments lists all uploaded documents.
func (c *APIClient) ListDocuments(ctx context.Context) ([]types.Document, error) {
	var data types.DocumentListData
	if err := c.do(ctx, consts.MethodGet, endpointDocuments, "", nil, &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, NewServerError(200, "document listing reported failure")
	}
	return data.Documents, nil
}

// DeleteDocument deletes a document by id.
func (c *APIClient) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, consts.MethodDelete, fmt.Sprintf(endpointDocumentByID, id), "", nil, nil)
}

// GenerateSummary asks the backend to start summary generation for a
// document. The job is asynchronous; acceptance does not mean completion.
func (c *APIClient) GenerateSummary(ctx context.Context, id int64) error {
	return c.do(ctx, consts.MethodPost, fmt.Sprintf(endpointDocumentSummary, id), "", nil, nil)
}

// Upload submits one or more validated files as a multipart request. Files
// must have been checked by the loader package first; the server performs
// its own validation as well and reports per-file failures.
func (c *APIClient) Upload(ctx context.Context, files []types.UploadFile) (*types.UploadData, error) {
	if len(files) == 0 {
		return nil, NewValidationError("no files to upload")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(f.Name)))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart request: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to build multipart request: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	var data types.UploadData
	if err := c.do(ctx, consts.MethodPost, endpointUpload, w.FormDataContentType(), buf.Bytes(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// ListConversations lists all conversations.
func (c *APIClient) ListConversations(ctx context.Context) ([]types.Conversation, error) {
	var data types.ConversationListData
	if err := c.do(ctx, consts.MethodGet, endpointConversations, "", nil, &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, NewServerError(200, "conversation listing reported failure")
	}
	return data.Conversations, nil
}

// GetConversation fetches a conversation with its full message history.
func (c *APIClient) GetConversation(ctx context.Context, id int64) (*types.ConversationDetail, error) {
	var data types.ConversationData
	if err := c.do(ctx, consts.MethodGet, fmt.Sprintf(endpointConversationByID, id), "", nil, &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, NewServerError(200, "conversation fetch reported failure")
	}
	return &data.Conversation, nil
}

// DeleteConversation deletes a conversation by id.
func (c *APIClient) DeleteConversation(ctx context.Context, id int64) error {
	return c.do(ctx, consts.MethodDelete, fmt.Sprintf(endpointConversationByID, id), "", nil, nil)
}

// RenameConversation updates a conversation's title. Empty titles are
// rejected client-side.
func (c *APIClient) RenameConversation(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title cannot be empty")
	}

	body, err := sonic.Marshal(types.RenameRequest{Title: title})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var data types.RenameData
	if err := c.do(ctx, consts.MethodPatch, fmt.Sprintf(endpointConversationTitle, id), "application/json", body, &data); err != nil {
		return err
	}
	if !data.Success {
		return NewServerError(200, "rename reported failure")
	}
	return nil
}

// SendChat sends a chat message. conversationID zero means "no
// conversation yet"; the server then creates one and returns its id,
// which the caller must adopt for subsequent sends.
func (c *APIClient) SendChat(ctx context.Context, message string, conversationID int64) (*types.ChatData, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewValidationError("message cannot be empty")
	}

	body, err := sonic.Marshal(types.ChatRequest{
		Message:        message,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var data types.ChatData
	if err := c.do(ctx, consts.MethodPost, endpointChat, "application/json", body, &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, NewServerError(200, "chat reported failure")
	}
	return &data, nil
}

// GetSettings reads the backend configuration (key-presence flags and the
// model catalog, never key material).
func (c *APIClient) GetSettings(ctx context.Context) (*types.Settings, error) {
	var data types.Settings
	if err := c.do(ctx, consts.MethodGet, endpointSettings, "", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// UpdateSettings writes a partial settings update and returns the server's
// confirmation message.
func (c *APIClient) UpdateSettings(ctx context.Context, upd *types.SettingsUpdate) (string, error) {
	if err := validate.Struct(upd); err != nil {
		return "", NewValidationError(err.Error())
	}

	body, err := sonic.Marshal(upd)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var data types.SettingsUpdateData
	if err := c.do(ctx, consts.MethodPut, endpointSettings, "application/json", body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}
