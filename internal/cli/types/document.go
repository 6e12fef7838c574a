package types

// Document processing status values reported by the backend.
const (
	DocStatusProcessing = "processing"
	DocStatusProcessed  = "processed"
	DocStatusError      = "error"
)

// Summary generation states. Completed and failed are terminal; the other
// two may still change server-side after any given fetch.
const (
	SummaryPending    = "pending"
	SummaryGenerating = "generating"
	SummaryCompleted  = "completed"
	SummaryFailed     = "failed"
)

// Document represents an uploaded document as reported by the backend.
// The client holds an eventually-consistent copy; summary_status is driven
// by an asynchronous job the client only observes.
type Document struct {
	ID            int64   `json:"id"`
	Filename      string  `json:"filename"`
	FileType      string  `json:"file_type"`
	FileSize      int64   `json:"file_size"`
	UploadDate    string  `json:"upload_date"`
	Status        string  `json:"status"`
	Summary       *string `json:"summary,omitempty"`
	SummaryStatus string  `json:"summary_status,omitempty"`
}

// SummaryTerminal reports whether the document's summary job has reached a
// state that no longer changes without user action.
func (d Document) SummaryTerminal() bool {
	return d.SummaryStatus == SummaryCompleted || d.SummaryStatus == SummaryFailed
}

// DocumentListData is the response body of GET /api/documents.
type DocumentListData struct {
	Success   bool       `json:"success"`
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

// UploadFile is a validated local file ready for multipart upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult describes one successfully processed file.
type UploadResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	DocumentID int64  `json:"document_id"`
}

// UploadFailure describes one rejected file.
type UploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadData is the response body of POST /api/upload.
type UploadData struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Results []UploadResult  `json:"results"`
	Errors  []UploadFailure `json:"errors"`
}
