// Package loader reads and validates local files before upload. All
// validation happens client-side, ahead of any network traffic: an
// unsupported extension or a file whose content contradicts its
// extension is rejected without touching the server.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

// MaxUploadSize caps a single file at 50 MiB, matching the backend limit.
const MaxUploadSize = 50 << 20

// contentTypes maps the supported extensions to the content type sent in
// the multipart part. Anything else is rejected by name.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".csv":  "text/csv",
	".json": "application/json",
	".txt":  "text/plain",
}

// mimePrefixes lists the detected MIME prefixes accepted per extension.
// Browsers and other tools often report generic octet-stream for
// perfectly valid files, so that is tolerated everywhere; a detection
// that names a concrete *different* format is not.
var mimePrefixes = map[string][]string{
	".pdf":  {"application/pdf"},
	".csv":  {"text/csv", "text/plain", "application/csv"},
	".json": {"application/json", "text/plain"},
	".txt":  {"text/plain", "text/", "application/json", "text/csv"},
}

// SupportedExtensions returns the accepted upload extensions, for help
// text and error messages.
func SupportedExtensions() []string {
	return []string{".pdf", ".csv", ".json", ".txt"}
}

// LoadFromFile reads a file from disk and validates it for upload.
func LoadFromFile(path string) (*types.UploadFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, client.NewValidationError(fmt.Sprintf(
			"unsupported file type %q for %s, supported: %s",
			ext, filepath.Base(path), strings.Join(SupportedExtensions(), ", ")))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() == 0 {
		return nil, client.NewValidationError(fmt.Sprintf("%s is empty", filepath.Base(path)))
	}
	if info.Size() > MaxUploadSize {
		return nil, client.NewValidationError(fmt.Sprintf(
			"%s is %.1f MiB, limit is %d MiB",
			filepath.Base(path), float64(info.Size())/(1<<20), MaxUploadSize>>20))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if err := checkContent(ext, filepath.Base(path), data); err != nil {
		return nil, err
	}

	return &types.UploadFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// checkContent sniffs the file content and rejects it when the detected
// format contradicts the extension.
func checkContent(ext, name string, data []byte) error {
	detected := mimetype.Detect(data).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}

	if detected == "application/octet-stream" {
		return nil
	}
	for _, prefix := range mimePrefixes[ext] {
		if strings.HasPrefix(detected, prefix) {
			return nil
		}
	}
	return client.NewValidationError(fmt.Sprintf(
		"%s looks like %s, not a %s file", name, detected, strings.TrimPrefix(ext, ".")))
}
