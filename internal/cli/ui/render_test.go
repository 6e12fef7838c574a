package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

func TestRenderSources(t *testing.T) {
	assert.Empty(t, RenderSources(nil))
	assert.Empty(t, RenderSources([]types.Source{}))

	out := RenderSources([]types.Source{
		{ID: 1, Filename: "report.pdf", FileType: "pdf"},
		{ID: 2, Filename: "notes.txt"},
	})
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "(pdf)")
	assert.Contains(t, out, "notes.txt")
}

func TestRenderDocumentTreeEmpty(t *testing.T) {
	assert.Contains(t, RenderDocumentTree(nil), "No documents found")
}

func TestRenderDocumentSummaryCount(t *testing.T) {
	assert.Contains(t, RenderDocumentSummary(1), "1 document")
	assert.Contains(t, RenderDocumentSummary(3), "3 documents")
}

func TestBoxStylesShareLayout(t *testing.T) {
	assert.Equal(t, boxWidth, Styles.SuccessBox.GetWidth())
	assert.Equal(t, boxWidth, Styles.ErrorBox.GetWidth())
	assert.NotEqual(t, Styles.SuccessBox.GetBorderTopForeground(), Styles.ErrorBox.GetBorderTopForeground())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "2.0 KiB", humanSize(2048))
	assert.Equal(t, "1.5 MiB", humanSize(3<<19))
}
