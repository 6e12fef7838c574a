package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
)

var (
	// Tree node styles
	docStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
	convoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // Blue
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true) // Pink

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

const summaryPreviewWidth = 72

// RenderDocumentTree renders the document list as a tree, one node per
// document with its metadata and summary state as children.
func RenderDocumentTree(docs []types.Document) string {
	if len(docs) == 0 {
		return keyStyle.Render("No documents found")
	}

	var output strings.Builder
	for i, doc := range docs {
		output.WriteString(buildDocumentNode(doc).String())
		if i < len(docs)-1 {
			output.WriteString("\n")
		}
	}
	return output.String()
}

func buildDocumentNode(doc types.Document) *tree.Tree {
	label := fmt.Sprintf("%s %s",
		docStyle.Render(doc.Filename),
		keyStyle.Render(fmt.Sprintf("(#%d)", doc.ID)),
	)
	node := tree.New().Root(label)

	node.Child(formatKeyValue("Type:", strings.ToUpper(doc.FileType)))
	node.Child(formatKeyValue("Size:", humanSize(doc.FileSize)))
	if doc.UploadDate != "" {
		node.Child(formatKeyValue("Uploaded:", doc.UploadDate))
	}
	node.Child(formatKeyValue("Status:", coloredDocStatus(doc.Status)))
	node.Child(formatKeyValue("Summary:", summaryLine(doc)))

	return node
}

func summaryLine(doc types.Document) string {
	switch doc.SummaryStatus {
	case types.SummaryCompleted:
		if doc.Summary != nil && *doc.Summary != "" {
			return truncate(*doc.Summary, summaryPreviewWidth)
		}
		return color.GreenString("completed")
	case types.SummaryGenerating:
		return color.YellowString("generating...")
	case types.SummaryFailed:
		return color.RedString("failed")
	default:
		return keyStyle.Render("pending")
	}
}

func coloredDocStatus(status string) string {
	switch status {
	case types.DocStatusProcessed:
		return color.GreenString(status)
	case types.DocStatusProcessing:
		return color.YellowString(status)
	case types.DocStatusError:
		return color.RedString(status)
	default:
		return status
	}
}

// RenderConversationList renders conversations as an aligned list.
func RenderConversationList(convos []types.Conversation) string {
	if len(convos) == 0 {
		return keyStyle.Render("No conversations found")
	}

	maxTitle := 0
	for _, c := range convos {
		if w := runewidth.StringWidth(c.Title); w > maxTitle {
			maxTitle = w
		}
	}

	var output strings.Builder
	for _, c := range convos {
		title := runewidth.FillRight(c.Title, maxTitle)
		output.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("#%-4d", c.ID)),
			convoStyle.Render(title),
			keyStyle.Render(fmt.Sprintf("%d messages, updated %s", c.MessageCount, c.UpdatedAt)),
		))
	}
	return strings.TrimRight(output.String(), "\n")
}

// RenderSources renders the source attribution block under a chat reply.
func RenderSources(sources []types.Source) string {
	if len(sources) == 0 {
		return ""
	}
	var output strings.Builder
	output.WriteString(keyStyle.Render("Sources:"))
	for _, src := range sources {
		output.WriteString("\n  ")
		output.WriteString(keyStyle.Render("• "))
		output.WriteString(convoStyle.Render(src.Filename))
		if src.FileType != "" {
			output.WriteString(keyStyle.Render(fmt.Sprintf(" (%s)", src.FileType)))
		}
	}
	return output.String()
}

// RenderDocumentSummary renders a count line under the document tree.
func RenderDocumentSummary(count int) string {
	label := "documents"
	if count == 1 {
		label = "document"
	}
	summary := fmt.Sprintf("Total: %s %s",
		highlightStyle.Render(fmt.Sprintf("%d", count)),
		keyStyle.Render(label),
	)
	return summaryStyle.Render(summary)
}

func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", keyStyle.Render(key), value)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, width, "…")
}
