package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/kb-console/internal/api"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Yellow
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// Status styles
	statusActiveStyle = lipgloss.NewStyle().
				Foreground(secondaryColor).
				Bold(true)

	statusPendingStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	statusMutedStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	crumbSepStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true).
				PaddingLeft(1).
				PaddingRight(1)

	normalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	disabledItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(mutedColor)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(12)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(0, 1)
)

// VersionStatusIcon returns an icon for a knowledge-base version status
func VersionStatusIcon(v api.KnowledgeBaseVersion) string {
	switch {
	case v.IsPrimary:
		return statusActiveStyle.Render("★")
	case v.Status == api.StatusPublished:
		return statusActiveStyle.Render("●")
	case v.Status == api.StatusDraft:
		return statusPendingStyle.Render("✎")
	default:
		return statusMutedStyle.Render("○")
	}
}

// ProcessingIcon returns an icon for a document version processing state
func ProcessingIcon(v api.DocumentVersion) string {
	if v.IsArchived {
		return statusMutedStyle.Render("○")
	}
	switch v.Processing() {
	case api.ProcessingCompleted:
		return statusActiveStyle.Render("✓")
	case api.ProcessingFailed:
		return statusErrorStyle.Render("✗")
	default:
		return statusPendingStyle.Render("◌")
	}
}

func accessStyle(a api.AccessLevel) lipgloss.Style {
	switch a {
	case api.AccessPublic:
		return statusActiveStyle
	case api.AccessProtected:
		return statusPendingStyle
	default:
		return statusErrorStyle
	}
}

func statusStyle(s api.VersionStatus) lipgloss.Style {
	switch s {
	case api.StatusPublished:
		return statusActiveStyle
	case api.StatusDraft:
		return statusPendingStyle
	default:
		return statusMutedStyle
	}
}
