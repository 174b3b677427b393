package cli

import (
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()

	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusBadge colors a knowledge-base version status
func statusBadge(s api.VersionStatus) string {
	switch s {
	case api.StatusPublished:
		return green(string(s))
	case api.StatusDraft:
		return yellow(string(s))
	default:
		return faint(string(s))
	}
}

// accessBadge colors an access level
func accessBadge(a api.AccessLevel) string {
	switch a {
	case api.AccessPublic:
		return green(string(a))
	case api.AccessProtected:
		return yellow(string(a))
	default:
		return red(string(a))
	}
}

// processingBadge colors a document version processing state
func processingBadge(v api.DocumentVersion) string {
	if v.IsArchived {
		return faint("archived")
	}
	s := v.Processing()
	switch s {
	case api.ProcessingCompleted:
		return green(string(s))
	case api.ProcessingFailed:
		return red(string(s))
	default:
		return yellow(string(s))
	}
}

func primaryMark(v api.KnowledgeBaseVersion) string {
	if v.IsPrimary {
		return boldGreen("★")
	}
	return " "
}

func okBadge() string {
	return boldGreen("✓")
}

func warnBadge() string {
	return yellow("!")
}

func actionList(v api.KnowledgeBaseVersion) string {
	set := lifecycle.Actions(v)
	var names []string
	for _, a := range []lifecycle.Action{lifecycle.ActionEdit, lifecycle.ActionPublish, lifecycle.ActionSetPrimary, lifecycle.ActionArchive} {
		if set.Allowed(a) {
			names = append(names, string(a))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func formatTime(ts api.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func formatLocal(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
