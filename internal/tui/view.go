package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
	"github.com/n0roo/kb-console/internal/navigation"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n\n")

	switch m.nav.Screen {
	case navigation.ScreenProjects:
		b.WriteString(m.renderProjects())
	case navigation.ScreenKnowledgeBases:
		b.WriteString(m.renderKBs())
	case navigation.ScreenCreateKB:
		b.WriteString(m.renderCreateKB())
	case navigation.ScreenKBDetail:
		b.WriteString(m.renderKBDetail())
	case navigation.ScreenDocuments:
		b.WriteString(m.renderDocuments())
	case navigation.ScreenDocumentVersions:
		b.WriteString(m.renderDocumentVersions())
	case navigation.ScreenKBVersions:
		b.WriteString(m.renderKBVersions())
	case navigation.ScreenKBVersionDetail:
		b.WriteString(m.renderKBVersionDetail())
	case navigation.ScreenCreateKBVersion:
		b.WriteString(m.renderDraft())
	}

	b.WriteString("\n")
	if m.confirm != nil {
		b.WriteString(m.renderConfirm())
		b.WriteString("\n")
	}
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if m.query != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  filter: %q (esc로 해제)", m.query)))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := "KB Console"
	right := m.apiURL
	if m.pending > 0 {
		right = m.spinner.View() + " loading  " + right
	}
	if m.poller != nil {
		if n := len(m.poller.Active()); n > 0 {
			right = fmt.Sprintf("polling %d  ", n) + right
		}
	}

	headerWidth := m.width
	if headerWidth < 60 {
		headerWidth = 60
	}

	left := lipgloss.NewStyle().Bold(true).Render(title)
	r := lipgloss.NewStyle().Foreground(mutedColor).Render(right)

	gap := headerWidth - lipgloss.Width(left) - lipgloss.Width(r) - 4
	if gap < 0 {
		gap = 0
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#2D3748")).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1).
		Width(headerWidth).
		Render(left + strings.Repeat(" ", gap) + r)
}

func (m Model) renderBreadcrumbs() string {
	parts := []string{crumbStyle.Render("Projects")}
	for _, c := range navigation.Breadcrumbs(m.nav) {
		parts = append(parts, crumbStyle.Render(c.Label))
	}
	return "  " + strings.Join(parts, crumbSepStyle.Render(" › "))
}

// listWindow returns the range of rows that fits the terminal around the cursor
func (m Model) listWindow(n int) (int, int) {
	rows := m.height - 12
	if m.height == 0 || rows < 5 {
		rows = 20
	}
	if n <= rows {
		return 0, n
	}
	start := m.cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (m Model) renderRow(i int, line string) string {
	if i == m.cursor {
		return selectedItemStyle.Render("› "+line) + "\n"
	}
	return normalItemStyle.Render(line) + "\n"
}

func empty(text string) string {
	return statusMutedStyle.Render("  " + text)
}

func (m Model) renderProjects() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	items := m.visibleProjects()
	if len(items) == 0 {
		if m.pending == 0 {
			b.WriteString(empty("No projects"))
		}
		return b.String()
	}

	start, end := m.listWindow(len(items))
	for i := start; i < end; i++ {
		p := items[i]
		line := p.Name
		if p.Description != "" {
			line += statusMutedStyle.Render("  " + truncate(p.Description, 50))
		}
		b.WriteString(m.renderRow(i, line))
	}
	return b.String()
}

func (m Model) renderKBs() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Knowledge Bases"))
	b.WriteString("\n\n")

	items := m.visibleKBs()
	if len(items) == 0 {
		if m.pending == 0 {
			b.WriteString(empty("No knowledge bases (n: 새로 만들기)"))
		}
		return b.String()
	}

	start, end := m.listWindow(len(items))
	for i := start; i < end; i++ {
		kb := items[i]
		line := kb.Name
		if kb.Description != "" {
			line += statusMutedStyle.Render("  " + truncate(kb.Description, 50))
		}
		b.WriteString(m.renderRow(i, line))
	}
	return b.String()
}

func (m Model) renderCreateKB() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New Knowledge Base"))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Width(60).Render(
		detailLabelStyle.Render("Project") + detailValueStyle.Render(m.nav.Project.Name) + "\n" +
			detailLabelStyle.Render("Name") + m.kbName.View(),
	))
	return b.String()
}

func (m Model) renderKBDetail() string {
	var b strings.Builder
	kb := m.nav.KnowledgeBase

	b.WriteString(titleStyle.Render(kb.Name))
	b.WriteString("\n")
	if kb.Description != "" {
		b.WriteString(subtitleStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	active, pending := 0, 0
	for _, s := range m.summaries {
		active += s.Active
		pending += s.Pending
	}
	docBox := boxStyle.Width(35).Render(
		titleStyle.Render("Documents") + "\n" +
			fmt.Sprintf("Total:   %d\n", len(m.summaries)) +
			fmt.Sprintf("Active:  %s\n", statusActiveStyle.Render(fmt.Sprintf("%d", active))) +
			fmt.Sprintf("Pending: %s", statusPendingStyle.Render(fmt.Sprintf("%d", pending))),
	)

	primary := statusMutedStyle.Render("-")
	if p := lifecycle.FindPrimary(m.kbVersions); p != nil {
		primary = statusActiveStyle.Render("v" + p.VersionNumber)
	}
	draft := statusMutedStyle.Render("-")
	if d := lifecycle.FindDraft(m.kbVersions); d != nil {
		draft = statusPendingStyle.Render("v" + d.VersionNumber)
	}
	verBox := boxStyle.Width(35).Render(
		titleStyle.Render("Versions") + "\n" +
			fmt.Sprintf("Total:   %d\n", len(m.kbVersions)) +
			fmt.Sprintf("Primary: %s\n", primary) +
			fmt.Sprintf("Draft:   %s", draft),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, docBox, "  ", verBox))
	b.WriteString("\n\n")

	menu := []string{"Documents", "KB Versions"}
	for i, label := range menu {
		b.WriteString(m.renderRow(i, label))
	}
	return b.String()
}

func (m Model) renderDocuments() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Documents"))
	b.WriteString("\n\n")

	items := m.visibleSummaries()
	if len(items) == 0 {
		if m.pending == 0 {
			b.WriteString(empty("No documents"))
		}
		return b.String()
	}

	start, end := m.listWindow(len(items))
	for i := start; i < end; i++ {
		s := items[i]
		var line string
		switch {
		case s.Err != nil:
			line = fmt.Sprintf("%s %s  %s", statusErrorStyle.Render("!"), s.Document.Name,
				statusErrorStyle.Render(truncate(s.ErrText(), 40)))
		default:
			latest := "-"
			icon := statusMutedStyle.Render("○")
			if s.Latest != nil {
				latest = "v" + s.Latest.VersionNumber
				icon = ProcessingIcon(*s.Latest)
			}
			line = fmt.Sprintf("%s %-30s %-8s %s", icon, truncate(s.Document.Name, 30), latest,
				statusMutedStyle.Render(fmt.Sprintf("%d versions, %d archived", s.Total, s.Archived)))
			if s.Pending > 0 {
				line += " " + statusPendingStyle.Render(fmt.Sprintf("%d processing", s.Pending))
			}
		}
		b.WriteString(m.renderRow(i, line))
	}
	return b.String()
}

func (m Model) renderDocumentVersions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.nav.Document.Name))
	b.WriteString("\n\n")

	items := m.visibleDocVersions()
	if len(items) == 0 {
		if m.pending == 0 {
			b.WriteString(empty("No versions"))
		}
		return b.String()
	}

	start, end := m.listWindow(len(items))
	for i := start; i < end; i++ {
		v := items[i]
		line := fmt.Sprintf("%s v%-8s %-12s %s", ProcessingIcon(v), v.VersionNumber,
			string(v.Processing()), statusMutedStyle.Render(truncate(v.Source(), 40)))
		if v.IsArchived {
			line = disabledItemStyle.Render(line + " archived")
		}
		b.WriteString(m.renderRow(i, line))
	}

	if dv := m.nav.DocumentVersion; dv != nil {
		b.WriteString("\n")
		b.WriteString(m.renderDocumentVersionDetail(*dv))
	}
	return b.String()
}

func (m Model) renderDocumentVersionDetail(v api.DocumentVersion) string {
	var lines []string
	add := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, detailLabelStyle.Render(label)+detailValueStyle.Render(value))
	}
	add("Version", "v"+v.VersionNumber)
	add("Name", v.VersionName)
	add("Processing", string(v.Processing()))
	add("Source", v.Source())
	add("Change", v.ChangeDescription)
	add("Created", formatTime(v.CreatedAt))
	if v.IsArchived {
		add("Archived", formatTime(v.ArchivedAt))
		add("Reason", v.ArchiveReason)
	}
	return boxStyle.Width(70).Render(strings.Join(lines, "\n"))
}

func (m Model) renderKBVersions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("KB Versions"))
	b.WriteString("\n\n")

	items := m.visibleKBVersions()
	if len(items) == 0 {
		if m.pending == 0 {
			b.WriteString(empty("No versions (n: 새 draft)"))
		}
		return b.String()
	}

	start, end := m.listWindow(len(items))
	for i := start; i < end; i++ {
		v := items[i]
		line := fmt.Sprintf("%s v%-8s %-10s %-10s %3d docs  %s",
			VersionStatusIcon(v), v.VersionNumber,
			statusStyle(v.Status).Render(fmt.Sprintf("%-10s", v.Status)),
			accessStyle(v.AccessLevel).Render(fmt.Sprintf("%-10s", v.AccessLevel)),
			len(v.DocumentVersionIDs), statusMutedStyle.Render(truncate(v.VersionName, 30)))
		b.WriteString(m.renderRow(i, line))
	}
	return b.String()
}

func (m Model) renderKBVersionDetail() string {
	var b strings.Builder
	v := *m.nav.KBVersion

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s v%s", VersionStatusIcon(v), v.VersionNumber)))
	b.WriteString("\n\n")

	lines := []string{
		detailLabelStyle.Render("Status") + statusStyle(v.Status).Render(string(v.Status)),
		detailLabelStyle.Render("Access") + accessStyle(v.AccessLevel).Render(string(v.AccessLevel)),
		detailLabelStyle.Render("Primary") + detailValueStyle.Render(fmt.Sprintf("%v", v.IsPrimary)),
	}
	if v.VersionName != "" {
		lines = append(lines, detailLabelStyle.Render("Name")+detailValueStyle.Render(v.VersionName))
	}
	if v.ReleaseNotes != "" {
		lines = append(lines, detailLabelStyle.Render("Notes")+detailValueStyle.Render(truncate(v.ReleaseNotes, 56)))
	}
	lines = append(lines, detailLabelStyle.Render("Created")+detailValueStyle.Render(formatTime(v.CreatedAt)))
	if !v.PublishedAt.IsZero() {
		lines = append(lines, detailLabelStyle.Render("Published")+detailValueStyle.Render(formatTime(v.PublishedAt)))
	}
	b.WriteString(boxStyle.Width(70).Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Documents (%d)", len(v.DocumentVersionIDs))))
	b.WriteString("\n")
	if len(m.versionDocs) == 0 && m.pending == 0 {
		b.WriteString(empty("No documents bound"))
		b.WriteString("\n")
	}
	for _, d := range m.versionDocs {
		if d.Err != nil || d.Version == nil {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", statusErrorStyle.Render("!"), d.VersionID,
				statusErrorStyle.Render(errText(d.Err))))
			continue
		}
		name := d.Version.DocumentID
		if d.Document != nil {
			name = d.Document.Name
		}
		latest := ""
		if d.IsLatest != nil && !*d.IsLatest {
			latest = statusPendingStyle.Render(" (newer available)")
		}
		b.WriteString(fmt.Sprintf("  %s %-30s v%s%s\n", ProcessingIcon(*d.Version), truncate(name, 30),
			d.Version.VersionNumber, latest))
	}

	b.WriteString("\n")
	b.WriteString(renderActions(lifecycle.Actions(v)))
	return b.String()
}

func renderActions(set lifecycle.ActionSet) string {
	order := []struct {
		key    string
		action lifecycle.Action
	}{
		{"e", lifecycle.ActionEdit},
		{"p", lifecycle.ActionPublish},
		{"s", lifecycle.ActionSetPrimary},
		{"a", lifecycle.ActionArchive},
	}
	var lines []string
	for _, o := range order {
		st := set[o.action]
		if st.Enabled {
			lines = append(lines, "  "+helpKeyStyle.Render(o.key)+" "+string(o.action))
			continue
		}
		lines = append(lines, disabledItemStyle.Render(fmt.Sprintf("%s %s: %s", o.key, o.action, st.Reason)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderDraft() string {
	var b strings.Builder
	e := m.draft
	if e == nil {
		b.WriteString(empty("Loading draft..."))
		return b.String()
	}

	title := "New Draft"
	if e.editing() {
		title = "Edit Draft"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	number := "v" + e.number()
	switch {
	case e.bump == "":
		number += statusMutedStyle.Render(" (기존 번호 유지, b로 변경)")
	case e.candidates.First:
		number += statusMutedStyle.Render(" (first release)")
	default:
		number += statusMutedStyle.Render(fmt.Sprintf(" (%s, b로 변경)", e.bump))
	}
	header := []string{
		detailLabelStyle.Render("Version") + detailValueStyle.Render(number),
		detailLabelStyle.Render("Access") + accessStyle(e.access).Render(string(e.access)) + statusMutedStyle.Render(" (l)"),
		detailLabelStyle.Render("Name") + e.name.View(),
		detailLabelStyle.Render("Notes") + e.notes.View(),
	}
	b.WriteString(boxStyle.Width(80).Render(strings.Join(header, "\n")))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Documents (%d bound)", e.binding.Len())))
	b.WriteString("\n")
	if len(e.rows) == 0 {
		b.WriteString(empty("No documents"))
		b.WriteString("\n")
	}
	for i, row := range e.rows {
		mark := "[ ]"
		ver := statusMutedStyle.Render("-")
		if sel, ok := e.binding.Selected(row.Document.ID); ok {
			mark = statusActiveStyle.Render("[x]")
			ver = "v" + sel.VersionNumber
			if sel.IsArchived {
				ver = statusPendingStyle.Render(ver + " archived")
			}
		}
		if row.Err != nil {
			ver = statusErrorStyle.Render("load failed")
		}
		line := fmt.Sprintf("%s %-30s %s", mark, truncate(row.Document.Name, 30), ver)
		if i == e.cursor && e.focus == focusDocuments {
			b.WriteString(selectedItemStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString(normalItemStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderConfirm() string {
	c := m.confirm
	return confirmStyle.Render(fmt.Sprintf("%s v%s ? (y/n)", c.action, c.version.VersionNumber))
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrorStyle.Render("  "+m.status) + "\n"
	}
	return statusActiveStyle.Render("  "+m.status) + "\n"
}

func (m Model) renderFooter() string {
	var keys []string
	switch m.nav.Screen {
	case navigation.ScreenProjects:
		keys = []string{"enter", "open", "/", "search"}
	case navigation.ScreenKnowledgeBases:
		keys = []string{"enter", "open", "n", "new", "/", "search"}
	case navigation.ScreenCreateKB:
		keys = []string{"enter", "create", "esc", "cancel"}
	case navigation.ScreenKBDetail:
		keys = []string{"enter", "open", "n", "new draft"}
	case navigation.ScreenDocuments:
		keys = []string{"enter", "versions", "/", "search"}
	case navigation.ScreenDocumentVersions:
		keys = []string{"enter", "detail", "/", "search"}
	case navigation.ScreenKBVersions:
		keys = []string{"enter", "detail", "n", "new", "e", "edit", "p", "publish", "s", "primary", "a", "archive", "/", "search"}
	case navigation.ScreenKBVersionDetail:
		keys = []string{"e", "edit", "p", "publish", "s", "primary", "a", "archive"}
	case navigation.ScreenCreateKBVersion:
		keys = []string{"space", "bind", "[ ]", "version", "b", "bump", "l", "access", "tab", "fields", "w", "save"}
	}
	if m.nav.Screen != navigation.ScreenProjects {
		keys = append(keys, "esc", "back")
	}
	keys = append(keys, "r", "refresh", "q", "quit")

	var parts []string
	for i := 0; i+1 < len(keys); i += 2 {
		parts = append(parts, helpKeyStyle.Render(keys[i])+" "+keys[i+1])
	}
	return helpStyle.Render("  " + strings.Join(parts, "  "))
}

func formatTime(t api.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
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

func errText(err error) string {
	if err == nil {
		return "not found"
	}
	return err.Error()
}
