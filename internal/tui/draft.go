package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

type draftFocus int

const (
	focusDocuments draftFocus = iota
	focusName
	focusNotes
)

// draftEditor is the state of the create/edit draft screen
type draftEditor struct {
	kbID       string
	versionID  string // 비어 있으면 새 draft
	rows       []catalog.DocumentSummary
	binding    *lifecycle.Binding
	candidates lifecycle.Candidates
	bump       lifecycle.Bump // 편집 중 비어 있으면 기존 번호 유지
	keep       string
	access     api.AccessLevel
	cursor     int
	focus      draftFocus
	name       textinput.Model
	notes      textinput.Model
	missing    []string
}

func newDraftEditor(kbID string, rows []catalog.DocumentSummary, candidates lifecycle.Candidates, existing *api.KnowledgeBaseVersion) *draftEditor {
	name := textinput.New()
	name.Placeholder = "version name"
	name.CharLimit = 120
	name.Width = 40

	notes := textinput.New()
	notes.Placeholder = "release notes"
	notes.CharLimit = 2000
	notes.Width = 60

	// 행마다 버전을 최신순으로 정렬해 두면 [ ] 순환이 직관적
	sorted := make([]catalog.DocumentSummary, len(rows))
	for i, r := range rows {
		vs := append([]api.DocumentVersion(nil), r.Versions...)
		catalog.SortDocumentVersions(vs)
		r.Versions = vs
		sorted[i] = r
	}

	e := &draftEditor{
		kbID:       kbID,
		rows:       sorted,
		binding:    lifecycle.NewBinding(),
		candidates: candidates,
		bump:       lifecycle.BumpPatch,
		access:     api.AccessPrivate,
		name:       name,
		notes:      notes,
	}

	if existing != nil {
		var known []api.DocumentVersion
		for _, r := range sorted {
			known = append(known, r.Versions...)
		}
		e.versionID = existing.ID
		e.bump = ""
		e.keep = existing.VersionNumber
		e.binding, e.missing = lifecycle.BindingFromIDs(existing.DocumentVersionIDs, known)
		e.name.SetValue(existing.VersionName)
		e.notes.SetValue(existing.ReleaseNotes)
		if existing.AccessLevel.Valid() {
			e.access = existing.AccessLevel
		}
	}
	return e
}

func (e *draftEditor) editing() bool {
	return e.versionID != ""
}

func (e *draftEditor) current() (catalog.DocumentSummary, bool) {
	if e.cursor < 0 || e.cursor >= len(e.rows) {
		return catalog.DocumentSummary{}, false
	}
	return e.rows[e.cursor], true
}

func (e *draftEditor) move(delta int) {
	if len(e.rows) == 0 {
		return
	}
	e.cursor = clamp(e.cursor+delta, 0, len(e.rows)-1)
}

// toggle binds the latest version of the current document, or drops it
func (e *draftEditor) toggle() error {
	row, ok := e.current()
	if !ok {
		return nil
	}
	if e.binding.Has(row.Document.ID) {
		e.binding.Unbind(row.Document.ID)
		return nil
	}
	_, _, err := e.binding.BindLatest(row.Versions)
	return err
}

// cycle moves the current document's bound version by delta, newest first
func (e *draftEditor) cycle(delta int) error {
	row, ok := e.current()
	if !ok || len(row.Versions) == 0 {
		return nil
	}
	selected, bound := e.binding.Selected(row.Document.ID)
	if !bound {
		return e.toggle()
	}

	idx := 0
	for i, v := range row.Versions {
		if v.ID == selected.ID {
			idx = i
			break
		}
	}
	n := len(row.Versions)
	idx = ((idx+delta)%n + n) % n
	return e.binding.Bind(row.Versions[idx])
}

// cycleBump steps patch -> minor -> major. Editing adds a step that keeps
// the draft's current number.
func (e *draftEditor) cycleBump() {
	bumps := lifecycle.Bumps()
	if e.editing() {
		bumps = append([]lifecycle.Bump{""}, bumps...)
	}
	for i, b := range bumps {
		if b == e.bump {
			e.bump = bumps[(i+1)%len(bumps)]
			return
		}
	}
	e.bump = bumps[0]
}

func (e *draftEditor) cycleAccess() {
	levels := api.AccessLevels()
	for i, a := range levels {
		if a == e.access {
			e.access = levels[(i+1)%len(levels)]
			return
		}
	}
	e.access = api.AccessPrivate
}

// nextFocus cycles documents -> name -> notes
func (e *draftEditor) nextFocus() {
	e.focus = (e.focus + 1) % 3
	e.name.Blur()
	e.notes.Blur()
	switch e.focus {
	case focusName:
		e.name.Focus()
	case focusNotes:
		e.notes.Focus()
	}
}

func (e *draftEditor) number() string {
	if e.bump == "" && e.editing() {
		return e.keep
	}
	return e.candidates.Pick(e.bump)
}

func (e *draftEditor) fields() lifecycle.DraftFields {
	return lifecycle.DraftFields{
		Name:         e.name.Value(),
		ReleaseNotes: e.notes.Value(),
		AccessLevel:  e.access,
		Bump:         e.bump,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
