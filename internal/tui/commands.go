package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

// Load results carry the navigation generation they were issued under.
// Update drops any whose generation is no longer current.

type projectsMsg struct {
	gen      uint64
	projects []api.Project
	err      error
}

type kbsMsg struct {
	gen uint64
	kbs []api.KnowledgeBase
	err error
}

type summariesMsg struct {
	gen       uint64
	summaries []catalog.DocumentSummary
	err       error
}

type docVersionsMsg struct {
	gen      uint64
	docID    string
	versions []api.DocumentVersion
	err      error
}

type kbVersionsMsg struct {
	gen      uint64
	versions []api.KnowledgeBaseVersion
	err      error
}

type versionDocsMsg struct {
	gen   uint64
	items []catalog.VersionDocument
}

type draftMsg struct {
	gen        uint64
	summaries  []catalog.DocumentSummary
	candidates lifecycle.Candidates
	existing   *api.KnowledgeBaseVersion
	err        error
}

type kbCreatedMsg struct {
	gen uint64
	kb  *api.KnowledgeBase
	err error
}

type draftSavedMsg struct {
	gen    uint64
	result *lifecycle.DraftResult
	err    error
}

type transitionMsg struct {
	gen     uint64
	action  lifecycle.Action
	version api.KnowledgeBaseVersion
	err     error
}

// polledMsg comes from a poll task outside the Update loop. It is matched
// by ids, not by generation.
type polledMsg struct {
	kbID     string
	docID    string
	versions []api.DocumentVersion
}

func (m Model) loadProjects() tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		projects, err := client.ListProjects(ctx)
		return projectsMsg{gen: gen, projects: projects, err: err}
	}
}

func (m Model) loadKBs(projectID string) tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		kbs, err := client.ListKnowledgeBases(ctx, projectID)
		return kbsMsg{gen: gen, kbs: kbs, err: err}
	}
}

func (m Model) loadSummaries(kbID string) tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		summaries, err := catalog.LoadDocumentSummaries(ctx, client, kbID, catalog.Options{})
		return summariesMsg{gen: gen, summaries: summaries, err: err}
	}
}

func (m Model) loadDocVersions(docID string) tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		versions, err := client.ListDocumentVersions(ctx, docID)
		if err == nil {
			catalog.SortDocumentVersions(versions)
		}
		return docVersionsMsg{gen: gen, docID: docID, versions: versions, err: err}
	}
}

func (m Model) loadKBVersions(kbID string) tea.Cmd {
	ctx, mgr, gen := m.ctx, m.mgr, m.gen
	return func() tea.Msg {
		versions, err := mgr.Versions(ctx, kbID)
		if err == nil {
			catalog.SortKBVersions(versions)
		}
		return kbVersionsMsg{gen: gen, versions: versions, err: err}
	}
}

func (m Model) loadVersionDocs(v api.KnowledgeBaseVersion) tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		return versionDocsMsg{gen: gen, items: catalog.LoadVersionDocuments(ctx, client, v, catalog.Options{})}
	}
}

func (m Model) loadDraft(kbID string, existing *api.KnowledgeBaseVersion) tea.Cmd {
	ctx, client, mgr, gen := m.ctx, m.client, m.mgr, m.gen
	return func() tea.Msg {
		summaries, err := catalog.LoadDocumentSummaries(ctx, client, kbID, catalog.Options{})
		if err != nil {
			return draftMsg{gen: gen, err: err}
		}
		candidates, err := mgr.PlanNext(ctx, kbID)
		if err != nil {
			return draftMsg{gen: gen, err: err}
		}
		return draftMsg{gen: gen, summaries: summaries, candidates: candidates, existing: existing}
	}
}

func (m Model) createKB(projectID, name string) tea.Cmd {
	ctx, client, gen := m.ctx, m.client, m.gen
	return func() tea.Msg {
		kb, err := client.CreateKnowledgeBase(ctx, projectID, api.CreateKnowledgeBaseRequest{Name: name})
		return kbCreatedMsg{gen: gen, kb: kb, err: err}
	}
}

func (m Model) saveDraft(e *draftEditor) tea.Cmd {
	ctx, mgr, gen := m.ctx, m.mgr, m.gen
	kbID, versionID := e.kbID, e.versionID
	fields, binding := e.fields(), e.binding.Clone()
	return func() tea.Msg {
		var (
			res *lifecycle.DraftResult
			err error
		)
		if versionID != "" {
			res, err = mgr.UpdateDraft(ctx, kbID, versionID, fields, binding)
		} else {
			res, err = mgr.CreateDraft(ctx, kbID, fields, binding)
		}
		return draftSavedMsg{gen: gen, result: res, err: err}
	}
}

func (m Model) transition(action lifecycle.Action, v api.KnowledgeBaseVersion) tea.Cmd {
	ctx, mgr, gen := m.ctx, m.mgr, m.gen
	return func() tea.Msg {
		var err error
		switch action {
		case lifecycle.ActionPublish:
			err = mgr.Publish(ctx, v)
		case lifecycle.ActionSetPrimary:
			err = mgr.SetPrimary(ctx, v)
		case lifecycle.ActionArchive:
			err = mgr.Archive(ctx, v)
		}
		return transitionMsg{gen: gen, action: action, version: v, err: err}
	}
}

// watch polls a document while any of its versions is in flight
func (m Model) watch(kbID, docID string) {
	if m.poller == nil || m.poller.Watching(docID) {
		return
	}
	client, bridge := m.client, m.bridge
	m.poller.Watch(m.ctx, docID, m.interval, func(ctx context.Context) (bool, error) {
		versions, err := client.ListDocumentVersions(ctx, docID)
		if err != nil {
			return false, err
		}
		bridge.deliver(polledMsg{kbID: kbID, docID: docID, versions: versions})
		return !catalog.HasPending(versions), nil
	})
}
