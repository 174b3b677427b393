// Package navigation holds the console's selection state as one immutable
// value updated by a reducer.
package navigation

import (
	"github.com/n0roo/kb-console/internal/api"
)

// Screen identifies what the console is showing
type Screen string

const (
	ScreenProjects         Screen = "projects"
	ScreenKnowledgeBases   Screen = "kbs"
	ScreenCreateKB         Screen = "create_kb"
	ScreenKBDetail         Screen = "kb_detail"
	ScreenDocuments        Screen = "documents"
	ScreenDocumentVersions Screen = "document_versions"
	ScreenKBVersions       Screen = "kb_versions"
	ScreenKBVersionDetail  Screen = "kb_version_detail"
	ScreenCreateKBVersion  Screen = "create_kb_version"
)

// Level orders selections from the top of the hierarchy down
type Level int

const (
	LevelProject Level = iota
	LevelKnowledgeBase
	LevelDocument
	LevelDocumentVersion
	LevelKBVersion
)

// Context is the current selection. Lower levels are only set when every
// level above them is set.
type Context struct {
	Project         *api.Project
	KnowledgeBase   *api.KnowledgeBase
	Document        *api.Document
	DocumentVersion *api.DocumentVersion
	KBVersion       *api.KnowledgeBaseVersion
	Screen          Screen
}

// Root is the starting context
func Root() Context {
	return Context{Screen: ScreenProjects}
}

// ActionKind names a navigation event
type ActionKind int

const (
	SelectProject ActionKind = iota
	SelectKnowledgeBase
	SelectDocument
	SelectDocumentVersion
	SelectKBVersion
	ShowScreen
	Reset
)

// Action is an input to Reduce. Only the field matching Kind is read.
type Action struct {
	Kind            ActionKind
	Project         *api.Project
	KnowledgeBase   *api.KnowledgeBase
	Document        *api.Document
	DocumentVersion *api.DocumentVersion
	KBVersion       *api.KnowledgeBaseVersion
	Screen          Screen
}

// Reduce applies a to c and returns the new context. Selecting an entity
// clears every selection below it. A selection whose parent is missing is
// ignored.
func Reduce(c Context, a Action) Context {
	switch a.Kind {
	case Reset:
		return Root()

	case SelectProject:
		if a.Project == nil {
			return Root()
		}
		p := *a.Project
		return Context{Project: &p, Screen: ScreenKnowledgeBases}

	case SelectKnowledgeBase:
		if c.Project == nil || a.KnowledgeBase == nil {
			return c
		}
		kb := *a.KnowledgeBase
		return Context{Project: c.Project, KnowledgeBase: &kb, Screen: ScreenKBDetail}

	case SelectDocument:
		if c.KnowledgeBase == nil || a.Document == nil {
			return c
		}
		d := *a.Document
		return Context{
			Project:       c.Project,
			KnowledgeBase: c.KnowledgeBase,
			Document:      &d,
			Screen:        ScreenDocumentVersions,
		}

	case SelectDocumentVersion:
		if c.Document == nil || a.DocumentVersion == nil {
			return c
		}
		dv := *a.DocumentVersion
		next := c
		next.DocumentVersion = &dv
		next.KBVersion = nil
		return next

	case SelectKBVersion:
		if c.KnowledgeBase == nil || a.KBVersion == nil {
			return c
		}
		v := *a.KBVersion
		return Context{
			Project:       c.Project,
			KnowledgeBase: c.KnowledgeBase,
			KBVersion:     &v,
			Screen:        ScreenKBVersionDetail,
		}

	case ShowScreen:
		return show(c, a.Screen)
	}
	return c
}

// show switches screens, dropping selections the target screen sits above
func show(c Context, s Screen) Context {
	switch s {
	case ScreenProjects:
		return Root()
	case ScreenKnowledgeBases, ScreenCreateKB:
		if c.Project == nil {
			return c
		}
		return Context{Project: c.Project, Screen: s}
	case ScreenKBDetail, ScreenDocuments, ScreenKBVersions, ScreenCreateKBVersion:
		if c.KnowledgeBase == nil {
			return c
		}
		return Context{Project: c.Project, KnowledgeBase: c.KnowledgeBase, Screen: s}
	case ScreenDocumentVersions:
		if c.Document == nil {
			return c
		}
		return Context{Project: c.Project, KnowledgeBase: c.KnowledgeBase, Document: c.Document, Screen: s}
	case ScreenKBVersionDetail:
		if c.KBVersion == nil {
			return c
		}
		next := c
		next.Screen = s
		return next
	}
	return c
}

// Back returns the context one step up from the current screen
func Back(c Context) Context {
	switch c.Screen {
	case ScreenKnowledgeBases:
		return Root()
	case ScreenCreateKB, ScreenKBDetail:
		return show(c, ScreenKnowledgeBases)
	case ScreenDocuments, ScreenKBVersions:
		return show(c, ScreenKBDetail)
	case ScreenDocumentVersions:
		return show(c, ScreenDocuments)
	case ScreenKBVersionDetail, ScreenCreateKBVersion:
		return show(c, ScreenKBVersions)
	}
	return c
}

// Depth returns the deepest selected level, or -1 when nothing is selected
func (c Context) Depth() Level {
	switch {
	case c.KBVersion != nil:
		return LevelKBVersion
	case c.DocumentVersion != nil:
		return LevelDocumentVersion
	case c.Document != nil:
		return LevelDocument
	case c.KnowledgeBase != nil:
		return LevelKnowledgeBase
	case c.Project != nil:
		return LevelProject
	}
	return -1
}
