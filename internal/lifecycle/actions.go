package lifecycle

import "github.com/n0roo/kb-console/internal/api"

// Action is a lifecycle operation on a knowledge-base version
type Action string

const (
	ActionCreate     Action = "create"
	ActionEdit       Action = "edit"
	ActionPublish    Action = "publish"
	ActionSetPrimary Action = "set-primary"
	ActionArchive    Action = "archive"
)

// ActionState says whether an action is available and why not
type ActionState struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// ActionSet is the availability of each action for one version
type ActionSet map[Action]ActionState

// Actions reports which transitions v currently allows
func Actions(v api.KnowledgeBaseVersion) ActionSet {
	return ActionSet{
		ActionEdit:       state(checkEdit(v)),
		ActionPublish:    state(checkPublish(v)),
		ActionSetPrimary: state(checkSetPrimary(v)),
		ActionArchive:    state(checkArchive(v)),
	}
}

// Allowed reports whether a is enabled
func (s ActionSet) Allowed(a Action) bool {
	return s[a].Enabled
}

func state(err error) ActionState {
	if err != nil {
		return ActionState{Reason: err.Error()}
	}
	return ActionState{Enabled: true}
}

func checkEdit(v api.KnowledgeBaseVersion) error {
	if v.Status != api.StatusDraft {
		return ErrNotDraft
	}
	return nil
}

func checkPublish(v api.KnowledgeBaseVersion) error {
	if v.Status != api.StatusDraft {
		return ErrNotDraft
	}
	return nil
}

func checkSetPrimary(v api.KnowledgeBaseVersion) error {
	if v.Status != api.StatusPublished {
		return ErrNotPublished
	}
	return nil
}

func checkArchive(v api.KnowledgeBaseVersion) error {
	if v.IsPrimary {
		return ErrPrimaryArchive
	}
	if v.Status != api.StatusPublished {
		return ErrNotPublished
	}
	return nil
}
