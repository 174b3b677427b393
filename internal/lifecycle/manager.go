package lifecycle

import (
	"context"
	"fmt"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/logger"
)

// Gateway is the part of the API client the lifecycle needs
type Gateway interface {
	ListKnowledgeBaseVersions(ctx context.Context, kbID string) ([]api.KnowledgeBaseVersion, error)
	CreateKnowledgeBaseVersion(ctx context.Context, kbID string, draft api.KBVersionDraft) (*api.KnowledgeBaseVersion, error)
	UpdateKnowledgeBaseVersion(ctx context.Context, kbID, versionID string, draft api.KBVersionDraft) (*api.KnowledgeBaseVersion, error)
	PublishKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error
	ArchiveKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error
	SetPrimaryKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error
}

// Recorder receives successful transitions (local history)
type Recorder interface {
	RecordTransition(kbID, versionID string, action Action, detail string) error
}

// DraftFields are the user-editable fields of a draft.
// An empty Bump means patch on create and keeps the current number on update.
type DraftFields struct {
	Name         string
	ReleaseNotes string
	AccessLevel  api.AccessLevel
	Bump         Bump
}

// DraftResult is a saved draft plus non-blocking warnings
type DraftResult struct {
	Version  *api.KnowledgeBaseVersion
	Warnings []string
}

// Manager enforces the knowledge-base version lifecycle:
// draft -> published -> archived, one draft and one primary per KB.
type Manager struct {
	gw  Gateway
	rec Recorder
	log *logger.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithRecorder records successful transitions
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.rec = r }
}

// WithLogger sets the manager's logger
func WithLogger(l *logger.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a lifecycle manager over gw
func NewManager(gw Gateway, opts ...ManagerOption) *Manager {
	m := &Manager{gw: gw, log: logger.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Versions lists the versions of a knowledge base
func (m *Manager) Versions(ctx context.Context, kbID string) ([]api.KnowledgeBaseVersion, error) {
	versions, err := m.gw.ListKnowledgeBaseVersions(ctx, kbID)
	if err != nil {
		return nil, fmt.Errorf("버전 목록 조회 실패: %w", err)
	}
	return versions, nil
}

// FindDraft returns the knowledge base's draft, or nil
func FindDraft(versions []api.KnowledgeBaseVersion) *api.KnowledgeBaseVersion {
	for i := range versions {
		if versions[i].Status == api.StatusDraft {
			v := versions[i]
			return &v
		}
	}
	return nil
}

// FindPrimary returns the knowledge base's primary version, or nil
func FindPrimary(versions []api.KnowledgeBaseVersion) *api.KnowledgeBaseVersion {
	for i := range versions {
		if versions[i].IsPrimary {
			v := versions[i]
			return &v
		}
	}
	return nil
}

// PlanNext computes the next-version candidates for a knowledge base
func (m *Manager) PlanNext(ctx context.Context, kbID string) (Candidates, error) {
	versions, err := m.Versions(ctx, kbID)
	if err != nil {
		return Candidates{}, err
	}
	return NextVersions(LastPublished(versions))
}

// CreateDraft creates a new draft. It is refused while another draft exists.
func (m *Manager) CreateDraft(ctx context.Context, kbID string, fields DraftFields, binding *Binding) (*DraftResult, error) {
	versions, err := m.Versions(ctx, kbID)
	if err != nil {
		return nil, err
	}
	if existing := FindDraft(versions); existing != nil {
		return nil, &PreconditionError{Op: "create draft", KBID: kbID, VersionID: existing.ID, Err: ErrDraftExists}
	}

	body, err := draftBody(versions, fields, binding, nil)
	if err != nil {
		return nil, &PreconditionError{Op: "create draft", KBID: kbID, Err: err}
	}

	created, err := m.gw.CreateKnowledgeBaseVersion(ctx, kbID, body)
	if err != nil {
		return nil, fmt.Errorf("draft 생성 실패: %w", err)
	}

	m.log.Info("draft created", "kb_id", kbID, "version_id", created.ID, "version", created.VersionNumber, "documents", len(body.DocumentVersionIDs))
	m.record(kbID, created.ID, ActionCreate, created.VersionNumber)

	return &DraftResult{Version: created, Warnings: bindingWarnings(binding)}, nil
}

// UpdateDraft replaces the fields and binding of a draft
func (m *Manager) UpdateDraft(ctx context.Context, kbID, versionID string, fields DraftFields, binding *Binding) (*DraftResult, error) {
	versions, err := m.Versions(ctx, kbID)
	if err != nil {
		return nil, err
	}

	current := findVersion(versions, versionID)
	if current == nil {
		return nil, fmt.Errorf("버전을 찾을 수 없습니다: %s", versionID)
	}
	if err := checkEdit(*current); err != nil {
		return nil, &PreconditionError{Op: "update draft", KBID: kbID, VersionID: versionID, Err: err}
	}

	body, err := draftBody(versions, fields, binding, current)
	if err != nil {
		return nil, &PreconditionError{Op: "update draft", KBID: kbID, VersionID: versionID, Err: err}
	}

	updated, err := m.gw.UpdateKnowledgeBaseVersion(ctx, kbID, versionID, body)
	if err != nil {
		return nil, fmt.Errorf("draft 수정 실패: %w", err)
	}

	m.log.Info("draft updated", "kb_id", kbID, "version_id", versionID, "version", body.VersionNumber, "documents", len(body.DocumentVersionIDs))
	m.record(kbID, versionID, ActionEdit, updated.VersionNumber)

	return &DraftResult{Version: updated, Warnings: bindingWarnings(binding)}, nil
}

// Publish transitions a draft to published. It does not promote to primary.
func (m *Manager) Publish(ctx context.Context, v api.KnowledgeBaseVersion) error {
	if err := checkPublish(v); err != nil {
		return &PreconditionError{Op: "publish", KBID: v.KnowledgeBaseID, VersionID: v.ID, Err: err}
	}
	if err := m.gw.PublishKnowledgeBaseVersion(ctx, v.KnowledgeBaseID, v.ID); err != nil {
		return fmt.Errorf("publish 실패: %w", err)
	}

	m.log.Info("version published", "kb_id", v.KnowledgeBaseID, "version_id", v.ID, "version", v.VersionNumber)
	m.record(v.KnowledgeBaseID, v.ID, ActionPublish, v.VersionNumber)
	return nil
}

// SetPrimary promotes a published version to primary. The previous
// primary is demoted by the same request; the result is re-read to
// confirm exactly one primary remains.
func (m *Manager) SetPrimary(ctx context.Context, v api.KnowledgeBaseVersion) error {
	if v.IsPrimary && v.Status == api.StatusPublished {
		return nil
	}
	if err := checkSetPrimary(v); err != nil {
		return &PreconditionError{Op: "set primary", KBID: v.KnowledgeBaseID, VersionID: v.ID, Err: err}
	}
	if err := m.gw.SetPrimaryKnowledgeBaseVersion(ctx, v.KnowledgeBaseID, v.ID); err != nil {
		return fmt.Errorf("primary 지정 실패: %w", err)
	}

	versions, err := m.Versions(ctx, v.KnowledgeBaseID)
	if err != nil {
		return err
	}
	if err := VerifyPrimary(versions, v.ID); err != nil {
		m.log.Error("primary check failed", "kb_id", v.KnowledgeBaseID, "version_id", v.ID, "error", err)
		return err
	}

	m.log.Info("primary version set", "kb_id", v.KnowledgeBaseID, "version_id", v.ID, "version", v.VersionNumber)
	m.record(v.KnowledgeBaseID, v.ID, ActionSetPrimary, v.VersionNumber)
	return nil
}

// Archive transitions a published, non-primary version to archived.
// A refused archive never reaches the network.
func (m *Manager) Archive(ctx context.Context, v api.KnowledgeBaseVersion) error {
	if err := checkArchive(v); err != nil {
		return &PreconditionError{Op: "archive", KBID: v.KnowledgeBaseID, VersionID: v.ID, Err: err}
	}
	if err := m.gw.ArchiveKnowledgeBaseVersion(ctx, v.KnowledgeBaseID, v.ID); err != nil {
		return fmt.Errorf("archive 실패: %w", err)
	}

	m.log.Info("version archived", "kb_id", v.KnowledgeBaseID, "version_id", v.ID, "version", v.VersionNumber)
	m.record(v.KnowledgeBaseID, v.ID, ActionArchive, v.VersionNumber)
	return nil
}

// VerifyPrimary checks that exactly one version is primary and that it is wantID
func VerifyPrimary(versions []api.KnowledgeBaseVersion, wantID string) error {
	var primaries []string
	for _, v := range versions {
		if v.IsPrimary {
			primaries = append(primaries, v.ID)
		}
	}
	if len(primaries) != 1 || primaries[0] != wantID {
		return fmt.Errorf("%w: want %s, primaries %v", ErrPrimaryInvariant, wantID, primaries)
	}
	return nil
}

func (m *Manager) record(kbID, versionID string, action Action, detail string) {
	if m.rec == nil {
		return
	}
	if err := m.rec.RecordTransition(kbID, versionID, action, detail); err != nil {
		m.log.Warn("history record failed", "action", action, "error", err)
	}
}

// draftBody builds the request body. With current set and no bump chosen
// the draft keeps its version number.
func draftBody(versions []api.KnowledgeBaseVersion, fields DraftFields, binding *Binding, current *api.KnowledgeBaseVersion) (api.KBVersionDraft, error) {
	access := fields.AccessLevel
	if access == "" {
		access = api.AccessPrivate
	}
	if !access.Valid() {
		return api.KBVersionDraft{}, fmt.Errorf("알 수 없는 access level %q", access)
	}

	ids := []string{}
	if binding != nil {
		ids = binding.IDs()
	}
	body := api.KBVersionDraft{
		VersionName:        fields.Name,
		ReleaseNotes:       fields.ReleaseNotes,
		AccessLevel:        access,
		DocumentVersionIDs: ids,
	}

	bump := fields.Bump
	if bump == "" {
		if current != nil {
			body.VersionNumber = current.VersionNumber
			return body, nil
		}
		bump = BumpPatch
	}

	candidates, err := NextVersions(LastPublished(versions))
	if err != nil {
		return api.KBVersionDraft{}, err
	}
	body.VersionNumber = candidates.Pick(bump)
	body.VersionBump = string(bump)
	return body, nil
}

func bindingWarnings(binding *Binding) []string {
	if binding == nil {
		return nil
	}
	var warnings []string
	for _, v := range binding.Archived() {
		warnings = append(warnings, fmt.Sprintf("document %s: version %s is archived and may be outdated", v.DocumentID, v.VersionNumber))
	}
	return warnings
}

func findVersion(versions []api.KnowledgeBaseVersion, id string) *api.KnowledgeBaseVersion {
	for i := range versions {
		if versions[i].ID == id {
			v := versions[i]
			return &v
		}
	}
	return nil
}
