package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/db"
	"github.com/n0roo/kb-console/internal/navigation"
	"github.com/n0roo/kb-console/internal/prefs"
)

// fakeClient serves a small fixed hierarchy from memory
type fakeClient struct {
	mu         sync.Mutex
	projects   []api.Project
	kbs        map[string][]api.KnowledgeBase
	docs       map[string][]api.Document
	versions   map[string][]api.DocumentVersion
	kbVersions map[string][]api.KnowledgeBaseVersion
	calls      map[string]int
	lastUpdate api.KBVersionDraft
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		projects: []api.Project{{ID: "p-1", Name: "alpha"}, {ID: "p-2", Name: "beta"}},
		kbs: map[string][]api.KnowledgeBase{
			"p-1": {{ID: "kb-1", Name: "handbook", ProjectID: "p-1"}},
		},
		docs: map[string][]api.Document{
			"kb-1": {{ID: "d-1", Name: "guide", KnowledgeBaseID: "kb-1"}},
		},
		versions: map[string][]api.DocumentVersion{
			"d-1": {
				{ID: "dv-1", DocumentID: "d-1", VersionNumber: "1", ProcessingStatus: api.ProcessingCompleted},
				{ID: "dv-2", DocumentID: "d-1", VersionNumber: "2", ProcessingStatus: api.ProcessingCompleted},
			},
		},
		kbVersions: map[string][]api.KnowledgeBaseVersion{
			"kb-1": {
				{ID: "v-1", KnowledgeBaseID: "kb-1", VersionNumber: "1.0.0", Status: api.StatusPublished, IsPrimary: true, AccessLevel: api.AccessPrivate},
				{ID: "v-2", KnowledgeBaseID: "kb-1", VersionNumber: "1.0.1", Status: api.StatusDraft, AccessLevel: api.AccessPrivate},
			},
		},
		calls: make(map[string]int),
	}
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]api.Project, error) {
	f.hit("projects")
	return f.projects, nil
}

func (f *fakeClient) ListKnowledgeBases(ctx context.Context, projectID string) ([]api.KnowledgeBase, error) {
	f.hit("kbs")
	return f.kbs[projectID], nil
}

func (f *fakeClient) CreateKnowledgeBase(ctx context.Context, projectID string, req api.CreateKnowledgeBaseRequest) (*api.KnowledgeBase, error) {
	f.hit("create-kb")
	f.mu.Lock()
	defer f.mu.Unlock()
	kb := api.KnowledgeBase{ID: fmt.Sprintf("kb-%d", len(f.kbs[projectID])+10), Name: req.Name, ProjectID: projectID}
	f.kbs[projectID] = append(f.kbs[projectID], kb)
	return &kb, nil
}

func (f *fakeClient) ListDocumentsByKB(ctx context.Context, kbID string) ([]api.Document, error) {
	f.hit("docs")
	return f.docs[kbID], nil
}

func (f *fakeClient) GetDocument(ctx context.Context, docID string) (*api.Document, error) {
	for _, docs := range f.docs {
		for _, d := range docs {
			if d.ID == docID {
				d := d
				return &d, nil
			}
		}
	}
	return nil, fmt.Errorf("document %s not found", docID)
}

func (f *fakeClient) ListDocumentVersions(ctx context.Context, docID string) ([]api.DocumentVersion, error) {
	f.hit("doc-versions")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.DocumentVersion(nil), f.versions[docID]...), nil
}

func (f *fakeClient) GetDocumentVersion(ctx context.Context, versionID string) (*api.DocumentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vs := range f.versions {
		for _, v := range vs {
			if v.ID == versionID {
				v := v
				return &v, nil
			}
		}
	}
	return nil, fmt.Errorf("version %s not found", versionID)
}

func (f *fakeClient) ListKnowledgeBaseVersions(ctx context.Context, kbID string) ([]api.KnowledgeBaseVersion, error) {
	f.hit("kb-versions")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.KnowledgeBaseVersion(nil), f.kbVersions[kbID]...), nil
}

func (f *fakeClient) CreateKnowledgeBaseVersion(ctx context.Context, kbID string, draft api.KBVersionDraft) (*api.KnowledgeBaseVersion, error) {
	f.hit("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	v := api.KnowledgeBaseVersion{
		ID:                 fmt.Sprintf("v-%d", len(f.kbVersions[kbID])+1),
		KnowledgeBaseID:    kbID,
		VersionNumber:      draft.VersionNumber,
		Status:             api.StatusDraft,
		AccessLevel:        draft.AccessLevel,
		DocumentVersionIDs: draft.DocumentVersionIDs,
	}
	f.kbVersions[kbID] = append(f.kbVersions[kbID], v)
	return &v, nil
}

func (f *fakeClient) UpdateKnowledgeBaseVersion(ctx context.Context, kbID, versionID string, draft api.KBVersionDraft) (*api.KnowledgeBaseVersion, error) {
	f.hit("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = draft
	for i, v := range f.kbVersions[kbID] {
		if v.ID == versionID {
			f.kbVersions[kbID][i].VersionNumber = draft.VersionNumber
			f.kbVersions[kbID][i].DocumentVersionIDs = draft.DocumentVersionIDs
			out := f.kbVersions[kbID][i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("version %s not found", versionID)
}

func (f *fakeClient) setStatus(kbID, versionID string, status api.VersionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.kbVersions[kbID] {
		if v.ID == versionID {
			f.kbVersions[kbID][i].Status = status
			return nil
		}
	}
	return fmt.Errorf("version %s not found", versionID)
}

func (f *fakeClient) PublishKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	f.hit("publish")
	return f.setStatus(kbID, versionID, api.StatusPublished)
}

func (f *fakeClient) ArchiveKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	f.hit("archive")
	return f.setStatus(kbID, versionID, api.StatusArchived)
}

func (f *fakeClient) SetPrimaryKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	f.hit("set-primary")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.kbVersions[kbID] {
		f.kbVersions[kbID][i].IsPrimary = f.kbVersions[kbID][i].ID == versionID
	}
	return nil
}

// drain runs cmd and feeds the console's own messages back into the model.
// Timers from components (spinner, cursor blink) are skipped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("메시지 처리가 끝나지 않음")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case projectsMsg, kbsMsg, summariesMsg, docVersionsMsg, kbVersionsMsg, versionDocsMsg,
			draftMsg, kbCreatedMsg, draftSavedMsg, transitionMsg, polledMsg:
			next, out := m.Update(msg)
			m = next.(Model)
			queue = append(queue, out)
		}
	}
	return m
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	m = next.(Model)
	// 입력 중인 글자는 커서 깜박임 타이머만 돌려준다
	if msg.Type == tea.KeyRunes && m.typing() {
		return m
	}
	return drain(t, m, cmd)
}

func newTestModel(t *testing.T, client *fakeClient, opts ...func(*Options)) Model {
	t.Helper()
	o := Options{Client: client}
	for _, fn := range opts {
		fn(&o)
	}
	m := NewModel(context.Background(), o)
	return drain(t, m, m.loadProjects())
}

// openKBVersions walks from the project list down to the KB version list
func openKBVersions(t *testing.T, client *fakeClient) Model {
	t.Helper()
	m := newTestModel(t, client)
	m = press(t, m, "enter") // alpha
	m = press(t, m, "enter") // handbook
	m = press(t, m, "down")
	m = press(t, m, "enter") // KB Versions
	if m.nav.Screen != navigation.ScreenKBVersions {
		t.Fatalf("화면 = %s, want kb_versions", m.nav.Screen)
	}
	return m
}

func cursorTo(t *testing.T, m Model, id string) Model {
	t.Helper()
	for i, v := range m.visibleKBVersions() {
		if v.ID == id {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("버전 %s 없음", id)
	return m
}

func TestSelectCascade(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)

	if len(m.projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(m.projects))
	}

	m = press(t, m, "enter")
	if m.nav.Screen != navigation.ScreenKnowledgeBases || m.nav.Project.ID != "p-1" {
		t.Fatalf("프로젝트 선택 실패: %+v", m.nav)
	}
	if len(m.kbs) != 1 {
		t.Fatalf("kbs = %d, want 1", len(m.kbs))
	}

	m = press(t, m, "enter")
	if m.nav.Screen != navigation.ScreenKBDetail || m.nav.KnowledgeBase.ID != "kb-1" {
		t.Fatalf("KB 선택 실패: %+v", m.nav)
	}
	if len(m.summaries) != 1 || len(m.kbVersions) != 2 {
		t.Errorf("summaries = %d, kbVersions = %d", len(m.summaries), len(m.kbVersions))
	}
	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}

	m = press(t, m, "esc")
	m = press(t, m, "esc")
	if m.nav.Screen != navigation.ScreenProjects || m.nav.Project != nil {
		t.Errorf("뒤로 가기 실패: %+v", m.nav)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)

	stale := m.loadKBs("p-1")
	m = press(t, m, "down")
	m = press(t, m, "enter") // beta, 새 세대

	m = drain(t, m, stale)
	if len(m.kbs) != 0 {
		t.Errorf("이전 세대 결과가 반영됨: %+v", m.kbs)
	}
	if m.nav.Project.ID != "p-2" {
		t.Errorf("project = %s, want p-2", m.nav.Project.ID)
	}
}

func TestSearchFiltersList(t *testing.T) {
	m := newTestModel(t, newFakeClient())

	m = press(t, m, "/")
	if !m.searching {
		t.Fatal("검색 모드 진입 실패")
	}
	for _, r := range "bet" {
		m = press(t, m, string(r))
	}
	m = press(t, m, "enter")

	items := m.visibleProjects()
	if len(items) != 1 || items[0].ID != "p-2" {
		t.Fatalf("필터 결과 = %+v", items)
	}

	m = press(t, m, "esc")
	if m.query != "" || m.nav.Screen != navigation.ScreenProjects {
		t.Errorf("esc는 필터만 해제해야 함: query=%q screen=%s", m.query, m.nav.Screen)
	}
}

func TestNewDraftRefusedWhileDraftExists(t *testing.T) {
	client := newFakeClient()
	m := openKBVersions(t, client)

	m = press(t, m, "n")
	if m.nav.Screen != navigation.ScreenKBVersions {
		t.Errorf("화면 = %s, draft 화면으로 이동하면 안 됨", m.nav.Screen)
	}
	if !m.statusErr || !strings.Contains(m.status, "1.0.1") {
		t.Errorf("status = %q", m.status)
	}
	if client.count("create") != 0 {
		t.Errorf("create 호출 = %d", client.count("create"))
	}
}

func TestArchivePrimaryDisabled(t *testing.T) {
	client := newFakeClient()
	m := openKBVersions(t, client)
	m = cursorTo(t, m, "v-1")

	m = press(t, m, "a")
	if m.confirm != nil {
		t.Fatal("primary archive 확인 창이 열리면 안 됨")
	}
	if !m.statusErr {
		t.Errorf("status = %q, 오류여야 함", m.status)
	}
	if client.count("archive") != 0 {
		t.Errorf("archive 호출 = %d", client.count("archive"))
	}
}

func TestPublishWithConfirmation(t *testing.T) {
	client := newFakeClient()
	m := openKBVersions(t, client)
	m = cursorTo(t, m, "v-2")

	m = press(t, m, "p")
	if m.confirm == nil || m.confirm.version.ID != "v-2" {
		t.Fatalf("확인 창 없음: %+v", m.confirm)
	}
	if client.count("publish") != 0 {
		t.Fatal("확인 전에 publish 호출됨")
	}

	m = press(t, m, "y")
	if client.count("publish") != 1 {
		t.Fatalf("publish 호출 = %d, want 1", client.count("publish"))
	}
	for _, v := range m.kbVersions {
		if v.ID == "v-2" && v.Status != api.StatusPublished {
			t.Errorf("v-2 status = %s, 목록이 갱신되지 않음", v.Status)
		}
	}
	if m.statusErr {
		t.Errorf("status = %q", m.status)
	}
}

func TestConfirmationCancelled(t *testing.T) {
	client := newFakeClient()
	m := openKBVersions(t, client)
	m = cursorTo(t, m, "v-2")

	m = press(t, m, "p")
	m = press(t, m, "n")
	if m.confirm != nil || client.count("publish") != 0 {
		t.Errorf("취소 후 confirm=%v publish=%d", m.confirm, client.count("publish"))
	}
}

func TestEditDraftSavesBinding(t *testing.T) {
	client := newFakeClient()
	m := openKBVersions(t, client)
	m = cursorTo(t, m, "v-2")

	m = press(t, m, "e")
	if m.nav.Screen != navigation.ScreenCreateKBVersion || m.draft == nil {
		t.Fatalf("draft 편집 화면 진입 실패: %s", m.nav.Screen)
	}
	if !m.draft.editing() {
		t.Fatal("기존 draft 편집이어야 함")
	}

	m = press(t, m, " ")
	if sel, ok := m.draft.binding.Selected("d-1"); !ok || sel.ID != "dv-2" {
		t.Fatalf("최신 버전 바인딩 실패: %+v %v", sel, ok)
	}

	m = press(t, m, "w")
	if client.count("update") != 1 {
		t.Fatalf("update 호출 = %d, want 1", client.count("update"))
	}
	if m.nav.Screen != navigation.ScreenKBVersions {
		t.Errorf("저장 후 화면 = %s", m.nav.Screen)
	}
	for _, v := range client.kbVersions["kb-1"] {
		if v.ID == "v-2" && (len(v.DocumentVersionIDs) != 1 || v.DocumentVersionIDs[0] != "dv-2") {
			t.Errorf("저장된 바인딩 = %v", v.DocumentVersionIDs)
		}
	}
}

func TestEditDraftKeepsVersionNumber(t *testing.T) {
	client := newFakeClient()
	client.kbVersions["kb-1"][1].VersionNumber = "2.0.0"
	m := openKBVersions(t, client)
	m = cursorTo(t, m, "v-2")

	m = press(t, m, "e")
	if m.draft == nil || m.draft.number() != "2.0.0" {
		t.Fatalf("편집 화면 번호 = %v", m.draft)
	}

	m = press(t, m, "w")
	if client.count("update") != 1 {
		t.Fatalf("update 호출 = %d, want 1", client.count("update"))
	}
	if client.lastUpdate.VersionNumber != "2.0.0" || client.lastUpdate.VersionBump != "" {
		t.Errorf("저장된 번호 = %q bump = %q, 그대로여야 함", client.lastUpdate.VersionNumber, client.lastUpdate.VersionBump)
	}

	// b로 bump를 고르면 마지막 published 기준으로 다시 계산
	m = cursorTo(t, m, "v-2")
	m = press(t, m, "e")
	m = press(t, m, "b")
	if m.draft.number() != "1.0.1" {
		t.Errorf("patch 번호 = %s, want 1.0.1", m.draft.number())
	}
	m = press(t, m, "w")
	if client.lastUpdate.VersionNumber != "1.0.1" || client.lastUpdate.VersionBump != "patch" {
		t.Errorf("저장된 번호 = %q bump = %q", client.lastUpdate.VersionNumber, client.lastUpdate.VersionBump)
	}
}

func TestPolledVersionsUpdateSummaries(t *testing.T) {
	client := newFakeClient()
	client.versions["d-1"] = append(client.versions["d-1"],
		api.DocumentVersion{ID: "dv-3", DocumentID: "d-1", VersionNumber: "3", ProcessingStatus: api.ProcessingProcessing})

	m := newTestModel(t, client)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	if len(m.summaries) != 1 || m.summaries[0].Pending != 1 {
		t.Fatalf("summaries = %+v", m.summaries)
	}

	done := append([]api.DocumentVersion(nil), client.versions["d-1"]...)
	done[2].ProcessingStatus = api.ProcessingCompleted
	next, _ := m.Update(polledMsg{kbID: "kb-1", docID: "d-1", versions: done})
	m = next.(Model)

	if m.summaries[0].Pending != 0 || m.summaries[0].Latest.ID != "dv-3" {
		t.Errorf("폴링 결과 미반영: %+v", m.summaries[0])
	}

	// 다른 KB의 결과는 무시
	other := []api.DocumentVersion{{ID: "x", DocumentID: "d-1", ProcessingStatus: api.ProcessingPending}}
	next, _ = m.Update(polledMsg{kbID: "kb-other", docID: "d-1", versions: other})
	m = next.(Model)
	if m.summaries[0].Total != 3 {
		t.Errorf("다른 KB 결과가 반영됨: %+v", m.summaries[0])
	}
}

func TestCreateKnowledgeBase(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)
	m = press(t, m, "enter")

	m = press(t, m, "n")
	if m.nav.Screen != navigation.ScreenCreateKB {
		t.Fatalf("화면 = %s", m.nav.Screen)
	}
	for _, r := range "notes" {
		m = press(t, m, string(r))
	}
	m = press(t, m, "enter")

	if client.count("create-kb") != 1 {
		t.Fatalf("create-kb 호출 = %d", client.count("create-kb"))
	}
	if m.nav.Screen != navigation.ScreenKnowledgeBases || len(m.kbs) != 2 {
		t.Errorf("생성 후 screen=%s kbs=%d", m.nav.Screen, len(m.kbs))
	}
}

func TestSelectionRestored(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	svc := prefs.NewService(database)

	withPrefs := func(o *Options) { o.Prefs = svc }

	m := newTestModel(t, newFakeClient(), withPrefs)
	m = press(t, m, "enter")
	m = press(t, m, "enter")

	sel, err := svc.LoadSelection()
	if err != nil {
		t.Fatalf("선택 조회 실패: %v", err)
	}
	if sel.ProjectID != "p-1" || sel.KnowledgeBaseID != "kb-1" {
		t.Fatalf("저장된 선택 = %+v", sel)
	}

	restored := newTestModel(t, newFakeClient(), withPrefs)
	if restored.nav.Screen != navigation.ScreenKBDetail || restored.nav.KnowledgeBase.ID != "kb-1" {
		t.Errorf("선택 복원 실패: %+v", restored.nav)
	}
}
