package tui

import (
	"testing"
	"time"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

func draftRows() []catalog.DocumentSummary {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) api.Timestamp { return api.Timestamp{Time: base.Add(time.Duration(h) * time.Hour)} }

	guide := api.Document{ID: "d-1", Name: "guide"}
	faq := api.Document{ID: "d-2", Name: "faq"}
	return []catalog.DocumentSummary{
		catalog.Summarize(guide, []api.DocumentVersion{
			{ID: "g-1", DocumentID: "d-1", VersionNumber: "1", CreatedAt: at(1)},
			{ID: "g-3", DocumentID: "d-1", VersionNumber: "3", CreatedAt: at(3)},
			{ID: "g-2", DocumentID: "d-1", VersionNumber: "2", CreatedAt: at(2)},
		}),
		catalog.Summarize(faq, []api.DocumentVersion{
			{ID: "f-1", DocumentID: "d-2", VersionNumber: "1", CreatedAt: at(1), IsArchived: true},
		}),
	}
}

func TestDraftToggle(t *testing.T) {
	e := newDraftEditor("kb-1", draftRows(), lifecycle.Candidates{First: true}, nil)

	if err := e.toggle(); err != nil {
		t.Fatalf("toggle 실패: %v", err)
	}
	if sel, ok := e.binding.Selected("d-1"); !ok || sel.ID != "g-3" {
		t.Errorf("selected = %+v, %v; want g-3", sel, ok)
	}

	if err := e.toggle(); err != nil {
		t.Fatalf("toggle 실패: %v", err)
	}
	if e.binding.Has("d-1") {
		t.Error("두 번째 toggle은 바인딩을 해제해야 함")
	}

	// 보관된 버전만 있는 문서도 바인딩 가능
	e.move(1)
	if err := e.toggle(); err != nil {
		t.Fatalf("toggle 실패: %v", err)
	}
	if sel, ok := e.binding.Selected("d-2"); !ok || sel.ID != "f-1" {
		t.Errorf("selected = %+v, %v; want f-1", sel, ok)
	}
	if len(e.binding.Archived()) != 1 {
		t.Errorf("archived = %d, want 1", len(e.binding.Archived()))
	}
}

func TestDraftCycle(t *testing.T) {
	e := newDraftEditor("kb-1", draftRows(), lifecycle.Candidates{First: true}, nil)

	// 바인딩 없으면 최신 버전부터
	if err := e.cycle(1); err != nil {
		t.Fatalf("cycle 실패: %v", err)
	}
	want := []string{"g-2", "g-1", "g-3"}
	for _, id := range want {
		if err := e.cycle(1); err != nil {
			t.Fatalf("cycle 실패: %v", err)
		}
		if sel, _ := e.binding.Selected("d-1"); sel.ID != id {
			t.Errorf("selected = %s, want %s", sel.ID, id)
		}
	}

	if err := e.cycle(-1); err != nil {
		t.Fatalf("cycle 실패: %v", err)
	}
	if sel, _ := e.binding.Selected("d-1"); sel.ID != "g-1" {
		t.Errorf("역방향 selected = %s, want g-1", sel.ID)
	}
	if e.binding.Len() != 1 {
		t.Errorf("문서당 하나의 버전만 바인딩되어야 함: %d", e.binding.Len())
	}
}

func TestDraftBumpAndAccess(t *testing.T) {
	c := lifecycle.Candidates{Patch: "1.2.4", Minor: "1.3.0", Major: "2.0.0"}
	e := newDraftEditor("kb-1", nil, c, nil)

	if e.number() != "1.2.4" {
		t.Errorf("기본 number = %s, want 1.2.4", e.number())
	}
	e.cycleBump()
	if e.bump != lifecycle.BumpMinor || e.number() != "1.3.0" {
		t.Errorf("bump = %s number = %s", e.bump, e.number())
	}
	e.cycleBump()
	e.cycleBump()
	if e.bump != lifecycle.BumpPatch {
		t.Errorf("bump 순환 실패: %s", e.bump)
	}

	if e.access != api.AccessPrivate {
		t.Errorf("기본 access = %s", e.access)
	}
	e.cycleAccess()
	if e.access != api.AccessProtected {
		t.Errorf("access = %s, want protected", e.access)
	}
	if f := e.fields(); f.AccessLevel != api.AccessProtected || f.Bump != lifecycle.BumpPatch {
		t.Errorf("fields = %+v", f)
	}

	// 빈 목록에서 이동, toggle은 무시
	e.move(1)
	if err := e.toggle(); err != nil || e.binding.Len() != 0 {
		t.Errorf("빈 목록 toggle: %v, %d", err, e.binding.Len())
	}
}

func TestDraftFromExistingVersion(t *testing.T) {
	existing := &api.KnowledgeBaseVersion{
		ID:                 "v-2",
		VersionNumber:      "2.0.0",
		VersionName:        "spring",
		ReleaseNotes:       "notes",
		AccessLevel:        api.AccessPublic,
		Status:             api.StatusDraft,
		DocumentVersionIDs: []string{"g-2", "gone"},
	}
	c := lifecycle.Candidates{Patch: "1.0.1", Minor: "1.1.0", Major: "2.0.0"}
	e := newDraftEditor("kb-1", draftRows(), c, existing)

	if !e.editing() {
		t.Fatal("기존 버전 편집이어야 함")
	}
	if sel, ok := e.binding.Selected("d-1"); !ok || sel.ID != "g-2" {
		t.Errorf("selected = %+v, %v", sel, ok)
	}
	if len(e.missing) != 1 || e.missing[0] != "gone" {
		t.Errorf("missing = %v", e.missing)
	}
	f := e.fields()
	if f.Name != "spring" || f.ReleaseNotes != "notes" || f.AccessLevel != api.AccessPublic {
		t.Errorf("fields = %+v", f)
	}
	if f.Bump != "" || e.number() != "2.0.0" {
		t.Errorf("bump = %q number = %s, 기존 번호를 유지해야 함", f.Bump, e.number())
	}

	// 유지 -> patch -> minor -> major -> 유지
	want := []string{"1.0.1", "1.1.0", "2.0.0", "2.0.0"}
	for i, n := range want {
		e.cycleBump()
		if e.number() != n {
			t.Errorf("step %d number = %s, want %s", i, e.number(), n)
		}
	}
	if e.bump != "" {
		t.Errorf("bump = %q, 순환 후 유지로 돌아와야 함", e.bump)
	}
}
