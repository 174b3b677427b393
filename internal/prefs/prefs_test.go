package prefs

import (
	"path/filepath"
	"testing"

	"github.com/n0roo/kb-console/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestGetSet(t *testing.T) {
	svc := NewService(setupTestDB(t))

	if _, ok, err := svc.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}

	if err := svc.Set("theme", "dark"); err != nil {
		t.Fatalf("Set 실패: %v", err)
	}
	if err := svc.Set("theme", "light"); err != nil {
		t.Fatalf("Set 덮어쓰기 실패: %v", err)
	}

	v, ok, err := svc.Get("theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("Get(theme) = %q, %v, %v", v, ok, err)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	svc := NewService(setupTestDB(t))

	empty, err := svc.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection 실패: %v", err)
	}
	if empty != (Selection{}) {
		t.Errorf("initial selection = %+v, want empty", empty)
	}

	want := Selection{ProjectID: "p1", KnowledgeBaseID: "kb1"}
	if err := svc.SaveSelection(want); err != nil {
		t.Fatalf("SaveSelection 실패: %v", err)
	}
	got, err := svc.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection 실패: %v", err)
	}
	if got != want {
		t.Errorf("selection = %+v, want %+v", got, want)
	}

	// 다른 프로젝트 선택 시 KB는 초기화
	if err := svc.SaveSelection(Selection{ProjectID: "p2"}); err != nil {
		t.Fatalf("SaveSelection 실패: %v", err)
	}
	got, _ = svc.LoadSelection()
	if got.ProjectID != "p2" || got.KnowledgeBaseID != "" {
		t.Errorf("selection = %+v, want p2 without kb", got)
	}

	if err := svc.SaveSelection(Selection{}); err != nil {
		t.Fatalf("SaveSelection 실패: %v", err)
	}
	got, _ = svc.LoadSelection()
	if got != (Selection{}) {
		t.Errorf("cleared selection = %+v", got)
	}
}
