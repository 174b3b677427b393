package lifecycle

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/n0roo/kb-console/internal/api"
)

func docVersion(id, docID, number string, created time.Time) api.DocumentVersion {
	return api.DocumentVersion{
		ID:            id,
		DocumentID:    docID,
		VersionNumber: number,
		CreatedAt:     api.Timestamp{Time: created},
	}
}

func TestBinding_ReplacesSameDocument(t *testing.T) {
	now := time.Now()
	b := NewBinding()
	if err := b.Bind(docVersion("v1", "doc-a", "v1", now)); err != nil {
		t.Fatalf("Bind 실패: %v", err)
	}
	if err := b.Bind(docVersion("v2", "doc-a", "v2", now)); err != nil {
		t.Fatalf("Bind 실패: %v", err)
	}

	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	if got := b.IDs(); !reflect.DeepEqual(got, []string{"v2"}) {
		t.Errorf("IDs = %v, want [v2]", got)
	}
}

func TestBinding_Unbind(t *testing.T) {
	now := time.Now()
	b := NewBinding()
	b.Bind(docVersion("v1", "doc-a", "v1", now))
	b.Bind(docVersion("w1", "doc-b", "v1", now))

	b.Unbind("doc-a")

	if b.Has("doc-a") {
		t.Error("doc-a should be unbound")
	}
	if got := b.IDs(); !reflect.DeepEqual(got, []string{"w1"}) {
		t.Errorf("IDs = %v, want [w1]", got)
	}
}

func TestBinding_IDsSortedByDocument(t *testing.T) {
	now := time.Now()
	b := NewBinding()
	b.Bind(docVersion("z", "doc-c", "v1", now))
	b.Bind(docVersion("y", "doc-a", "v1", now))
	b.Bind(docVersion("x", "doc-b", "v1", now))

	if got := b.IDs(); !reflect.DeepEqual(got, []string{"y", "x", "z"}) {
		t.Errorf("IDs = %v, want [y x z]", got)
	}
}

func TestBinding_RejectsMissingDocument(t *testing.T) {
	b := NewBinding()
	err := b.Bind(api.DocumentVersion{ID: "orphan"})
	if !errors.Is(err, ErrUnboundDocument) {
		t.Errorf("err = %v, want ErrUnboundDocument", err)
	}
}

func TestBindLatest(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	versions := []api.DocumentVersion{
		docVersion("v1", "doc-a", "v1", base),
		docVersion("v3", "doc-a", "v3", base.Add(time.Hour)),
		docVersion("v2", "doc-a", "v2", base.Add(time.Hour)),
	}

	b := NewBinding()
	got, ok, err := b.BindLatest(versions)
	if err != nil || !ok {
		t.Fatalf("BindLatest = %v, %v", ok, err)
	}
	// created_at 동률이면 숫자 버전이 큰 쪽
	if got.ID != "v3" {
		t.Errorf("latest = %s, want v3", got.ID)
	}
	if sel, _ := b.Selected("doc-a"); sel.ID != "v3" {
		t.Errorf("Selected = %s, want v3", sel.ID)
	}
}

func TestBindLatest_SkipsArchived(t *testing.T) {
	base := time.Now()
	old := docVersion("v1", "doc-a", "v1", base)
	archived := docVersion("v2", "doc-a", "v2", base.Add(time.Hour))
	archived.IsArchived = true

	b := NewBinding()
	got, ok, _ := b.BindLatest([]api.DocumentVersion{old, archived})
	if !ok || got.ID != "v1" {
		t.Errorf("latest = %s, want v1", got.ID)
	}

	// 모두 archived면 archived 중 최신
	only := NewBinding()
	got, ok, _ = only.BindLatest([]api.DocumentVersion{archived})
	if !ok || got.ID != "v2" {
		t.Errorf("latest = %s, want v2", got.ID)
	}
	if len(only.Archived()) != 1 {
		t.Errorf("Archived = %d, want 1", len(only.Archived()))
	}
}

func TestBindLatest_Empty(t *testing.T) {
	b := NewBinding()
	_, ok, err := b.BindLatest(nil)
	if ok || err != nil {
		t.Errorf("BindLatest(nil) = %v, %v", ok, err)
	}
}

func TestBindingFromIDs(t *testing.T) {
	now := time.Now()
	known := []api.DocumentVersion{
		docVersion("a1", "doc-a", "v1", now),
		docVersion("a2", "doc-a", "v2", now),
		docVersion("b1", "doc-b", "v1", now),
	}

	b, missing := BindingFromIDs([]string{"a1", "b1", "a2", "gone"}, known)
	if !reflect.DeepEqual(missing, []string{"gone"}) {
		t.Errorf("missing = %v, want [gone]", missing)
	}
	if got := b.IDs(); !reflect.DeepEqual(got, []string{"a2", "b1"}) {
		t.Errorf("IDs = %v, want [a2 b1]", got)
	}
}

func TestBinding_Clone(t *testing.T) {
	b := NewBinding()
	b.Bind(docVersion("a1", "doc-a", "v1", time.Now()))
	c := b.Clone()
	c.Unbind("doc-a")
	if !b.Has("doc-a") {
		t.Error("Clone should not share state")
	}
}
