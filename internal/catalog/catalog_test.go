package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/n0roo/kb-console/internal/api"
)

type fakeGateway struct {
	docs     []api.Document
	versions map[string][]api.DocumentVersion
	failDocs map[string]bool
	listErr  error
}

func (f *fakeGateway) ListDocumentsByKB(ctx context.Context, kbID string) ([]api.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeGateway) GetDocument(ctx context.Context, docID string) (*api.Document, error) {
	for _, d := range f.docs {
		if d.ID == docID {
			d := d
			return &d, nil
		}
	}
	return nil, &api.Error{Status: 404}
}

func (f *fakeGateway) ListDocumentVersions(ctx context.Context, docID string) ([]api.DocumentVersion, error) {
	if f.failDocs[docID] {
		return nil, &api.Error{Status: 500, Message: "boom"}
	}
	return f.versions[docID], nil
}

func (f *fakeGateway) GetDocumentVersion(ctx context.Context, versionID string) (*api.DocumentVersion, error) {
	for _, vs := range f.versions {
		for _, v := range vs {
			if v.ID == versionID {
				v := v
				return &v, nil
			}
		}
	}
	return nil, &api.Error{Status: 404}
}

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func dv(id, doc, number string, hours int, archived bool, status api.ProcessingStatus) api.DocumentVersion {
	return api.DocumentVersion{
		ID:               id,
		DocumentID:       doc,
		VersionNumber:    number,
		IsArchived:       archived,
		ProcessingStatus: status,
		CreatedAt:        api.Timestamp{Time: base.Add(time.Duration(hours) * time.Hour)},
	}
}

func newFake() *fakeGateway {
	return &fakeGateway{
		docs: []api.Document{
			{ID: "d1", Name: "Guide"},
			{ID: "d2", Name: "Spec sheet"},
			{ID: "d3", Name: "Broken"},
		},
		versions: map[string][]api.DocumentVersion{
			"d1": {
				dv("d1v1", "d1", "v1", 0, false, api.ProcessingCompleted),
				dv("d1v2", "d1", "v2", 1, false, api.ProcessingCompleted),
				dv("d1v3", "d1", "v3", 2, true, api.ProcessingCompleted),
			},
			"d2": {
				dv("d2v1", "d2", "1.0", 0, false, api.ProcessingCompleted),
				dv("d2v2", "d2", "1.1", 3, false, api.ProcessingPending),
			},
		},
		failDocs: map[string]bool{"d3": true},
	}
}

func TestLoadDocumentSummaries(t *testing.T) {
	summaries, err := LoadDocumentSummaries(context.Background(), newFake(), "kb-1", Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("LoadDocumentSummaries 실패: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(summaries))
	}

	guide := summaries[0]
	if guide.Total != 3 || guide.Active != 2 || guide.Archived != 1 {
		t.Errorf("guide counts = %d/%d/%d", guide.Total, guide.Active, guide.Archived)
	}
	// archived v3 제외
	if guide.LatestNumber != 2 || guide.Latest == nil || guide.Latest.ID != "d1v2" {
		t.Errorf("guide latest = %v (%v)", guide.LatestNumber, guide.Latest)
	}
	if guide.Document.VersionCount != 3 {
		t.Errorf("document version_count = %d, want 3", guide.Document.VersionCount)
	}

	sheet := summaries[1]
	if sheet.LatestNumber != 1.1 || sheet.Pending != 1 {
		t.Errorf("sheet latest = %v pending = %d", sheet.LatestNumber, sheet.Pending)
	}
	if !HasPending(sheet.Versions) {
		t.Error("sheet should have pending versions")
	}

	broken := summaries[2]
	if broken.Err == nil || broken.ErrText() == "" {
		t.Error("broken document should carry its error")
	}
	if broken.Document.Name != "Broken" {
		t.Error("failed summary should keep the document")
	}
	if len(Failed(summaries)) != 1 {
		t.Errorf("Failed = %d, want 1", len(Failed(summaries)))
	}
}

func TestLoadDocumentSummaries_ListError(t *testing.T) {
	f := newFake()
	f.listErr = errors.New("offline")
	if _, err := LoadDocumentSummaries(context.Background(), f, "kb-1", Options{}); err == nil {
		t.Error("list failure should fail the call")
	}
}

func TestLoadVersionDocuments(t *testing.T) {
	v := api.KnowledgeBaseVersion{DocumentVersionIDs: []string{"d1v1", "d2v2", "missing"}}
	items := LoadVersionDocuments(context.Background(), newFake(), v, Options{})

	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Document == nil || items[0].Document.Name != "Guide" {
		t.Errorf("item 0 document = %v", items[0].Document)
	}
	if items[0].IsLatest == nil || *items[0].IsLatest {
		t.Error("d1v1 is not the latest version")
	}
	if items[1].IsLatest == nil || !*items[1].IsLatest {
		t.Error("d2v2 is the latest version")
	}
	if items[2].Err == nil || !api.IsNotFound(items[2].Err) {
		t.Errorf("missing item err = %v", items[2].Err)
	}
}

func TestHasPending_IgnoresArchived(t *testing.T) {
	versions := []api.DocumentVersion{
		dv("a", "d", "v1", 0, true, api.ProcessingPending),
		dv("b", "d", "v2", 0, false, api.ProcessingFailed),
	}
	if HasPending(versions) {
		t.Error("archived or failed versions are not pending")
	}
}

func kbv(number string, status api.VersionStatus, notes string) api.KnowledgeBaseVersion {
	return api.KnowledgeBaseVersion{ID: number, VersionNumber: number, Status: status, ReleaseNotes: notes}
}

func ids(versions []api.KnowledgeBaseVersion) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.ID)
	}
	return out
}

func TestFilterKBVersions(t *testing.T) {
	versions := []api.KnowledgeBaseVersion{
		kbv("1.0.0", api.StatusArchived, "initial import"),
		kbv("1.2.0", api.StatusPublished, "adds pricing"),
		kbv("1.2.5", api.StatusPublished, ""),
		kbv("2.0.0", api.StatusDraft, "new layout"),
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1.0.0", "1.2.0", "1.2.5", "2.0.0"}},
		{"^1.2", []string{"1.2.0", "1.2.5"}},
		{">=1.2.5", []string{"1.2.5", "2.0.0"}},
		{"1.2.5", []string{"1.2.5"}},
		{"draft", []string{"2.0.0"}},
		{"PRICING", []string{"1.2.0"}},
		{"1.2", []string{"1.2.0", "1.2.5"}},
		{"nothing", []string{}},
	}
	for _, tt := range tests {
		got := ids(FilterKBVersions(versions, tt.query))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FilterKBVersions(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFilterDocumentVersions(t *testing.T) {
	versions := []api.DocumentVersion{
		{ID: "a", VersionNumber: "v1", ChangeDescription: "first upload", FileName: "guide.pdf"},
		{ID: "b", VersionNumber: "v2", SourceURL: "https://example.com/guide"},
	}
	if got := FilterDocumentVersions(versions, "example.com"); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("filter by url = %v", got)
	}
	if got := FilterDocumentVersions(versions, "upload"); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("filter by description = %v", got)
	}
}

func TestSortKBVersions(t *testing.T) {
	versions := []api.KnowledgeBaseVersion{
		kbv("1.9.0", api.StatusPublished, ""),
		kbv("weird", api.StatusPublished, ""),
		kbv("1.10.0", api.StatusPublished, ""),
		kbv("0.1.0", api.StatusArchived, ""),
	}
	SortKBVersions(versions)
	want := []string{"1.10.0", "1.9.0", "0.1.0", "weird"}
	if got := ids(versions); !reflect.DeepEqual(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestSortDocumentVersions(t *testing.T) {
	versions := []api.DocumentVersion{
		dv("old", "d", "v1", 0, false, ""),
		dv("new", "d", "v2", 5, false, ""),
	}
	SortDocumentVersions(versions)
	if versions[0].ID != "new" {
		t.Errorf("first = %s, want new", versions[0].ID)
	}
}
