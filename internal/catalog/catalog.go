// Package catalog aggregates documents and their versions for display.
// Each per-document request runs concurrently and fails on its own.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

// DefaultConcurrency bounds the per-document fan-out
const DefaultConcurrency = 8

// Gateway is the read side of the API client the catalog needs
type Gateway interface {
	ListDocumentsByKB(ctx context.Context, kbID string) ([]api.Document, error)
	GetDocument(ctx context.Context, docID string) (*api.Document, error)
	ListDocumentVersions(ctx context.Context, docID string) ([]api.DocumentVersion, error)
	GetDocumentVersion(ctx context.Context, versionID string) (*api.DocumentVersion, error)
}

// DocumentSummary is a document with derived version statistics.
// Err is set when its versions could not be loaded; the counts are then zero.
type DocumentSummary struct {
	Document     api.Document          `json:"document"`
	Versions     []api.DocumentVersion `json:"versions,omitempty"`
	Latest       *api.DocumentVersion  `json:"latest,omitempty"`
	LatestNumber float64               `json:"latest_version_number"`
	Total        int                   `json:"version_count"`
	Active       int                   `json:"active_version_count"`
	Archived     int                   `json:"archived_version_count"`
	Pending      int                   `json:"pending_count"`
	Err          error                 `json:"-"`
}

// ErrText returns the load error as text
func (s DocumentSummary) ErrText() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Summarize derives the statistics of one document from its versions
func Summarize(doc api.Document, versions []api.DocumentVersion) DocumentSummary {
	s := DocumentSummary{Document: doc, Versions: versions, Total: len(versions)}
	for _, v := range versions {
		if v.IsArchived {
			s.Archived++
			continue
		}
		s.Active++
		if v.InFlight() {
			s.Pending++
		}
		if n := lifecycle.DocumentVersionNumber(v.VersionNumber); n > s.LatestNumber {
			s.LatestNumber = n
		}
	}
	if latest, ok := lifecycle.LatestDocumentVersion(versions, false); ok {
		s.Latest = &latest
	}

	s.Document.VersionCount = s.Total
	s.Document.ActiveVersionCount = s.Active
	s.Document.ArchivedVersionCount = s.Archived
	return s
}

// Options tunes the fan-out
type Options struct {
	Concurrency int
}

func (o Options) limit() int {
	if o.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return o.Concurrency
}

// LoadDocumentSummaries lists a knowledge base's documents and loads every
// document's versions concurrently. Only the document list itself can fail
// the call; per-document failures are reported on the summary.
func LoadDocumentSummaries(ctx context.Context, gw Gateway, kbID string, opts Options) ([]DocumentSummary, error) {
	docs, err := gw.ListDocumentsByKB(ctx, kbID)
	if err != nil {
		return nil, fmt.Errorf("문서 목록 조회 실패: %w", err)
	}

	out := make([]DocumentSummary, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			versions, err := gw.ListDocumentVersions(gctx, doc.ID)
			if err != nil {
				out[i] = DocumentSummary{Document: doc, Err: err}
				return nil
			}
			out[i] = Summarize(doc, versions)
			return nil
		})
	}
	// branch errors are kept per item, Wait only waits
	_ = g.Wait()

	return out, nil
}

// Failed returns the summaries whose versions could not be loaded
func Failed(summaries []DocumentSummary) []DocumentSummary {
	var out []DocumentSummary
	for _, s := range summaries {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// HasPending reports whether any version is still being processed
func HasPending(versions []api.DocumentVersion) bool {
	for _, v := range versions {
		if v.InFlight() {
			return true
		}
	}
	return false
}

// VersionDocument is one document version bound to a knowledge-base version
type VersionDocument struct {
	VersionID string               `json:"document_version_id"`
	Version   *api.DocumentVersion `json:"document_version,omitempty"`
	Document  *api.Document        `json:"document,omitempty"`
	// IsLatest is nil when the document's other versions could not be loaded
	IsLatest *bool `json:"is_latest,omitempty"`
	Err      error `json:"-"`
}

// LoadVersionDocuments resolves the document versions a knowledge-base
// version binds, in the order of its id list.
func LoadVersionDocuments(ctx context.Context, gw Gateway, v api.KnowledgeBaseVersion, opts Options) []VersionDocument {
	out := make([]VersionDocument, len(v.DocumentVersionIDs))

	var (
		mu     sync.Mutex
		byDoc  = make(map[string][]api.DocumentVersion)
		loaded = make(map[string]error)
	)
	// 같은 문서의 버전 목록은 한 번만 조회
	versionsOf := func(ctx context.Context, docID string) ([]api.DocumentVersion, error) {
		mu.Lock()
		if err, ok := loaded[docID]; ok {
			vs := byDoc[docID]
			mu.Unlock()
			return vs, err
		}
		mu.Unlock()

		vs, err := gw.ListDocumentVersions(ctx, docID)

		mu.Lock()
		byDoc[docID], loaded[docID] = vs, err
		mu.Unlock()
		return vs, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())

	for i, id := range v.DocumentVersionIDs {
		i, id := i, id
		g.Go(func() error {
			item := VersionDocument{VersionID: id}
			defer func() { out[i] = item }()

			dv, err := gw.GetDocumentVersion(gctx, id)
			if err != nil {
				item.Err = fmt.Errorf("문서 버전 조회 실패: %w", err)
				return nil
			}
			item.Version = dv

			doc, err := gw.GetDocument(gctx, dv.DocumentID)
			if err != nil {
				item.Err = fmt.Errorf("문서 조회 실패: %w", err)
				return nil
			}
			item.Document = doc

			if versions, err := versionsOf(gctx, dv.DocumentID); err == nil {
				latest, ok := lifecycle.LatestDocumentVersion(versions, true)
				isLatest := ok && latest.ID == dv.ID
				item.IsLatest = &isLatest
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
