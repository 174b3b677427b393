package lifecycle

import (
	"fmt"
	"sort"

	"github.com/n0roo/kb-console/internal/api"
)

// Binding maps each document to the single document version a
// knowledge-base version includes. Binding a second version of the same
// document replaces the first.
type Binding struct {
	byDoc map[string]api.DocumentVersion
}

// NewBinding returns an empty binding
func NewBinding() *Binding {
	return &Binding{byDoc: make(map[string]api.DocumentVersion)}
}

// Bind selects v for its document, replacing any earlier selection
func (b *Binding) Bind(v api.DocumentVersion) error {
	if v.DocumentID == "" {
		return fmt.Errorf("%w: %s", ErrUnboundDocument, v.ID)
	}
	b.byDoc[v.DocumentID] = v
	return nil
}

// Unbind drops the document entirely; it will not be part of the version
func (b *Binding) Unbind(documentID string) {
	delete(b.byDoc, documentID)
}

// Selected returns the version bound for a document
func (b *Binding) Selected(documentID string) (api.DocumentVersion, bool) {
	v, ok := b.byDoc[documentID]
	return v, ok
}

// Has reports whether the document is bound
func (b *Binding) Has(documentID string) bool {
	_, ok := b.byDoc[documentID]
	return ok
}

// Len returns the number of bound documents
func (b *Binding) Len() int {
	return len(b.byDoc)
}

// DocumentIDs returns the bound document ids, sorted
func (b *Binding) DocumentIDs() []string {
	ids := make([]string, 0, len(b.byDoc))
	for id := range b.byDoc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDs returns the bound document version ids ordered by document id
func (b *Binding) IDs() []string {
	docs := b.DocumentIDs()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, b.byDoc[d].ID)
	}
	return ids
}

// Archived returns the bound versions that are archived
func (b *Binding) Archived() []api.DocumentVersion {
	var out []api.DocumentVersion
	for _, d := range b.DocumentIDs() {
		if v := b.byDoc[d]; v.IsArchived {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns an independent copy
func (b *Binding) Clone() *Binding {
	c := NewBinding()
	for k, v := range b.byDoc {
		c.byDoc[k] = v
	}
	return c
}

// BindLatest binds the most recently created version among versions.
// Non-archived versions win over archived ones. It returns false when
// versions is empty.
func (b *Binding) BindLatest(versions []api.DocumentVersion) (api.DocumentVersion, bool, error) {
	latest, ok := LatestDocumentVersion(versions, true)
	if !ok {
		return api.DocumentVersion{}, false, nil
	}
	if err := b.Bind(latest); err != nil {
		return api.DocumentVersion{}, false, err
	}
	return latest, true, nil
}

// LatestDocumentVersion picks the newest version by created_at, breaking
// ties by numeric version number then id. Archived versions are only
// considered when fallbackArchived is set and nothing else exists.
func LatestDocumentVersion(versions []api.DocumentVersion, fallbackArchived bool) (api.DocumentVersion, bool) {
	var active, archived []api.DocumentVersion
	for _, v := range versions {
		if v.IsArchived {
			archived = append(archived, v)
		} else {
			active = append(active, v)
		}
	}

	pool := active
	if len(pool) == 0 {
		if !fallbackArchived {
			return api.DocumentVersion{}, false
		}
		pool = archived
	}
	if len(pool) == 0 {
		return api.DocumentVersion{}, false
	}

	best := pool[0]
	for _, v := range pool[1:] {
		if newer(v, best) {
			best = v
		}
	}
	return best, true
}

func newer(a, b api.DocumentVersion) bool {
	if !a.CreatedAt.Equal(b.CreatedAt.Time) {
		return a.CreatedAt.After(b.CreatedAt.Time)
	}
	na, nb := DocumentVersionNumber(a.VersionNumber), DocumentVersionNumber(b.VersionNumber)
	if na != nb {
		return na > nb
	}
	return a.ID > b.ID
}

// BindingFromIDs rebuilds a binding from stored version ids. known must
// contain the candidate document versions; ids not found are returned.
// When two ids belong to the same document the later one wins.
func BindingFromIDs(ids []string, known []api.DocumentVersion) (*Binding, []string) {
	byID := make(map[string]api.DocumentVersion, len(known))
	for _, v := range known {
		byID[v.ID] = v
	}

	b := NewBinding()
	var missing []string
	for _, id := range ids {
		v, ok := byID[id]
		if !ok || v.DocumentID == "" {
			missing = append(missing, id)
			continue
		}
		b.byDoc[v.DocumentID] = v
	}
	return b, missing
}
