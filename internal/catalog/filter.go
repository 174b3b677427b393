package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

var semverLike = regexp.MustCompile(`\d+\.\d+\.\d+`)

// constraintQuery parses a search query as a version range when it looks
// like one: a leading range operator or a full x.y.z number.
func constraintQuery(q string) (*semver.Constraints, bool) {
	if q == "" {
		return nil, false
	}
	if !strings.ContainsAny(q[:1], "~^><=") && !semverLike.MatchString(q) {
		return nil, false
	}
	c, err := semver.NewConstraint(q)
	if err != nil {
		return nil, false
	}
	return c, true
}

// FilterKBVersions keeps versions matching query. A version-range query
// ("^1.2", ">=1.0.0", "1.2.3") matches version numbers; anything else is
// a case-insensitive substring of number, name, status or release notes.
func FilterKBVersions(versions []api.KnowledgeBaseVersion, query string) []api.KnowledgeBaseVersion {
	q := strings.TrimSpace(query)
	if q == "" {
		return versions
	}

	if c, ok := constraintQuery(q); ok {
		var out []api.KnowledgeBaseVersion
		for _, v := range versions {
			sv, err := semver.NewVersion(v.VersionNumber)
			if err == nil && c.Check(sv) {
				out = append(out, v)
			}
		}
		return out
	}

	q = strings.ToLower(q)
	var out []api.KnowledgeBaseVersion
	for _, v := range versions {
		if containsAny(q, v.VersionNumber, v.VersionName, string(v.Status), v.ReleaseNotes) {
			out = append(out, v)
		}
	}
	return out
}

// FilterDocumentVersions keeps versions whose number, name, change
// description or source contains query
func FilterDocumentVersions(versions []api.DocumentVersion, query string) []api.DocumentVersion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return versions
	}
	var out []api.DocumentVersion
	for _, v := range versions {
		if containsAny(q, v.VersionNumber, v.VersionName, v.ChangeDescription, v.Source()) {
			out = append(out, v)
		}
	}
	return out
}

// FilterDocuments keeps summaries whose document name or description contains query
func FilterDocuments(summaries []DocumentSummary, query string) []DocumentSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return summaries
	}
	var out []DocumentSummary
	for _, s := range summaries {
		if containsAny(q, s.Document.Name, s.Document.Description) {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SortKBVersions orders versions newest version number first; numbers that
// do not parse go last, newest created first.
func SortKBVersions(versions []api.KnowledgeBaseVersion) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		va, vb := lifecycle.Valid(a.VersionNumber), lifecycle.Valid(b.VersionNumber)
		if va != vb {
			return va
		}
		if va {
			if c := lifecycle.Compare(a.VersionNumber, b.VersionNumber); c != 0 {
				return c > 0
			}
		}
		return a.CreatedAt.After(b.CreatedAt.Time)
	})
}

// SortDocumentVersions orders versions newest first, as the "latest" rule does
func SortDocumentVersions(versions []api.DocumentVersion) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return lifecycle.DocumentVersionNumber(a.VersionNumber) > lifecycle.DocumentVersionNumber(b.VersionNumber)
	})
}
