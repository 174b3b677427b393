package lifecycle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/n0roo/kb-console/internal/api"
	"golang.org/x/mod/semver"
)

// FirstVersion is the number every knowledge base's first release gets
const FirstVersion = "1.0.0"

// Bump selects which candidate becomes the next version number
type Bump string

const (
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// Bumps lists the strategies in display order
func Bumps() []Bump {
	return []Bump{BumpPatch, BumpMinor, BumpMajor}
}

// ParseBump parses a bump strategy; empty means patch
func ParseBump(s string) (Bump, error) {
	switch b := Bump(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BumpPatch, nil
	case BumpPatch, BumpMinor, BumpMajor:
		return b, nil
	}
	return "", fmt.Errorf("알 수 없는 bump %q (patch, minor, major)", s)
}

// Version is a parsed MAJOR.MINOR.PATCH number
type Version struct {
	Major, Minor, Patch int
	Prefixed           bool // written with a leading "v"
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prefixed {
		return "v" + s
	}
	return s
}

// ParseVersion parses "MAJOR.MINOR.PATCH", optionally prefixed with "v"
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	var v Version
	if strings.HasPrefix(raw, "v") || strings.HasPrefix(raw, "V") {
		v.Prefixed = true
		raw = raw[1:]
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// canonical converts a version number into the form x/mod/semver expects
func canonical(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return "v" + s
}

// Compare compares two version numbers numerically.
// Unparsable numbers sort before every valid one.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

// Valid reports whether s is a MAJOR.MINOR.PATCH number
func Valid(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// Candidates holds the three next-version choices
type Candidates struct {
	Patch string `json:"patch"`
	Minor string `json:"minor"`
	Major string `json:"major"`
	First bool   `json:"first_release"`
}

// Pick returns the candidate for b. A first release is always 1.0.0.
func (c Candidates) Pick(b Bump) string {
	if c.First {
		return FirstVersion
	}
	switch b {
	case BumpMajor:
		return c.Major
	case BumpMinor:
		return c.Minor
	default:
		return c.Patch
	}
}

// NextVersions computes the candidates following lastPublished.
// nil means nothing was published yet.
func NextVersions(lastPublished *string) (Candidates, error) {
	if lastPublished == nil {
		return Candidates{
			Patch: FirstVersion,
			Minor: FirstVersion,
			Major: FirstVersion,
			First: true,
		}, nil
	}

	v, err := ParseVersion(*lastPublished)
	if err != nil {
		return Candidates{}, err
	}

	patch := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Prefixed: v.Prefixed}
	minor := Version{Major: v.Major, Minor: v.Minor + 1, Prefixed: v.Prefixed}
	major := Version{Major: v.Major + 1, Prefixed: v.Prefixed}

	return Candidates{
		Patch: patch.String(),
		Minor: minor.String(),
		Major: major.String(),
	}, nil
}

// LastPublished returns the highest version number that has left draft.
// Archived versions count: their numbers were released once.
func LastPublished(versions []api.KnowledgeBaseVersion) *string {
	var best *string
	for i := range versions {
		v := versions[i]
		if v.Status == api.StatusDraft || !Valid(v.VersionNumber) {
			continue
		}
		if best == nil || Compare(v.VersionNumber, *best) > 0 {
			n := v.VersionNumber
			best = &n
		}
	}
	return best
}

var docVersionNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// DocumentVersionNumber extracts the numeric part of a document version
// number such as "v3", "3" or "1.1". Unparsable numbers yield 0.
func DocumentVersionNumber(s string) float64 {
	m := docVersionNumber.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return n
}
