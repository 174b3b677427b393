package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ProcessingStatus is the processing state of a document version
type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

// Terminal reports whether no further processing transition is expected
func (s ProcessingStatus) Terminal() bool {
	return s == ProcessingCompleted || s == ProcessingFailed
}

// VersionStatus is the lifecycle state of a knowledge-base version
type VersionStatus string

const (
	StatusDraft     VersionStatus = "draft"
	StatusPublished VersionStatus = "published"
	StatusArchived  VersionStatus = "archived"
)

// AccessLevel controls who may read a published knowledge-base version
type AccessLevel string

const (
	AccessPrivate   AccessLevel = "private"
	AccessProtected AccessLevel = "protected"
	AccessPublic    AccessLevel = "public"
)

// AccessLevels lists the levels in display order
func AccessLevels() []AccessLevel {
	return []AccessLevel{AccessPrivate, AccessProtected, AccessPublic}
}

// Valid reports whether the level is one the API accepts
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessPrivate, AccessProtected, AccessPublic:
		return true
	}
	return false
}

// ParseAccessLevel parses a user supplied access level
func ParseAccessLevel(s string) (AccessLevel, error) {
	a := AccessLevel(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("알 수 없는 access level %q (private, protected, public)", s)
	}
	return a, nil
}

// Timestamp decodes the API's ISO-8601 timestamps, with or without zone.
// The zero value encodes as null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Project is a top-level container of knowledge bases
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// KnowledgeBase groups documents and owns a version history
type KnowledgeBase struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProjectID   string    `json:"project_id"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Document is a named document inside a knowledge base.
// The count fields are filled client-side and are not authoritative.
type Document struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	KnowledgeBaseID      string    `json:"knowledge_base_id"`
	CreatedAt            Timestamp `json:"created_at"`
	UpdatedAt            Timestamp `json:"updated_at"`
	VersionCount         int       `json:"version_count,omitempty"`
	ActiveVersionCount   int       `json:"active_version_count,omitempty"`
	ArchivedVersionCount int       `json:"archived_version_count,omitempty"`
}

// DocumentVersion is one uploaded or ingested revision of a document
type DocumentVersion struct {
	ID                string           `json:"id"`
	DocumentID        string           `json:"document_id"`
	VersionNumber     string           `json:"version_number"`
	VersionName       string           `json:"version_name,omitempty"`
	ChangeDescription string           `json:"change_description,omitempty"`
	Status            string           `json:"status,omitempty"`
	ProcessingStatus  ProcessingStatus `json:"processing_status,omitempty"`
	IsArchived        bool             `json:"is_archived"`
	ArchiveReason     string           `json:"archive_reason,omitempty"`
	ArchivedAt        Timestamp        `json:"archived_at"`
	CreatedBy         string           `json:"created_by,omitempty"`
	CreatedAt         Timestamp        `json:"created_at"`
	UpdatedAt         Timestamp        `json:"updated_at"`
	FileName          string           `json:"file_name,omitempty"`
	SourceURL         string           `json:"source_url,omitempty"`
	FileSize          int64            `json:"file_size,omitempty"`
}

// Processing returns the processing state, falling back to the legacy status field
func (v DocumentVersion) Processing() ProcessingStatus {
	if v.ProcessingStatus != "" {
		return v.ProcessingStatus
	}
	switch ProcessingStatus(v.Status) {
	case ProcessingPending, ProcessingProcessing, ProcessingCompleted, ProcessingFailed:
		return ProcessingStatus(v.Status)
	}
	return ProcessingCompleted
}

// InFlight reports whether the remote pipeline is still working on the version.
// Archived versions never transition again.
func (v DocumentVersion) InFlight() bool {
	if v.IsArchived {
		return false
	}
	return !v.Processing().Terminal()
}

// Source returns the file name or source URL the version was created from
func (v DocumentVersion) Source() string {
	if v.FileName != "" {
		return v.FileName
	}
	return v.SourceURL
}

// KnowledgeBaseVersion is a publishable snapshot binding document versions
type KnowledgeBaseVersion struct {
	ID                 string        `json:"id"`
	KnowledgeBaseID    string        `json:"knowledge_base_id"`
	VersionNumber      string        `json:"version_number"`
	VersionName        string        `json:"version_name,omitempty"`
	ReleaseNotes       string        `json:"release_notes,omitempty"`
	Status             VersionStatus `json:"status"`
	AccessLevel        AccessLevel   `json:"access_level"`
	IsPrimary          bool          `json:"is_primary"`
	DocumentVersionIDs []string      `json:"document_version_ids"`
	CreatedBy          string        `json:"created_by,omitempty"`
	CreatedAt          Timestamp     `json:"created_at"`
	UpdatedAt          Timestamp     `json:"updated_at"`
	PublishedBy        string        `json:"published_by,omitempty"`
	PublishedAt        Timestamp     `json:"published_at"`
	ArchivedBy         string        `json:"archived_by,omitempty"`
	ArchivedAt         Timestamp     `json:"archived_at"`
}

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateKnowledgeBaseRequest is the body of POST /projects/{id}/knowledge-bases
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateDocumentRequest is the body of POST /knowledge-bases/{id}/documents
type CreateDocumentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// URLIngestRequest is the body of the from-url ingestion endpoints
type URLIngestRequest struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// IngestResult is returned by upload and URL ingestion endpoints
type IngestResult struct {
	DocumentID string `json:"document_id,omitempty"`
	VersionID  string `json:"version_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// KBVersionDraft is the body of knowledge-base version create and update
type KBVersionDraft struct {
	VersionNumber      string      `json:"version_number,omitempty"`
	VersionBump        string      `json:"version_bump,omitempty"`
	VersionName        string      `json:"version_name"`
	ReleaseNotes       string      `json:"release_notes"`
	AccessLevel        AccessLevel `json:"access_level"`
	DocumentVersionIDs []string    `json:"document_version_ids"`
}
