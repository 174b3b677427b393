package api

import (
	"context"
	"net/http"
)

func kbVersionsPath(kbID string) string {
	return "/knowledge-bases/" + esc(kbID) + "/versions"
}

func kbVersionPath(kbID, versionID string) string {
	return kbVersionsPath(kbID) + "/" + esc(versionID)
}

// ListKnowledgeBaseVersions returns all versions of a knowledge base
func (c *Client) ListKnowledgeBaseVersions(ctx context.Context, kbID string) ([]KnowledgeBaseVersion, error) {
	return getList[KnowledgeBaseVersion](ctx, c, kbVersionsPath(kbID), "versions")
}

// GetKnowledgeBaseVersion returns a single knowledge-base version
func (c *Client) GetKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) (*KnowledgeBaseVersion, error) {
	var v KnowledgeBaseVersion
	if err := c.doJSON(ctx, http.MethodGet, kbVersionPath(kbID, versionID), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateKnowledgeBaseVersion creates a draft version
func (c *Client) CreateKnowledgeBaseVersion(ctx context.Context, kbID string, draft KBVersionDraft) (*KnowledgeBaseVersion, error) {
	if draft.DocumentVersionIDs == nil {
		draft.DocumentVersionIDs = []string{}
	}
	var v KnowledgeBaseVersion
	if err := c.doJSON(ctx, http.MethodPost, kbVersionsPath(kbID), draft, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateKnowledgeBaseVersion replaces the fields of a draft version
func (c *Client) UpdateKnowledgeBaseVersion(ctx context.Context, kbID, versionID string, draft KBVersionDraft) (*KnowledgeBaseVersion, error) {
	if draft.DocumentVersionIDs == nil {
		draft.DocumentVersionIDs = []string{}
	}
	var v KnowledgeBaseVersion
	if err := c.doJSON(ctx, http.MethodPut, kbVersionPath(kbID, versionID), draft, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// PublishKnowledgeBaseVersion transitions a draft to published
func (c *Client) PublishKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	return c.doJSON(ctx, http.MethodPut, kbVersionPath(kbID, versionID)+"/publish", nil, nil)
}

// ArchiveKnowledgeBaseVersion transitions a published version to archived
func (c *Client) ArchiveKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	return c.doJSON(ctx, http.MethodPut, kbVersionPath(kbID, versionID)+"/archive", nil, nil)
}

// SetPrimaryKnowledgeBaseVersion marks a published version as primary
func (c *Client) SetPrimaryKnowledgeBaseVersion(ctx context.Context, kbID, versionID string) error {
	return c.doJSON(ctx, http.MethodPut, kbVersionPath(kbID, versionID)+"/set-primary", nil, nil)
}
