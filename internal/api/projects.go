package api

import (
	"context"
	"net/http"
)

// ListProjects returns all projects
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	return getList[Project](ctx, c, "/projects", "projects")
}

// GetProject returns a project; a 404 satisfies IsNotFound
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+esc(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := c.doJSON(ctx, http.MethodPost, "/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListKnowledgeBases returns the knowledge bases of a project
func (c *Client) ListKnowledgeBases(ctx context.Context, projectID string) ([]KnowledgeBase, error) {
	return getList[KnowledgeBase](ctx, c, "/projects/"+esc(projectID)+"/knowledge-bases", "knowledge_bases")
}

// GetKnowledgeBase returns a knowledge base
func (c *Client) GetKnowledgeBase(ctx context.Context, kbID string) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := c.doJSON(ctx, http.MethodGet, "/knowledge-bases/"+esc(kbID), nil, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// CreateKnowledgeBase creates a knowledge base inside a project
func (c *Client) CreateKnowledgeBase(ctx context.Context, projectID string, req CreateKnowledgeBaseRequest) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := c.doJSON(ctx, http.MethodPost, "/projects/"+esc(projectID)+"/knowledge-bases", req, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}
