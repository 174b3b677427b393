// Package prefs stores small local preferences such as the last selection.
package prefs

import (
	"database/sql"
	"fmt"

	"github.com/n0roo/kb-console/internal/db"
)

const (
	keyProject       = "selection.project_id"
	keyKnowledgeBase = "selection.kb_id"
)

// Selection is the last project and knowledge base the user opened
type Selection struct {
	ProjectID       string `json:"project_id,omitempty"`
	KnowledgeBaseID string `json:"kb_id,omitempty"`
}

// Service reads and writes preferences
type Service struct {
	db db.Database
}

// NewService creates a preferences service
func NewService(database db.Database) *Service {
	return &Service{db: database}
}

// Get returns the value for key and whether it was set
func (s *Service) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("설정 조회 실패: %w", err)
	}
	return value.String, true, nil
}

// Set stores value under key
func (s *Service) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("설정 저장 실패: %w", err)
	}
	return nil
}

// Delete removes key
func (s *Service) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("설정 삭제 실패: %w", err)
	}
	return nil
}

// LoadSelection returns the saved selection; missing keys are empty
func (s *Service) LoadSelection() (Selection, error) {
	var sel Selection
	var err error
	if sel.ProjectID, _, err = s.Get(keyProject); err != nil {
		return Selection{}, err
	}
	if sel.KnowledgeBaseID, _, err = s.Get(keyKnowledgeBase); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// SaveSelection stores the selection. An empty project clears both keys;
// an empty knowledge base clears only that key.
func (s *Service) SaveSelection(sel Selection) error {
	if sel.ProjectID == "" {
		if err := s.Delete(keyProject); err != nil {
			return err
		}
		return s.Delete(keyKnowledgeBase)
	}
	if err := s.Set(keyProject, sel.ProjectID); err != nil {
		return err
	}
	if sel.KnowledgeBaseID == "" {
		return s.Delete(keyKnowledgeBase)
	}
	return s.Set(keyKnowledgeBase, sel.KnowledgeBaseID)
}
