package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/n0roo/kb-console/internal/db"
	"github.com/n0roo/kb-console/internal/lifecycle"
)

// Event is one knowledge-base version transition made from this machine
type Event struct {
	ID        string    `json:"id"`
	KBID      string    `json:"kb_id"`
	VersionID string    `json:"version_id,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	APIURL    string    `json:"api_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter represents query filters for history
type Filter struct {
	KBID      string    `json:"kb_id,omitempty"`
	VersionID string    `json:"version_id,omitempty"`
	Action    string    `json:"action,omitempty"`
	Since     time.Time `json:"since,omitempty"`
	Search    string    `json:"search,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
}

// Service handles history operations
type Service struct {
	db     db.Database
	apiURL string
	now    func() time.Time
}

// NewService creates a history service. apiURL tags every recorded event
// so histories of different servers can be told apart.
func NewService(database db.Database, apiURL string) *Service {
	return &Service{db: database, apiURL: apiURL, now: time.Now}
}

var _ lifecycle.Recorder = (*Service)(nil)

// RecordTransition stores a successful lifecycle transition
func (s *Service) RecordTransition(kbID, versionID string, action lifecycle.Action, detail string) error {
	_, err := s.Record(Event{KBID: kbID, VersionID: versionID, Action: string(action), Detail: detail})
	return err
}

// Record stores an event, filling its id, server and time
func (s *Service) Record(e Event) (*Event, error) {
	if e.KBID == "" || e.Action == "" {
		return nil, fmt.Errorf("kb_id와 action은 필수입니다")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.APIURL == "" {
		e.APIURL = s.apiURL
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO history_events (id, kb_id, version_id, action, detail, api_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.KBID, e.VersionID, e.Action, e.Detail, e.APIURL, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("이벤트 저장 실패: %w", err)
	}
	return &e, nil
}

// List returns events newest first, with the total matching count
func (s *Service) List(filter Filter) ([]Event, int, error) {
	var conditions []string
	var args []interface{}

	if filter.KBID != "" {
		conditions = append(conditions, "kb_id = ?")
		args = append(args, filter.KBID)
	}
	if filter.VersionID != "" {
		conditions = append(conditions, "version_id = ?")
		args = append(args, filter.VersionID)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Search != "" {
		conditions = append(conditions, "(detail LIKE ? OR version_id LIKE ? OR kb_id LIKE ?)")
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("카운트 조회 실패: %w", err)
	}

	query := `
		SELECT id, kb_id, COALESCE(version_id, ''), action, COALESCE(detail, ''),
			COALESCE(api_url, ''), created_at
		FROM history_events` + where + ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100 // default limit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("이벤트 조회 실패: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var created sql.NullTime
		if err := rows.Scan(&e.ID, &e.KBID, &e.VersionID, &e.Action, &e.Detail, &e.APIURL, &created); err != nil {
			return nil, 0, err
		}
		if created.Valid {
			e.CreatedAt = created.Time
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// Actions returns the distinct recorded actions
func (s *Service) Actions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT action FROM history_events ORDER BY action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// Prune deletes events older than before and returns how many were removed
func (s *Service) Prune(before time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM history_events WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("이벤트 삭제 실패: %w", err)
	}
	return res.RowsAffected()
}
