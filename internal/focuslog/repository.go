package focuslog

import (
	"database/sql"
	"fmt"
	"time"

	"ainotebook/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(s *Session) error {
	result, err := r.db.Exec(
		"INSERT INTO focus_sessions (note_id, started_at, stopped_at, focused, completed) VALUES (?, ?, ?, ?, ?)",
		s.NoteID,
		store.FormatTime(s.StartedAt),
		store.FormatTime(s.StoppedAt),
		int64(s.Focused),
		boolInt(s.Completed),
	)
	if err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// Recent returns the latest sessions, newest first.
func (r *Repository) Recent(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(
		"SELECT id, note_id, started_at, stopped_at, focused, completed FROM focus_sessions ORDER BY stopped_at DESC, id DESC LIMIT ?",
		limit,
	)
}

func (r *Repository) ByNote(noteID string) ([]Session, error) {
	return r.query(
		"SELECT id, note_id, started_at, stopped_at, focused, completed FROM focus_sessions WHERE note_id = ? ORDER BY stopped_at DESC, id DESC",
		noteID,
	)
}

// TotalFocused sums the focused time of sessions stopped at or after since.
func (r *Repository) TotalFocused(since time.Time) (time.Duration, error) {
	var total int64
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(focused), 0) FROM focus_sessions WHERE stopped_at >= ?",
		store.FormatTime(since),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum focus sessions: %w", err)
	}
	return time.Duration(total), nil
}

func (r *Repository) query(q string, args ...any) ([]Session, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt, stoppedAt string
		var focused int64
		var completed int
		if err := rows.Scan(&s.ID, &s.NoteID, &startedAt, &stoppedAt, &focused, &completed); err != nil {
			return nil, fmt.Errorf("scan focus session: %w", err)
		}
		if s.StartedAt, err = store.ParseTime(startedAt); err != nil {
			return nil, err
		}
		if s.StoppedAt, err = store.ParseTime(stoppedAt); err != nil {
			return nil, err
		}
		s.Focused = time.Duration(focused)
		s.Completed = completed == 1
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
