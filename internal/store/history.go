package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lilulei/ruankao/internal/domain/session"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    session_type TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    ended_at INTEGER,
    question_count INTEGER NOT NULL,
    correct_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS session_answers (
    session_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    selected TEXT NOT NULL,
    is_correct INTEGER NOT NULL,
    answered_at INTEGER NOT NULL,
    PRIMARY KEY (session_id, question_id),
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);
`

// SessionArchive is the long-term practice history, kept in sqlite next to
// the XML state files. The XML session document is the working set the
// engine reloads; the archive only grows and is what reporting queries run
// against. It implements session.Archiver.
type SessionArchive struct {
	db *sql.DB
}

// ArchivedSession is one completed session row.
type ArchivedSession struct {
	SessionID     string
	SessionType   session.Type
	StartedAt     time.Time
	EndedAt       time.Time
	QuestionCount int
	CorrectCount  int
}

// ArchivedAnswer is one graded answer row.
type ArchivedAnswer struct {
	QuestionID      string
	SelectedOptions []string
	IsCorrect       bool
	AnsweredAt      time.Time
}

// NewSessionArchive opens (creating if needed) the archive database.
func NewSessionArchive(dbPath string) (*SessionArchive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SessionArchive{db: db}, nil
}

// Close closes the database.
func (a *SessionArchive) Close() error {
	return a.db.Close()
}

// ArchiveSession writes a completed session and its answers. Re-archiving
// the same session id overwrites the earlier rows, so retries are safe.
func (a *SessionArchive) ArchiveSession(s *session.PracticeSession) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var endedAt any
	if s.EndTime != nil {
		endedAt = s.EndTime.UnixMilli()
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO sessions (id, session_type, started_at, ended_at, question_count, correct_count) VALUES (?, ?, ?, ?, ?, ?)",
		s.SessionID, string(s.SessionType), s.StartTime.UnixMilli(), endedAt, len(s.Questions), s.CorrectCount(),
	)
	if err != nil {
		return err
	}

	for _, rec := range s.Answers {
		selectedJSON, err := json.Marshal(rec.SelectedOptions)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO session_answers (session_id, question_id, selected, is_correct, answered_at) VALUES (?, ?, ?, ?, ?)",
			s.SessionID, rec.QuestionID, string(selectedJSON), rec.IsCorrect, rec.AnsweredAt.UnixMilli(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Session returns one archived session, or ErrNotFound.
func (a *SessionArchive) Session(sessionID string) (ArchivedSession, error) {
	row := a.db.QueryRow(
		"SELECT id, session_type, started_at, ended_at, question_count, correct_count FROM sessions WHERE id = ?",
		sessionID,
	)
	var (
		s         ArchivedSession
		typ       string
		startedAt int64
		endedAt   sql.NullInt64
	)
	err := row.Scan(&s.SessionID, &typ, &startedAt, &endedAt, &s.QuestionCount, &s.CorrectCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ArchivedSession{}, ErrNotFound
	}
	if err != nil {
		return ArchivedSession{}, err
	}
	s.SessionType, _ = session.ParseType(typ)
	s.StartedAt = time.UnixMilli(startedAt)
	if endedAt.Valid {
		s.EndedAt = time.UnixMilli(endedAt.Int64)
	}
	return s, nil
}

// RecentSessions returns the most recently finished sessions, newest first.
func (a *SessionArchive) RecentSessions(limit int) ([]ArchivedSession, error) {
	rows, err := a.db.Query(
		"SELECT id, session_type, started_at, ended_at, question_count, correct_count FROM sessions ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []ArchivedSession
	for rows.Next() {
		var (
			s         ArchivedSession
			typ       string
			startedAt int64
			endedAt   sql.NullInt64
		)
		if err := rows.Scan(&s.SessionID, &typ, &startedAt, &endedAt, &s.QuestionCount, &s.CorrectCount); err != nil {
			return nil, err
		}
		s.SessionType, _ = session.ParseType(typ)
		s.StartedAt = time.UnixMilli(startedAt)
		if endedAt.Valid {
			s.EndedAt = time.UnixMilli(endedAt.Int64)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Answers returns the graded answers of one archived session.
func (a *SessionArchive) Answers(sessionID string) ([]ArchivedAnswer, error) {
	rows, err := a.db.Query(
		"SELECT question_id, selected, is_correct, answered_at FROM session_answers WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []ArchivedAnswer
	for rows.Next() {
		var (
			ans        ArchivedAnswer
			selected   string
			answeredAt int64
		)
		if err := rows.Scan(&ans.QuestionID, &selected, &ans.IsCorrect, &answeredAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(selected), &ans.SelectedOptions); err != nil {
			return nil, err
		}
		ans.AnsweredAt = time.UnixMilli(answeredAt)
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}
