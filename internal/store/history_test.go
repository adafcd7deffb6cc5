package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
	"github.com/lilulei/ruankao/internal/store"
)

func newArchive(t *testing.T) *store.SessionArchive {
	t.Helper()
	archive, err := store.NewSessionArchive(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func archivedSession(id string, start time.Time) *session.PracticeSession {
	end := start.Add(20 * time.Minute)
	return &session.PracticeSession{
		SessionID:   id,
		StartTime:   start,
		EndTime:     &end,
		SessionType: session.TypeDaily,
		Questions:   []question.Question{{ID: "q1"}, {ID: "q2"}},
		Answers: map[string]session.AnswerRecord{
			"q1": {QuestionID: "q1", SelectedOptions: []string{"A"}, IsCorrect: true, AnsweredAt: start.Add(time.Minute)},
			"q2": {QuestionID: "q2", SelectedOptions: []string{"B", "C"}, IsCorrect: false, AnsweredAt: start.Add(2 * time.Minute)},
		},
	}
}

func TestArchiveAndQuery(t *testing.T) {
	archive := newArchive(t)
	start := time.UnixMilli(time.Now().UnixMilli())

	if err := archive.ArchiveSession(archivedSession("s1", start)); err != nil {
		t.Fatal(err)
	}

	sessions, err := archive.RecentSessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 archived session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.SessionID != "s1" || got.SessionType != session.TypeDaily {
		t.Errorf("unexpected session %+v", got)
	}
	if got.QuestionCount != 2 || got.CorrectCount != 1 {
		t.Errorf("unexpected counts %+v", got)
	}
	if !got.StartedAt.Equal(start) {
		t.Errorf("start %v, expected %v", got.StartedAt, start)
	}
	if got.EndedAt.IsZero() {
		t.Error("expected a recorded end time")
	}

	answers, err := archive.Answers("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	for _, a := range answers {
		if a.QuestionID == "q2" && len(a.SelectedOptions) != 2 {
			t.Errorf("selected options did not survive: %+v", a)
		}
	}
}

func TestSessionLookup(t *testing.T) {
	archive := newArchive(t)
	if err := archive.ArchiveSession(archivedSession("s1", time.Now())); err != nil {
		t.Fatal(err)
	}

	s, err := archive.Session("s1")
	if err != nil {
		t.Fatal(err)
	}
	if s.SessionID != "s1" || s.QuestionCount != 2 {
		t.Errorf("unexpected session %+v", s)
	}

	if _, err := archive.Session("ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRearchivingSameSessionIsIdempotent(t *testing.T) {
	archive := newArchive(t)
	s := archivedSession("s1", time.Now())

	if err := archive.ArchiveSession(s); err != nil {
		t.Fatal(err)
	}
	if err := archive.ArchiveSession(s); err != nil {
		t.Fatal(err)
	}

	sessions, err := archive.RecentSessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("re-archiving must overwrite, got %d rows", len(sessions))
	}
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	archive := newArchive(t)
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		if err := archive.ArchiveSession(archivedSession(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := archive.RecentSessions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected the limit to apply, got %d", len(sessions))
	}
	if sessions[0].SessionID != "new" || sessions[1].SessionID != "mid" {
		t.Errorf("expected newest first, got %s then %s", sessions[0].SessionID, sessions[1].SessionID)
	}
}
