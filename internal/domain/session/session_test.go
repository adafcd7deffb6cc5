package session_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
	"github.com/lilulei/ruankao/internal/domain/stats"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

func testQuestions(n int) []question.Question {
	out := make([]question.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, question.Question{
			ID:             fmt.Sprintf("q%d", i),
			Title:          fmt.Sprintf("Question %d", i),
			Options:        map[string]string{"A": "yes", "B": "no"},
			CorrectAnswers: []string{"A"},
			Chapter:        "Networking",
			ExamType:       exam.TypeProjectManager,
			ExamLevel:      exam.LevelSenior,
		})
	}
	return out
}

type engineFixture struct {
	engine    *session.Engine
	wrongBook *wrongbook.Tracker
	stats     *stats.Aggregator
	identity  exam.Identity
}

func newFixture(mockDuration time.Duration) *engineFixture {
	ctx := exam.NewIdentityContext()
	tracker := wrongbook.NewTracker(nil)
	agg := stats.NewAggregator(nil)
	return &engineFixture{
		engine:    session.NewEngine(ctx, tracker, agg, mockDuration, nil),
		wrongBook: tracker,
		stats:     agg,
		identity:  ctx.Identity(),
	}
}

func TestStartAndSubmit(t *testing.T) {
	f := newFixture(0)
	s := f.engine.Start(session.TypeDaily, testQuestions(3))

	if f.engine.Current() == nil {
		t.Fatal("expected a session in progress")
	}
	if s.Completed() {
		t.Error("a fresh session must not be completed")
	}

	rec, ok := f.engine.SubmitAnswer("q0", []string{"A"})
	if !ok || !rec.IsCorrect {
		t.Fatalf("expected a graded correct answer, got (%+v, %v)", rec, ok)
	}
	rec, ok = f.engine.SubmitAnswer("q1", []string{"B"})
	if !ok || rec.IsCorrect {
		t.Fatalf("expected a graded wrong answer, got (%+v, %v)", rec, ok)
	}
	if got := f.engine.Current().CorrectCount(); got != 1 {
		t.Errorf("expected 1 correct so far, got %d", got)
	}
}

func TestAnswerWithoutSessionRejected(t *testing.T) {
	f := newFixture(0)
	if _, ok := f.engine.SubmitAnswer("q0", []string{"A"}); ok {
		t.Error("answer without a running session must be rejected")
	}
}

func TestAnswerOutsideSessionRejected(t *testing.T) {
	f := newFixture(0)
	f.engine.Start(session.TypeDaily, testQuestions(2))
	if _, ok := f.engine.SubmitAnswer("stranger", []string{"A"}); ok {
		t.Error("answer for a question outside the session must be rejected")
	}
	if len(f.engine.Current().Answers) != 0 {
		t.Error("rejected answer must not be stored")
	}
}

func TestSessionAutoCompletesWhenFullyAnswered(t *testing.T) {
	f := newFixture(0)
	f.engine.Start(session.TypeDaily, testQuestions(2))
	f.engine.SubmitAnswer("q0", []string{"A"})
	f.engine.SubmitAnswer("q1", []string{"A"})

	if f.engine.Current() != nil {
		t.Fatal("session must auto-complete once every question is answered")
	}
	history := f.engine.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 completed session, got %d", len(history))
	}
	if !history[0].Completed() {
		t.Error("archived session must carry an end time")
	}

	s := f.stats.ForIdentity(f.identity)
	if s.TotalPractices != 1 || s.TotalQuestions != 2 || s.CorrectAnswers != 2 {
		t.Errorf("completion must feed the aggregator, got %+v", s)
	}
	if _, ok := s.CategoryStats["Networking"]; !ok {
		t.Error("completion must carry chapter names into category stats")
	}
}

func TestCompletedSessionsDriveTheStreak(t *testing.T) {
	f := newFixture(0)
	f.engine.Start(session.TypeDaily, testQuestions(1))
	f.engine.SubmitAnswer("q0", []string{"A"})

	if got := f.stats.ForIdentity(f.identity).DailyStreak; got != 1 {
		t.Fatalf("expected streak 1 after the first completed session, got %d", got)
	}

	f.engine.Start(session.TypeDaily, testQuestions(1))
	f.engine.SubmitAnswer("q0", []string{"A"})

	if got := f.stats.ForIdentity(f.identity).DailyStreak; got != 1 {
		t.Errorf("a second session on the same day must leave the streak at 1, got %d", got)
	}
}

func TestWrongAnswersFeedTheWrongBook(t *testing.T) {
	f := newFixture(0)
	f.engine.Start(session.TypeRandom, testQuestions(2))
	f.engine.SubmitAnswer("q0", []string{"B"})

	info, ok := f.wrongBook.Get("q0")
	if !ok {
		t.Fatal("wrong answer must create a wrong-book entry")
	}
	if info.ExamLevel != f.identity.Level || info.ExamType != f.identity.Type {
		t.Error("wrong-book entry must be tagged with the current identity")
	}

	f.engine.SubmitAnswer("q1", []string{"A"})
	if f.wrongBook.Contains("q1") {
		t.Error("correct first answers must not create entries")
	}
}

func TestExplicitEnd(t *testing.T) {
	f := newFixture(0)
	f.engine.Start(session.TypeDaily, testQuestions(5))
	f.engine.SubmitAnswer("q0", []string{"A"})
	f.engine.End()

	if f.engine.Current() != nil {
		t.Error("End must clear the current session")
	}
	if got := len(f.engine.History()); got != 1 {
		t.Fatalf("expected 1 completed session, got %d", got)
	}
	if got := f.stats.ForIdentity(f.identity).TotalQuestions; got != 1 {
		t.Errorf("a partially answered session must count only its answers, got %d", got)
	}

	f.engine.End() // nothing running, no-op
	if got := len(f.engine.History()); got != 1 {
		t.Errorf("End without a session must not touch the history, got %d", got)
	}
}

func TestStartEndsPriorSession(t *testing.T) {
	f := newFixture(0)
	first := f.engine.Start(session.TypeDaily, testQuestions(3))
	f.engine.SubmitAnswer("q0", []string{"A"})

	second := f.engine.Start(session.TypeRandom, testQuestions(2))

	if !first.Completed() {
		t.Error("starting a new session must end the prior one")
	}
	if f.engine.Current() != second {
		t.Error("the new session must become current")
	}
	if got := f.stats.ForIdentity(f.identity).TotalPractices; got != 1 {
		t.Errorf("the implicitly ended session must be recorded, got %d practices", got)
	}
}

func TestMockExamExpires(t *testing.T) {
	f := newFixture(30 * time.Millisecond)
	f.engine.Start(session.TypeMockExam, testQuestions(5))
	f.engine.SubmitAnswer("q0", []string{"A"})

	deadline := time.Now().Add(2 * time.Second)
	for f.engine.Current() != nil {
		if time.Now().After(deadline) {
			t.Fatal("mock exam did not expire")
		}
		time.Sleep(5 * time.Millisecond)
	}

	history := f.engine.History()
	if len(history) != 1 || !history[0].Completed() {
		t.Fatal("expired mock exam must land on the history completed")
	}
	if len(history[0].Answers) != 1 {
		t.Errorf("answers recorded before expiry must be kept, got %d", len(history[0].Answers))
	}
}

func TestMockExamTimerDoesNotOutliveSession(t *testing.T) {
	f := newFixture(30 * time.Millisecond)
	f.engine.Start(session.TypeMockExam, testQuestions(2))
	f.engine.End()

	f.engine.Start(session.TypeDaily, testQuestions(2))
	time.Sleep(60 * time.Millisecond)

	if f.engine.Current() == nil {
		t.Error("a stale mock-exam timer must not end the next session")
	}
}

func TestModificationCountTracksHistoryGrowth(t *testing.T) {
	f := newFixture(0)
	if f.engine.ModificationCount() != 0 {
		t.Fatal("fresh engine must start at zero")
	}
	f.engine.Start(session.TypeDaily, testQuestions(1))
	f.engine.End()
	f.engine.Start(session.TypeDaily, testQuestions(1))
	f.engine.End()

	if got := f.engine.ModificationCount(); got != 2 {
		t.Errorf("expected modification count 2, got %d", got)
	}
}

func TestSessionByID(t *testing.T) {
	f := newFixture(0)
	s := f.engine.Start(session.TypeDaily, testQuestions(1))
	f.engine.End()

	if got, ok := f.engine.SessionByID(s.SessionID); !ok || got.SessionID != s.SessionID {
		t.Error("completed session must be findable by id")
	}
	if _, ok := f.engine.SessionByID("ghost"); ok {
		t.Error("unknown id must report false")
	}
}

func TestParseType(t *testing.T) {
	if got, ok := session.ParseType("MOCK_EXAM"); !ok || got != session.TypeMockExam {
		t.Errorf("ParseType(MOCK_EXAM) = (%s, %v)", got, ok)
	}
	if got, ok := session.ParseType("Daily Practice"); !ok || got != session.TypeDaily {
		t.Errorf("ParseType(Daily Practice) = (%s, %v)", got, ok)
	}
	if got, ok := session.ParseType("bogus"); ok || got != session.TypeRandom {
		t.Errorf("expected fallback to random practice, got (%s, %v)", got, ok)
	}
}
