package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/stats"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

// Archiver receives completed sessions for long-term storage. Archiving
// runs off the mutating path; failures are logged, never propagated.
type Archiver interface {
	ArchiveSession(s *PracticeSession) error
}

// Engine orchestrates practice sessions: at most one session is in
// progress at a time, answers are graded and forwarded to the wrong book
// and the statistics aggregator as they arrive, and completed sessions land
// on an append-only history.
//
// Starting a session while another is in progress implicitly ends the prior
// one first, so its answers are still recorded and archived.
type Engine struct {
	mu       sync.Mutex
	current  *PracticeSession
	history  []*PracticeSession
	timer    *time.Timer
	modCount int64

	identity  *exam.IdentityContext
	wrongBook *wrongbook.Tracker
	stats     *stats.Aggregator
	archive   Archiver
	flush     func()
	logger    *slog.Logger

	mockExamDuration time.Duration
}

// NewEngine creates an engine wired to the wrong book and statistics
// aggregator. mockExamDuration is the countdown for mock-exam sessions;
// zero disables the timer.
func NewEngine(identity *exam.IdentityContext, wrongBook *wrongbook.Tracker, aggregator *stats.Aggregator, mockExamDuration time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		identity:         identity,
		wrongBook:        wrongBook,
		stats:            aggregator,
		mockExamDuration: mockExamDuration,
		logger:           logger,
	}
}

// SetArchiver attaches the session history archive.
func (e *Engine) SetArchiver(a Archiver) {
	e.mu.Lock()
	e.archive = a
	e.mu.Unlock()
}

// OnMutate registers the flush hook invoked when the session history grows.
func (e *Engine) OnMutate(f func()) {
	e.mu.Lock()
	e.flush = f
	e.mu.Unlock()
}

// Start begins a new session over the given questions. The input list must
// already be deduplicated by the caller. A still-running session is ended
// first.
func (e *Engine) Start(t Type, questions []question.Question) *PracticeSession {
	e.mu.Lock()
	prior := e.endLocked()
	if prior != nil {
		e.logger.Warn("new session started while one was in progress, prior session ended",
			"prior_session_id", prior.SessionID)
	}

	s := NewPracticeSession(t, questions)
	e.current = s
	if t == TypeMockExam && e.mockExamDuration > 0 {
		e.timer = time.AfterFunc(e.mockExamDuration, e.expireMockExam)
	}
	e.mu.Unlock()

	if prior != nil {
		e.finish(prior)
	}
	e.logger.Info("session started",
		"session_id", s.SessionID,
		"type", t,
		"questions", len(questions))
	return s
}

// SubmitAnswer grades the selected options against the question's correct
// answer set, stores the record, and forwards the outcome to the wrong book
// and the statistics aggregator immediately, so progress survives an
// abandoned session. The session auto-completes once every question has an
// answer. The returned bool is false when no session is in progress or the
// question is not part of it.
func (e *Engine) SubmitAnswer(questionID string, selected []string) (AnswerRecord, bool) {
	e.mu.Lock()
	s := e.current
	if s == nil {
		e.mu.Unlock()
		return AnswerRecord{}, false
	}
	q, ok := s.QuestionByID(questionID)
	if !ok {
		e.mu.Unlock()
		e.logger.Warn("answer for question outside the session ignored", "question_id", questionID)
		return AnswerRecord{}, false
	}

	record := AnswerRecord{
		QuestionID:      questionID,
		SelectedOptions: selected,
		IsCorrect:       q.IsCorrect(selected),
		AnsweredAt:      time.Now(),
	}
	s.Answers[questionID] = record
	identity := e.identity.Identity()

	var ended *PracticeSession
	if s.FullyAnswered() {
		ended = e.endLocked()
	}
	e.mu.Unlock()

	if record.IsCorrect {
		e.wrongBook.RecordCorrectAnswer(questionID)
	} else {
		e.wrongBook.RecordWrongAnswer(questionID, identity)
	}
	e.stats.RecordSingleAnswer(questionID, record.IsCorrect, identity)
	if ended != nil {
		e.finish(ended)
	}

	return record, true
}

// End explicitly completes the current session (manual stop or timeout).
// No-op when nothing is in progress.
func (e *Engine) End() {
	e.mu.Lock()
	ended := e.endLocked()
	e.mu.Unlock()
	if ended != nil {
		e.finish(ended)
	}
}

// endLocked stamps the end time, moves the current session onto the
// history, and returns it for post-lock completion handling. Callers hold
// e.mu.
func (e *Engine) endLocked() *PracticeSession {
	s := e.current
	if s == nil {
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	now := time.Now()
	s.EndTime = &now
	e.history = append(e.history, s)
	e.current = nil
	e.modCount++
	return s
}

// finish hands a completed session to the statistics aggregator and the
// archive, and schedules a history flush. Runs outside e.mu so aggregator
// listeners may call back into the engine.
func (e *Engine) finish(s *PracticeSession) {
	identity := e.identity.Identity()
	outcomes := make([]stats.AnswerOutcome, 0, len(s.Answers))
	for _, a := range s.Answers {
		chapter := ""
		if q, ok := s.QuestionByID(a.QuestionID); ok {
			chapter = q.Chapter
		}
		outcomes = append(outcomes, stats.AnswerOutcome{
			QuestionID: a.QuestionID,
			Correct:    a.IsCorrect,
			Chapter:    chapter,
		})
	}
	e.stats.RecordSessionCompletion(stats.SessionResult{
		StartTime: s.StartTime,
		EndTime:   *s.EndTime,
		Outcomes:  outcomes,
	}, identity)

	e.mu.Lock()
	archive := e.archive
	flush := e.flush
	e.mu.Unlock()

	if archive != nil {
		go func() {
			if err := archive.ArchiveSession(s); err != nil {
				e.logger.Error("failed to archive session", "session_id", s.SessionID, "error", err)
			}
		}()
	}
	if flush != nil {
		flush()
	}

	e.logger.Info("session ended",
		"session_id", s.SessionID,
		"answered", len(s.Answers),
		"correct", s.CorrectCount())
}

// expireMockExam is the mock-exam countdown callback. Already-recorded
// answers are kept; the session simply ends where it stands.
func (e *Engine) expireMockExam() {
	e.mu.Lock()
	if e.current == nil || e.current.SessionType != TypeMockExam {
		e.mu.Unlock()
		return
	}
	id := e.current.SessionID
	ended := e.endLocked()
	e.mu.Unlock()

	e.logger.Info("mock exam time expired", "session_id", id)
	if ended != nil {
		e.finish(ended)
	}
}

// Current returns the in-progress session, or nil.
func (e *Engine) Current() *PracticeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// History returns the completed sessions in completion order.
func (e *Engine) History() []*PracticeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*PracticeSession, len(e.history))
	copy(out, e.history)
	return out
}

// SessionByID finds a completed session.
func (e *Engine) SessionByID(sessionID string) (*PracticeSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.history {
		if s.SessionID == sessionID {
			return s, true
		}
	}
	return nil, false
}

// ModificationCount returns the monotone history mutation counter.
func (e *Engine) ModificationCount() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modCount
}

// RestoreHistory replaces the session history without flushing. Used by the
// persistence layer at load time.
func (e *Engine) RestoreHistory(history []*PracticeSession) {
	e.mu.Lock()
	e.history = history
	e.mu.Unlock()
}
