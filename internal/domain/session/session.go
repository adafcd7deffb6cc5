package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
)

// Type is the practice mode a session runs in.
type Type string

const (
	TypeDaily        Type = "DAILY_PRACTICE"
	TypeSpecialTopic Type = "SPECIAL_TOPIC"
	TypeMockExam     Type = "MOCK_EXAM"
	TypeRandom       Type = "RANDOM_PRACTICE"
)

var typeDisplayNames = map[Type]string{
	TypeDaily:        "Daily Practice",
	TypeSpecialTopic: "Special Topic",
	TypeMockExam:     "Mock Exam",
	TypeRandom:       "Random Practice",
}

// DisplayName returns the human-readable form of the session type.
func (t Type) DisplayName() string {
	return typeDisplayNames[t]
}

// Types lists all session types.
func Types() []Type {
	return []Type{TypeDaily, TypeSpecialTopic, TypeMockExam, TypeRandom}
}

// ParseType resolves a persisted session type, defaulting to random practice.
func ParseType(raw string) (Type, bool) {
	return exam.ParseEnum(raw, Types(), Type.DisplayName, TypeRandom)
}

// AnswerRecord is one graded answer inside a session.
type AnswerRecord struct {
	QuestionID      string
	SelectedOptions []string
	IsCorrect       bool
	AnsweredAt      time.Time
}

// PracticeSession is one bounded run through a question list. The caller is
// responsible for deduplicating the input list; a question id appears at
// most once. EndTime stays nil while the session is in progress.
type PracticeSession struct {
	SessionID   string
	StartTime   time.Time
	EndTime     *time.Time
	Questions   []question.Question
	Answers     map[string]AnswerRecord
	SessionType Type
}

// NewPracticeSession creates an in-progress session over the given
// questions, started now.
func NewPracticeSession(t Type, questions []question.Question) *PracticeSession {
	return &PracticeSession{
		SessionID:   uuid.NewString(),
		StartTime:   time.Now(),
		Questions:   questions,
		Answers:     make(map[string]AnswerRecord),
		SessionType: t,
	}
}

// Completed reports whether the session has ended.
func (s *PracticeSession) Completed() bool {
	return s.EndTime != nil
}

// FullyAnswered reports whether every question has a recorded answer.
func (s *PracticeSession) FullyAnswered() bool {
	return len(s.Answers) == len(s.Questions)
}

// CorrectCount returns the number of correct answers so far.
func (s *PracticeSession) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// QuestionByID finds a question inside the session's list.
func (s *PracticeSession) QuestionByID(id string) (question.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return question.Question{}, false
}

// Duration returns the elapsed time, using now while still in progress.
func (s *PracticeSession) Duration() time.Duration {
	end := time.Now()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime)
}
