package wrongbook

import (
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// MasteryThreshold is the number of consecutive correct answers after which
// a wrong question counts as mastered.
const MasteryThreshold = 3

// Info is the mastery record for one question the learner has answered
// wrong at least once. The identity fields capture the identity that was
// active when the error happened, not the question's own identity.
type Info struct {
	QuestionID         string
	ErrorCount         int
	LastErrorTime      time.Time
	Mastered           bool
	ConsecutiveCorrect int
	ExamLevel          exam.Level
	ExamType           exam.Type
}

// Identity returns the identity tag the entry was recorded under.
func (i Info) Identity() exam.Identity {
	return exam.Identity{Level: i.ExamLevel, Type: i.ExamType}
}
