package question

import (
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// Difficulty grades how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

var difficultyDisplayNames = map[Difficulty]string{
	DifficultyEasy:   "Easy",
	DifficultyMedium: "Medium",
	DifficultyHard:   "Hard",
}

// DisplayName returns the human-readable form of the difficulty.
func (d Difficulty) DisplayName() string {
	return difficultyDisplayNames[d]
}

// Difficulties lists all difficulty grades from easy to hard.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty resolves a persisted difficulty value, defaulting to Medium.
func ParseDifficulty(raw string) (Difficulty, bool) {
	return exam.ParseEnum(raw, Difficulties(), Difficulty.DisplayName, DifficultyMedium)
}

// Origin marks where a question came from. Built-in questions are immutable
// from the editing surface; that rule is enforced by callers, the repository
// only exposes the flag.
type Origin string

const (
	OriginBuiltIn Origin = "BUILT_IN"
	OriginCustom  Origin = "CUSTOM"
)

// ParseOrigin resolves a persisted origin value, defaulting to Custom.
func ParseOrigin(raw string) (Origin, bool) {
	return exam.ParseEnum(raw, []Origin{OriginBuiltIn, OriginCustom}, func(o Origin) string {
		if o == OriginBuiltIn {
			return "Built-in"
		}
		return "Custom"
	}, OriginCustom)
}

// Question is a single multiple-choice exam question. Producers (importers,
// entry forms) are responsible for supplying valid questions: at least two
// options, correct answers drawn from the option labels, a non-empty
// explanation and chapter. The repository does not re-check those rules.
type Question struct {
	ID             string
	Title          string
	Options        map[string]string // option label → option text
	CorrectAnswers []string          // set of option labels
	Explanation    string
	Difficulty     Difficulty
	Chapter        string // empty = unassigned
	ExamDate       time.Time
	ExamType       exam.Type
	ExamLevel      exam.Level
	Origin         Origin
}

// Identity returns the (level, type) pair the question belongs to.
func (q Question) Identity() exam.Identity {
	return exam.Identity{Level: q.ExamLevel, Type: q.ExamType}
}

// IsCorrect reports whether the selected option labels exactly match the
// question's correct answer set. Order and duplicates are irrelevant.
func (q Question) IsCorrect(selected []string) bool {
	return SameAnswerSet(selected, q.CorrectAnswers)
}

// SameAnswerSet compares two label lists as sets.
func SameAnswerSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, l := range a {
		as[l] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, l := range b {
		bs[l] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for l := range as {
		if _, ok := bs[l]; !ok {
			return false
		}
	}
	return true
}
