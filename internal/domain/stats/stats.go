package stats

import (
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// CategoryMasteryRatio is the accuracy at which a category counts as
// mastered.
const CategoryMasteryRatio = 0.8

// Achievement names, added to a snapshot's achievement set once their
// threshold is reached and never removed.
const (
	AchievementStreak7     = "7-day streak"
	AchievementStreak30    = "30-day streak"
	AchievementPractice10  = "10 practices"
	AchievementPractice50  = "50 practices"
	AchievementQuestion100 = "100 questions"
	AchievementQuestion500 = "500 questions"
	AchievementAccuracy80  = "80% accuracy"
)

// CategoryStat accumulates per-category answer counts. Mastered flips once
// accuracy reaches CategoryMasteryRatio.
type CategoryStat struct {
	CategoryName   string
	TotalQuestions int
	CorrectAnswers int
	Mastered       bool
}

// DailyPracticeRecord is the per-calendar-day activity summary.
type DailyPracticeRecord struct {
	Practices         int
	QuestionsAnswered int
	CorrectlyAnswered int
	TimeSpentMinutes  int
}

// Statistics is one identity's progress snapshot. DailyRecords is keyed by
// date in YYYY-MM-DD form, one record per calendar day.
type Statistics struct {
	TotalPractices   int
	TotalQuestions   int
	CorrectAnswers   int
	StudyTimeMinutes int
	DailyStreak      int
	LastStudyDate    time.Time // zero = never studied
	CategoryStats    map[string]CategoryStat
	DailyRecords     map[string]DailyPracticeRecord
	Achievements     map[string]bool
	ExamLevel        exam.Level
	ExamType         exam.Type
}

// NewStatistics returns an empty snapshot tagged with the identity.
func NewStatistics(identity exam.Identity) *Statistics {
	return &Statistics{
		CategoryStats: make(map[string]CategoryStat),
		DailyRecords:  make(map[string]DailyPracticeRecord),
		Achievements:  make(map[string]bool),
		ExamLevel:     identity.Level,
		ExamType:      identity.Type,
	}
}

// Identity returns the identity tag of the snapshot.
func (s *Statistics) Identity() exam.Identity {
	return exam.Identity{Level: s.ExamLevel, Type: s.ExamType}
}

// Accuracy returns correct/total, or 0 when nothing was answered.
func (s *Statistics) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions)
}

// clone returns a deep copy so callers can't mutate live state.
func (s *Statistics) clone() Statistics {
	out := *s
	out.CategoryStats = make(map[string]CategoryStat, len(s.CategoryStats))
	for k, v := range s.CategoryStats {
		out.CategoryStats[k] = v
	}
	out.DailyRecords = make(map[string]DailyPracticeRecord, len(s.DailyRecords))
	for k, v := range s.DailyRecords {
		out.DailyRecords[k] = v
	}
	out.Achievements = make(map[string]bool, len(s.Achievements))
	for k := range s.Achievements {
		out.Achievements[k] = true
	}
	return out
}

// DateKey renders a time as the YYYY-MM-DD key used for daily records.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
