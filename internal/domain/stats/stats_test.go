package stats_test

import (
	"testing"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/stats"
)

var identity = exam.Identity{Level: exam.LevelSenior, Type: exam.TypeProjectManager}

func day(d int, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
}

// sessionOn builds a completed session ending on the given day with the
// given outcomes.
func sessionOn(end time.Time, correct, wrong int) stats.SessionResult {
	res := stats.SessionResult{
		StartTime: end.Add(-10 * time.Minute),
		EndTime:   end,
	}
	for i := 0; i < correct; i++ {
		res.Outcomes = append(res.Outcomes, stats.AnswerOutcome{QuestionID: "c", Correct: true})
	}
	for i := 0; i < wrong; i++ {
		res.Outcomes = append(res.Outcomes, stats.AnswerOutcome{QuestionID: "w", Correct: false})
	}
	return res
}

func TestSessionCompletionUpdatesCounters(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 10), 7, 3), identity)

	s := agg.ForIdentity(identity)
	if s.TotalPractices != 1 {
		t.Errorf("expected 1 practice, got %d", s.TotalPractices)
	}
	if s.TotalQuestions != 10 || s.CorrectAnswers != 7 {
		t.Errorf("expected 10/7, got %d/%d", s.TotalQuestions, s.CorrectAnswers)
	}
	if s.StudyTimeMinutes != 10 {
		t.Errorf("expected 10 minutes, got %d", s.StudyTimeMinutes)
	}
	if s.Accuracy() != 0.7 {
		t.Errorf("expected accuracy 0.7, got %v", s.Accuracy())
	}

	rec := s.DailyRecords[stats.DateKey(day(1, 10))]
	if rec.Practices != 1 || rec.QuestionsAnswered != 10 || rec.CorrectlyAnswered != 7 {
		t.Errorf("unexpected daily record %+v", rec)
	}
}

func TestSingleAnswerDoesNotTouchSnapshot(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSingleAnswer("q1", true, identity)
	agg.RecordSingleAnswer("q2", false, identity)

	s := agg.ForIdentity(identity)
	if s.TotalQuestions != 0 || s.CorrectAnswers != 0 || s.TotalPractices != 0 {
		t.Errorf("live answers must not move counters, got %+v", s)
	}
	if !s.LastStudyDate.IsZero() {
		t.Error("live answers must not stamp the last-study date, it feeds the streak")
	}
}

func TestLiveAnswersDoNotSpoilTheStreak(t *testing.T) {
	agg := stats.NewAggregator(nil)
	// The live answer and the completion land on the same calendar day,
	// like a real session; only the completion may move the streak.
	agg.RecordSingleAnswer("q1", true, identity)
	agg.RecordSessionCompletion(sessionOn(time.Now(), 1, 0), identity)

	if got := agg.ForIdentity(identity).DailyStreak; got != 1 {
		t.Errorf("expected streak 1 for the first completed session, got %d", got)
	}
}

func TestStreakGrowsOnConsecutiveDays(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 9), 1, 0), identity)
	agg.RecordSessionCompletion(sessionOn(day(2, 22), 1, 0), identity)
	agg.RecordSessionCompletion(sessionOn(day(3, 6), 1, 0), identity)

	if got := agg.ForIdentity(identity).DailyStreak; got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
}

func TestStreakUnchangedWithinSameDay(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 9), 1, 0), identity)
	agg.RecordSessionCompletion(sessionOn(day(1, 20), 1, 0), identity)

	if got := agg.ForIdentity(identity).DailyStreak; got != 1 {
		t.Errorf("expected streak 1 after two sessions on one day, got %d", got)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 9), 1, 0), identity)
	agg.RecordSessionCompletion(sessionOn(day(2, 9), 1, 0), identity)
	agg.RecordSessionCompletion(sessionOn(day(5, 9), 1, 0), identity)

	if got := agg.ForIdentity(identity).DailyStreak; got != 1 {
		t.Errorf("expected streak reset to 1 after a gap, got %d", got)
	}
}

func TestCategoryMastery(t *testing.T) {
	agg := stats.NewAggregator(nil)
	res := stats.SessionResult{
		StartTime: day(1, 9),
		EndTime:   day(1, 10),
	}
	// 4 of 5 correct in one chapter: exactly the 80% mastery bar.
	for i := 0; i < 4; i++ {
		res.Outcomes = append(res.Outcomes, stats.AnswerOutcome{QuestionID: "a", Correct: true, Chapter: "Networking"})
	}
	res.Outcomes = append(res.Outcomes, stats.AnswerOutcome{QuestionID: "b", Correct: false, Chapter: "Networking"})
	res.Outcomes = append(res.Outcomes, stats.AnswerOutcome{QuestionID: "c", Correct: false})

	agg.RecordSessionCompletion(res, identity)

	s := agg.ForIdentity(identity)
	cat := s.CategoryStats["Networking"]
	if cat.TotalQuestions != 5 || cat.CorrectAnswers != 4 {
		t.Errorf("unexpected category counts %+v", cat)
	}
	if !cat.Mastered {
		t.Error("80%% accuracy must count as mastered")
	}
	if _, ok := s.CategoryStats[stats.GeneralCategory]; !ok {
		t.Error("chapterless answers must land in the general category")
	}
}

func TestAchievementsUnlockAndStick(t *testing.T) {
	agg := stats.NewAggregator(nil)
	for i := 0; i < 10; i++ {
		agg.RecordSessionCompletion(sessionOn(day(1, 9), 1, 0), identity)
	}

	a := agg.Achievements(identity)
	if !a[stats.AchievementPractice10] {
		t.Error("expected the 10-practice achievement")
	}
	if !a[stats.AchievementAccuracy80] {
		t.Error("expected the accuracy achievement at 100%")
	}

	// Accuracy drops below the bar; the unlocked achievement stays.
	for i := 0; i < 20; i++ {
		agg.RecordSessionCompletion(sessionOn(day(1, 9), 0, 1), identity)
	}
	if !agg.Achievements(identity)[stats.AchievementAccuracy80] {
		t.Error("achievements must never be revoked")
	}
}

func TestStreakAchievement(t *testing.T) {
	agg := stats.NewAggregator(nil)
	for d := 1; d <= 7; d++ {
		agg.RecordSessionCompletion(sessionOn(day(d, 9), 1, 0), identity)
	}
	if !agg.Achievements(identity)[stats.AchievementStreak7] {
		t.Error("expected the 7-day streak achievement")
	}
}

func TestSnapshotsAreIsolatedPerIdentity(t *testing.T) {
	other := exam.Identity{Level: exam.LevelJunior, Type: exam.TypeProgrammer}
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 9), 3, 1), identity)

	if got := agg.ForIdentity(other); got.TotalQuestions != 0 {
		t.Errorf("other identity must start empty, got %d questions", got.TotalQuestions)
	}
	if got := agg.ForIdentity(other); got.ExamLevel != other.Level || got.ExamType != other.Type {
		t.Error("empty snapshot must be tagged with the requested identity")
	}

	agg.ClearAll(identity)
	if got := agg.ForIdentity(identity); got.TotalQuestions != 0 {
		t.Error("ClearAll must reset the identity's snapshot")
	}
}

func TestForIdentityReturnsACopy(t *testing.T) {
	agg := stats.NewAggregator(nil)
	agg.RecordSessionCompletion(sessionOn(day(1, 9), 1, 0), identity)

	s := agg.ForIdentity(identity)
	s.TotalQuestions = 999
	s.DailyRecords["2099-01-01"] = stats.DailyPracticeRecord{Practices: 5}

	if agg.ForIdentity(identity).TotalQuestions == 999 {
		t.Error("mutating the returned snapshot must not affect live state")
	}
	if _, ok := agg.ForIdentity(identity).DailyRecords["2099-01-01"]; ok {
		t.Error("mutating the returned maps must not affect live state")
	}
}

func TestNegativeDurationClampedToZero(t *testing.T) {
	agg := stats.NewAggregator(nil)
	res := stats.SessionResult{
		StartTime: day(2, 10),
		EndTime:   day(2, 9), // clock went backwards
		Outcomes:  []stats.AnswerOutcome{{QuestionID: "q", Correct: true}},
	}
	agg.RecordSessionCompletion(res, identity)

	if got := agg.ForIdentity(identity).StudyTimeMinutes; got != 0 {
		t.Errorf("expected clamped study time 0, got %d", got)
	}
}
