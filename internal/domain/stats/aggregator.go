package stats

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// AnswerOutcome is one graded answer of a completed session, carrying the
// chapter name for category statistics ("" counts as General).
type AnswerOutcome struct {
	QuestionID string
	Correct    bool
	Chapter    string
}

// SessionResult is the whole-session record handed over when a practice
// session ends.
type SessionResult struct {
	StartTime time.Time
	EndTime   time.Time
	Outcomes  []AnswerOutcome
}

// GeneralCategory is the category used for questions without a chapter.
const GeneralCategory = "General"

// Listener is notified synchronously after every statistics mutation.
type Listener func()

// Aggregator rolls session results up into per-identity progress snapshots.
// It keeps one snapshot per identity, keyed by the (level, type) pair, so
// switching identities never discards previously collected data.
//
// Counting policy: session completion is the single owner of the
// totalQuestions/correctAnswers counters and of the last-study date the
// streak is computed from. The live per-answer path only wakes listeners,
// so a session counted at completion is never counted twice and an answer
// submitted today cannot make the later completion look same-day.
type Aggregator struct {
	mu        sync.RWMutex
	snapshots map[exam.Identity]*Statistics
	listeners []Listener
	flush     func()
	logger    *slog.Logger
}

// NewAggregator creates an aggregator with no recorded history.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		snapshots: make(map[exam.Identity]*Statistics),
		logger:    logger,
	}
}

// AddListener registers a listener invoked synchronously on every mutation.
func (a *Aggregator) AddListener(l Listener) {
	a.mu.Lock()
	a.listeners = append(a.listeners, l)
	a.mu.Unlock()
}

// OnMutate registers the flush hook invoked after every mutation.
func (a *Aggregator) OnMutate(f func()) {
	a.mu.Lock()
	a.flush = f
	a.mu.Unlock()
}

// RecordSessionCompletion folds a finished session into the identity's
// snapshot: global counters, today's daily record, the streak, category
// stats, and achievement thresholds. "Today" is the session's end date, so
// the calendar day a session counts toward is the day it finished.
func (a *Aggregator) RecordSessionCompletion(res SessionResult, identity exam.Identity) {
	end := res.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	correct := 0
	for _, o := range res.Outcomes {
		if o.Correct {
			correct++
		}
	}
	minutes := int(end.Sub(res.StartTime) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	a.mu.Lock()
	s := a.snapshotLocked(identity)

	s.TotalPractices++
	s.TotalQuestions += len(res.Outcomes)
	s.CorrectAnswers += correct
	s.StudyTimeMinutes += minutes

	day := DateKey(end)
	rec := s.DailyRecords[day]
	rec.Practices++
	rec.QuestionsAnswered += len(res.Outcomes)
	rec.CorrectlyAnswered += correct
	rec.TimeSpentMinutes += minutes
	s.DailyRecords[day] = rec

	updateStreak(s, end)
	s.LastStudyDate = end

	for _, o := range res.Outcomes {
		name := o.Chapter
		if name == "" {
			name = GeneralCategory
		}
		cat := s.CategoryStats[name]
		cat.CategoryName = name
		cat.TotalQuestions++
		if o.Correct {
			cat.CorrectAnswers++
		}
		cat.Mastered = float64(cat.CorrectAnswers)/float64(cat.TotalQuestions) >= CategoryMasteryRatio
		s.CategoryStats[name] = cat
	}

	unlocked := checkAchievements(s)
	a.mu.Unlock()

	a.logger.Info("session recorded",
		"identity", identity.String(),
		"questions", len(res.Outcomes),
		"correct", correct,
		"minutes", minutes)
	for _, name := range unlocked {
		a.logger.Info("achievement unlocked", "name", name)
	}
	a.notify()
}

// RecordSingleAnswer is the lightweight live-update path used while a
// session is still running. It wakes listeners so live views refresh; the
// snapshot itself stays untouched until session completion (see the
// counting policy above). In particular it must not stamp LastStudyDate,
// which would turn every later completion into a same-day streak update.
func (a *Aggregator) RecordSingleAnswer(questionID string, correct bool, identity exam.Identity) {
	a.logger.Debug("answer recorded",
		"question_id", questionID,
		"correct", correct,
		"identity", identity.String())
	a.notify()
}

// ForIdentity returns a copy of the identity's snapshot, or a fresh empty
// snapshot tagged with the identity when nothing was recorded yet.
func (a *Aggregator) ForIdentity(identity exam.Identity) Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if s, ok := a.snapshots[identity]; ok {
		return s.clone()
	}
	return NewStatistics(identity).clone()
}

// Today returns the identity's daily record for the current calendar day.
func (a *Aggregator) Today(identity exam.Identity) DailyPracticeRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if s, ok := a.snapshots[identity]; ok {
		return s.DailyRecords[DateKey(time.Now())]
	}
	return DailyPracticeRecord{}
}

// DailyRecords returns a copy of the identity's per-day records.
func (a *Aggregator) DailyRecords(identity exam.Identity) map[string]DailyPracticeRecord {
	return a.ForIdentity(identity).DailyRecords
}

// Achievements returns the identity's unlocked achievement names.
func (a *Aggregator) Achievements(identity exam.Identity) map[string]bool {
	return a.ForIdentity(identity).Achievements
}

// ClearAll resets the identity's snapshot to empty, re-tagged with the same
// identity. Other identities' snapshots are untouched.
func (a *Aggregator) ClearAll(identity exam.Identity) {
	a.mu.Lock()
	a.snapshots[identity] = NewStatistics(identity)
	a.mu.Unlock()

	a.logger.Info("statistics cleared", "identity", identity.String())
	a.notify()
}

// All returns a copy of every identity's snapshot.
func (a *Aggregator) All() []Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Statistics, 0, len(a.snapshots))
	for _, s := range a.snapshots {
		out = append(out, s.clone())
	}
	return out
}

// ReplaceAll swaps in decoded snapshots without notifying listeners or
// scheduling a flush. Used by the persistence layer after a successful
// decode.
func (a *Aggregator) ReplaceAll(snapshots []Statistics) {
	fresh := make(map[exam.Identity]*Statistics, len(snapshots))
	for i := range snapshots {
		s := snapshots[i].clone()
		fresh[s.Identity()] = &s
	}
	a.mu.Lock()
	a.snapshots = fresh
	a.mu.Unlock()
}

func (a *Aggregator) snapshotLocked(identity exam.Identity) *Statistics {
	s, ok := a.snapshots[identity]
	if !ok {
		s = NewStatistics(identity)
		a.snapshots[identity] = s
	}
	return s
}

func (a *Aggregator) notify() {
	a.mu.RLock()
	listeners := make([]Listener, len(a.listeners))
	copy(listeners, a.listeners)
	f := a.flush
	a.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
	if f != nil {
		f()
	}
}

// updateStreak applies the calendar-day streak rule against the previous
// last-study date: the next day extends the streak, a gap or a date moving
// backwards restarts it at 1, the same day leaves it unchanged.
func updateStreak(s *Statistics, now time.Time) {
	if s.LastStudyDate.IsZero() {
		s.DailyStreak = 1
		return
	}
	switch d := daysBetween(s.LastStudyDate, now); {
	case d == 1:
		s.DailyStreak++
	case d == 0:
		// same calendar day, unchanged
	default:
		s.DailyStreak = 1
	}
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

// checkAchievements adds any newly crossed thresholds to the snapshot's
// achievement set and returns the names added. Present names are never
// re-added or removed.
func checkAchievements(s *Statistics) []string {
	var unlocked []string
	add := func(name string, reached bool) {
		if reached && !s.Achievements[name] {
			s.Achievements[name] = true
			unlocked = append(unlocked, name)
		}
	}
	add(AchievementStreak7, s.DailyStreak >= 7)
	add(AchievementStreak30, s.DailyStreak >= 30)
	add(AchievementPractice10, s.TotalPractices >= 10)
	add(AchievementPractice50, s.TotalPractices >= 50)
	add(AchievementQuestion100, s.TotalQuestions >= 100)
	add(AchievementQuestion500, s.TotalQuestions >= 500)
	add(AchievementAccuracy80, s.TotalQuestions > 0 && s.Accuracy() >= 0.8)
	return unlocked
}
