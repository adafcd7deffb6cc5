package wrongbook

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// Observer is notified synchronously after every mutation of the wrong book.
type Observer func()

// Tracker is the per-question mastery state machine. A question enters the
// book on its first wrong answer; consecutive correct answers from then on
// drive the mastered flag, and any further wrong answer resets it.
type Tracker struct {
	mu        sync.RWMutex
	entries   map[string]Info
	observers []Observer
	flush     func()
	logger    *slog.Logger
}

// NewTracker creates an empty wrong-question tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		entries: make(map[string]Info),
		logger:  logger,
	}
}

// AddObserver registers an observer invoked synchronously on every mutation.
func (t *Tracker) AddObserver(o Observer) {
	t.mu.Lock()
	t.observers = append(t.observers, o)
	t.mu.Unlock()
}

// OnMutate registers the flush hook invoked after every mutation.
func (t *Tracker) OnMutate(f func()) {
	t.mu.Lock()
	t.flush = f
	t.mu.Unlock()
}

// RecordWrongAnswer creates or updates the entry for a question the learner
// just answered wrong. The consecutive-correct count and mastered flag are
// always reset; the entry is tagged with the given identity.
func (t *Tracker) RecordWrongAnswer(questionID string, identity exam.Identity) {
	t.mu.Lock()
	info, ok := t.entries[questionID]
	errorCount := 1
	if ok {
		errorCount = info.ErrorCount + 1
	}
	t.entries[questionID] = Info{
		QuestionID:         questionID,
		ErrorCount:         errorCount,
		LastErrorTime:      time.Now(),
		Mastered:           false,
		ConsecutiveCorrect: 0,
		ExamLevel:          identity.Level,
		ExamType:           identity.Type,
	}
	t.mu.Unlock()

	t.logger.Info("wrong answer recorded", "question_id", questionID, "error_count", errorCount)
	t.notify()
}

// RecordCorrectAnswer advances the mastery counter for a question already in
// the book. A correct answer to a question that never failed is a no-op:
// mastery tracking only applies after at least one error.
func (t *Tracker) RecordCorrectAnswer(questionID string) {
	t.mu.Lock()
	info, ok := t.entries[questionID]
	if !ok {
		t.mu.Unlock()
		return
	}
	info.ConsecutiveCorrect++
	info.Mastered = info.ConsecutiveCorrect >= MasteryThreshold
	t.entries[questionID] = info
	t.mu.Unlock()

	if info.Mastered {
		t.logger.Info("question mastered", "question_id", questionID)
	}
	t.notify()
}

// Remove deletes the entry entirely. Used when a question is deleted from
// the bank.
func (t *Tracker) Remove(questionID string) {
	t.mu.Lock()
	_, ok := t.entries[questionID]
	delete(t.entries, questionID)
	t.mu.Unlock()
	if !ok {
		return
	}
	t.notify()
}

// Get returns the entry for a question.
func (t *Tracker) Get(questionID string) (Info, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.entries[questionID]
	return info, ok
}

// Contains reports whether the question is in the wrong book.
func (t *Tracker) Contains(questionID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[questionID]
	return ok
}

// All returns every entry in unspecified order.
func (t *Tracker) All() []Info {
	return t.filter(func(Info) bool { return true })
}

// Unmastered returns the entries the learner has not yet mastered.
func (t *Tracker) Unmastered() []Info {
	return t.filter(func(i Info) bool { return !i.Mastered })
}

// Mastered returns the entries the learner has mastered.
func (t *Tracker) Mastered() []Info {
	return t.filter(func(i Info) bool { return i.Mastered })
}

// ForIdentity returns the entries tagged with exactly the given identity.
func (t *Tracker) ForIdentity(identity exam.Identity) []Info {
	return t.filter(func(i Info) bool {
		return i.ExamLevel == identity.Level && i.ExamType == identity.Type
	})
}

// Len returns the number of entries.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// ClearAll empties the wrong book.
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	t.entries = make(map[string]Info)
	t.mu.Unlock()

	t.logger.Info("wrong book cleared")
	t.notify()
}

// ReplaceAll swaps the full entry set in one step without notifying
// observers or scheduling a flush. Used by the persistence layer after a
// successful decode.
func (t *Tracker) ReplaceAll(entries []Info) {
	fresh := make(map[string]Info, len(entries))
	for _, e := range entries {
		fresh[e.QuestionID] = e
	}
	t.mu.Lock()
	t.entries = fresh
	t.mu.Unlock()
}

func (t *Tracker) filter(keep func(Info) bool) []Info {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Info, 0, len(t.entries))
	for _, info := range t.entries {
		if keep(info) {
			out = append(out, info)
		}
	}
	return out
}

func (t *Tracker) notify() {
	t.mu.RLock()
	observers := make([]Observer, len(t.observers))
	copy(observers, t.observers)
	f := t.flush
	t.mu.RUnlock()

	for _, o := range observers {
		o()
	}
	if f != nil {
		f()
	}
}
