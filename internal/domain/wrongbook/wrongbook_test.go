package wrongbook_test

import (
	"testing"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

var identity = exam.Identity{Level: exam.LevelSenior, Type: exam.TypeProjectManager}

func TestFirstWrongAnswerCreatesEntry(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)

	info, ok := tracker.Get("q1")
	if !ok {
		t.Fatal("expected entry after a wrong answer")
	}
	if info.ErrorCount != 1 {
		t.Errorf("expected error count 1, got %d", info.ErrorCount)
	}
	if info.Mastered || info.ConsecutiveCorrect != 0 {
		t.Error("fresh entry must be unmastered with zero consecutive correct")
	}
	if info.LastErrorTime.IsZero() {
		t.Error("expected last error time to be stamped")
	}
	if info.ExamLevel != identity.Level || info.ExamType != identity.Type {
		t.Error("entry must be tagged with the identity")
	}
}

func TestMasteryAfterThreeConsecutiveCorrect(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)

	for i := 1; i < wrongbook.MasteryThreshold; i++ {
		tracker.RecordCorrectAnswer("q1")
		if info, _ := tracker.Get("q1"); info.Mastered {
			t.Fatalf("mastered after %d correct answers, threshold is %d", i, wrongbook.MasteryThreshold)
		}
	}

	tracker.RecordCorrectAnswer("q1")
	info, _ := tracker.Get("q1")
	if !info.Mastered {
		t.Fatalf("expected mastered after %d consecutive correct answers", wrongbook.MasteryThreshold)
	}
	if info.ErrorCount != 1 {
		t.Errorf("mastery must not touch the error count, got %d", info.ErrorCount)
	}
}

func TestWrongAnswerResetsProgress(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)
	tracker.RecordCorrectAnswer("q1")
	tracker.RecordCorrectAnswer("q1")

	tracker.RecordWrongAnswer("q1", identity)

	info, _ := tracker.Get("q1")
	if info.ConsecutiveCorrect != 0 {
		t.Errorf("expected consecutive correct reset, got %d", info.ConsecutiveCorrect)
	}
	if info.Mastered {
		t.Error("a wrong answer must clear mastery")
	}
	if info.ErrorCount != 2 {
		t.Errorf("expected error count 2, got %d", info.ErrorCount)
	}
}

func TestWrongAnswerAfterMasteryResetsIt(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)
	for i := 0; i < wrongbook.MasteryThreshold; i++ {
		tracker.RecordCorrectAnswer("q1")
	}

	tracker.RecordWrongAnswer("q1", identity)
	if info, _ := tracker.Get("q1"); info.Mastered {
		t.Error("mastery must be revoked by a new wrong answer")
	}
}

func TestCorrectAnswerWithoutEntryIsNoOp(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordCorrectAnswer("never-failed")

	if tracker.Contains("never-failed") {
		t.Error("a correct answer must not create a wrong-book entry")
	}
}

func TestFilters(t *testing.T) {
	other := exam.Identity{Level: exam.LevelJunior, Type: exam.TypeProgrammer}
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)
	tracker.RecordWrongAnswer("q2", identity)
	tracker.RecordWrongAnswer("q3", other)
	for i := 0; i < wrongbook.MasteryThreshold; i++ {
		tracker.RecordCorrectAnswer("q1")
	}

	if got := len(tracker.Mastered()); got != 1 {
		t.Errorf("expected 1 mastered entry, got %d", got)
	}
	if got := len(tracker.Unmastered()); got != 2 {
		t.Errorf("expected 2 unmastered entries, got %d", got)
	}
	if got := len(tracker.ForIdentity(identity)); got != 2 {
		t.Errorf("expected 2 entries for the identity, got %d", got)
	}
	if got := len(tracker.ForIdentity(other)); got != 1 {
		t.Errorf("expected 1 entry for the other identity, got %d", got)
	}
}

func TestObserversFireOnMutation(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	calls := 0
	tracker.AddObserver(func() { calls++ })

	tracker.RecordWrongAnswer("q1", identity)
	tracker.RecordCorrectAnswer("q1")
	tracker.Remove("q1")
	tracker.Remove("q1") // gone already, no notification

	if calls != 3 {
		t.Errorf("expected 3 notifications, got %d", calls)
	}
}

func TestClearAll(t *testing.T) {
	tracker := wrongbook.NewTracker(nil)
	tracker.RecordWrongAnswer("q1", identity)
	tracker.RecordWrongAnswer("q2", identity)

	tracker.ClearAll()
	if tracker.Len() != 0 {
		t.Errorf("expected empty tracker, got %d entries", tracker.Len())
	}
}
