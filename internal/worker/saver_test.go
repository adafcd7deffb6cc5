package worker_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lilulei/ruankao/internal/worker"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestBurstCoalescesIntoOneSave(t *testing.T) {
	var saves atomic.Int32
	s := worker.NewSaver(20*time.Millisecond, func() { saves.Add(1) }, nil)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Schedule()
	}

	waitFor(t, time.Second, func() bool { return saves.Load() >= 1 })
	time.Sleep(50 * time.Millisecond)
	if got := saves.Load(); got != 1 {
		t.Errorf("expected 1 coalesced save, got %d", got)
	}
}

func TestSeparateBurstsSaveSeparately(t *testing.T) {
	var saves atomic.Int32
	s := worker.NewSaver(10*time.Millisecond, func() { saves.Add(1) }, nil)
	defer s.Close()

	s.Schedule()
	waitFor(t, time.Second, func() bool { return saves.Load() == 1 })
	s.Schedule()
	waitFor(t, time.Second, func() bool { return saves.Load() == 2 })
}

func TestCloseFlushesPendingSave(t *testing.T) {
	var saves atomic.Int32
	s := worker.NewSaver(time.Hour, func() { saves.Add(1) }, nil)

	s.Schedule()
	s.Close()

	if got := saves.Load(); got != 1 {
		t.Errorf("Close must run the pending save, got %d", got)
	}
}

func TestCloseWithoutPendingSaveIsQuiet(t *testing.T) {
	var saves atomic.Int32
	s := worker.NewSaver(time.Hour, func() { saves.Add(1) }, nil)
	s.Close()
	s.Close() // second close is safe

	if got := saves.Load(); got != 0 {
		t.Errorf("nothing was scheduled, got %d saves", got)
	}
}

func TestZeroDelaySavesImmediately(t *testing.T) {
	var saves atomic.Int32
	s := worker.NewSaver(0, func() { saves.Add(1) }, nil)
	defer s.Close()

	s.Schedule()
	waitFor(t, time.Second, func() bool { return saves.Load() == 1 })
}
