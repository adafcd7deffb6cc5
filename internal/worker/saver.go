package worker

import (
	"log/slog"
	"sync"
	"time"
)

// Saver coalesces bursts of mutation notifications into a single save call.
// Schedule arms (or re-arms) a countdown; the save function runs once the
// countdown elapses without another Schedule. Close flushes any pending save
// before returning, so shutdown never loses the last burst.
type Saver struct {
	delay  time.Duration
	save   func()
	logger *slog.Logger

	kick chan struct{}
	stop chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

// NewSaver starts the background save worker. A non-positive delay makes
// every Schedule save immediately.
func NewSaver(delay time.Duration, save func(), logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Saver{
		delay:  delay,
		save:   save,
		logger: logger,
		kick:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Schedule requests a save after the debounce delay. Calls while a save is
// already pending just push the deadline out; Schedule never blocks.
func (s *Saver) Schedule() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Close stops the worker, running one final save if one was pending.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *Saver) run() {
	defer close(s.done)

	timer := time.NewTimer(s.delay)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-s.kick:
			if pending && !timer.Stop() {
				<-timer.C
			}
			if s.delay <= 0 {
				pending = false
				s.save()
				continue
			}
			timer.Reset(s.delay)
			pending = true
		case <-timer.C:
			pending = false
			s.save()
		case <-s.stop:
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
				s.logger.Debug("flushing pending save on shutdown")
				s.save()
			}
			return
		}
	}
}
