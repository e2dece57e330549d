package quote

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval   = 30 * time.Second
	DefaultAckTimeout = 2 * time.Second
)

type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Event is delivered after every cycle, and once more when a manual acknowledgement expires.
type Event struct {
	Manual     bool
	Err        error
	AckExpired bool
}

// Scheduler runs a cycle right away, then on every interval counted from Start until Stop.
// Every cycle runs in its own goroutine, a slow cycle never delays the next tick.
// Cycles are not serialized against each other, whichever completes last decides what the store shows.
type Scheduler struct {
	runner     CycleRunner
	interval   time.Duration
	AckTimeout time.Duration
	onEvent    func(Event)

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  bool
	ackUntil time.Time
	ackTimer *time.Timer
	wg       sync.WaitGroup
}

func NewScheduler(runner CycleRunner, interval time.Duration, onEvent func(Event)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	return &Scheduler{runner: runner, interval: interval, AckTimeout: DefaultAckTimeout, onEvent: onEvent}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	ticker := time.NewTicker(s.interval)
	s.spawn(s.ctx, false)
	s.wg.Add(1)
	go s.loop(s.ctx, ticker)
}

func (s *Scheduler) loop(ctx context.Context, ticker *time.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.spawn(ctx, false)
		}
	}
}

// spawn runs one cycle tracked by wg, callers hold s.mu or run on the loop goroutine.
func (s *Scheduler) spawn(ctx context.Context, manual bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, manual)
	}()
}

// Trigger starts a manual cycle in the background, it is a no-op before Start or after Stop.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil || s.stopped {
		logrus.Debugln("Scheduler not running, ignoring manual refresh")
		return
	}
	s.spawn(s.ctx, true)
}

// Stop cancels the recurring trigger and any cycle in flight, then waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.ctx == nil || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	if s.ackTimer != nil {
		s.ackTimer.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Acknowledged reports whether a manual refresh succeeded within the last AckTimeout.
func (s *Scheduler) Acknowledged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Before(s.ackUntil)
}

func (s *Scheduler) run(ctx context.Context, manual bool) {
	trigger := "scheduled"
	if manual {
		trigger = "manual"
	}
	start := time.Now()
	err := s.runner.RunCycle(ctx)
	cycleLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		cycleTotal.WithLabelValues(trigger, outcomeError).Inc()
	} else {
		cycleTotal.WithLabelValues(trigger, outcomeSuccess).Inc()
	}
	if ctx.Err() != nil {
		return
	}

	if manual && err == nil {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.ackUntil = time.Now().Add(s.AckTimeout)
		if s.ackTimer != nil {
			s.ackTimer.Stop()
		}
		s.ackTimer = time.AfterFunc(s.AckTimeout, func() {
			if ctx.Err() == nil && !s.Acknowledged() {
				s.onEvent(Event{AckExpired: true})
			}
		})
		s.mu.Unlock()
	}
	s.onEvent(Event{Manual: manual, Err: err})
}
