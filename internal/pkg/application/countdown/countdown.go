package countdown

import (
	"sync"
	"time"
)

// Tracker maintains a locally owned "time remaining" value per alarm identity,
// decoupled from whatever countdown the external subsystem runs. Each tick
// represents one second of countdown; the tick interval is only configurable
// so that tests can compress time.
type Tracker struct {
	mu       sync.Mutex
	interval time.Duration
	tracked  map[string]*tracked
}

type tracked struct {
	remaining time.Duration
	// done is non-nil while a ticking task is running for this identity and
	// doubles as that task's identity: a stale task that no longer matches
	// stops itself.
	done chan struct{}
}

func New() *Tracker {
	return NewWithInterval(time.Second)
}

func NewWithInterval(interval time.Duration) *Tracker {
	return &Tracker{
		interval: interval,
		tracked:  make(map[string]*tracked),
	}
}

// Start begins tracking the given duration for an identity. Any previous
// ticking task for the same identity is cancelled first, so at most one task
// per identity is ever active.
func (t *Tracker) Start(alarmID string, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.tracked[alarmID]; ok && existing.done != nil {
		close(existing.done)
	}

	if duration <= 0 {
		delete(t.tracked, alarmID)
		return
	}

	entry := &tracked{remaining: duration, done: make(chan struct{})}
	t.tracked[alarmID] = entry

	go t.run(alarmID, entry.done)
}

// Pause cancels the ticking task but retains the last remaining value.
func (t *Tracker) Pause(alarmID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.tracked[alarmID]; ok && entry.done != nil {
		close(entry.done)
		entry.done = nil
	}
}

// Resume restarts ticking from the retained remaining value, or stops tracking
// the identity if nothing remains.
func (t *Tracker) Resume(alarmID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.tracked[alarmID]
	if !ok {
		return
	}

	if entry.remaining <= 0 {
		delete(t.tracked, alarmID)
		return
	}

	if entry.done != nil {
		return
	}

	entry.done = make(chan struct{})
	go t.run(alarmID, entry.done)
}

// Stop cancels ticking and discards the retained value.
func (t *Tracker) Stop(alarmID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.tracked[alarmID]; ok {
		if entry.done != nil {
			close(entry.done)
		}
		delete(t.tracked, alarmID)
	}
}

// StopAll discards every tracked identity.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, entry := range t.tracked {
		if entry.done != nil {
			close(entry.done)
		}
		delete(t.tracked, id)
	}
}

// Remaining returns the current remaining duration for an identity, if any.
func (t *Tracker) Remaining(alarmID string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.tracked[alarmID]
	if !ok {
		return 0, false
	}

	return entry.remaining, true
}

func (t *Tracker) run(alarmID string, done <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if t.tick(alarmID, done) {
				return
			}
		}
	}
}

// tick decrements one second of remaining time and reports whether the task
// should stop, either because the countdown reached zero or because it has
// been superseded.
func (t *Tracker) tick(alarmID string, done <-chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.tracked[alarmID]
	if !ok || entry.done == nil || (<-chan struct{})(entry.done) != done {
		return true
	}

	entry.remaining -= time.Second
	if entry.remaining <= 0 {
		entry.remaining = 0
		entry.done = nil
		return true
	}

	return false
}
