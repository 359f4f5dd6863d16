package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
)

var (
	ErrNotAuthorized   = errors.New("scheduling not authorized")
	ErrUnknownAlarm    = errors.New("unknown alarm id")
	ErrNothingToFireOn = errors.New("schedule config has neither schedule nor countdown")
	ErrWrongState      = errors.New("alarm is in the wrong state for this operation")
)

// Scheduler is an in-process alarm subsystem. It owns the authoritative
// lifecycle state of every scheduled alarm, fires them at the right time and
// broadcasts a full state snapshot to subscribers after every change.
type Scheduler struct {
	mu          sync.Mutex
	interval    time.Duration
	auth        types.AuthorizationState
	alarms      map[string]*alarm
	order       []string
	subscribers []chan []types.ExternalAlarmState
	authSubs    []chan struct{}
}

type alarm struct {
	state     types.ExternalAlarmState
	cfg       types.ScheduleConfig
	fireAt    time.Time
	remaining time.Duration
	graceLeft time.Duration
}

func New() *Scheduler {
	return NewWithInterval(time.Second)
}

func NewWithInterval(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		auth:     types.AuthNotDetermined,
		alarms:   make(map[string]*alarm),
	}
}

// Run drives the scheduler clock until the context is cancelled. Each tick
// advances countdowns, grace periods and fire times by one second.
func (s *Scheduler) Run(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if fired := s.advance(time.Now()); len(fired) > 0 {
				for _, id := range fired {
					log.Info("alarm fired", slog.String("alarm_id", id))
				}
			}
		}
	}
}

func (s *Scheduler) AuthorizationState() types.AuthorizationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// RequestAuthorization always grants. The request is still explicit so that
// clients exercise the same flow they would against a real subsystem.
func (s *Scheduler) RequestAuthorization(ctx context.Context) (types.AuthorizationState, error) {
	s.mu.Lock()
	s.auth = types.AuthAuthorized
	subs := append([]chan struct{}{}, s.authSubs...)
	s.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- struct{}{}:
		default:
		}
	}

	return types.AuthAuthorized, nil
}

func (s *Scheduler) AuthorizationUpdates(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.authSubs = append(s.authSubs, ch)
	s.mu.Unlock()

	return ch
}

func (s *Scheduler) Alarms(ctx context.Context) ([]types.ExternalAlarmState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Updates returns a channel receiving a full snapshot after every state
// change. Slow consumers miss intermediate snapshots but never the final one.
func (s *Scheduler) Updates(ctx context.Context) <-chan []types.ExternalAlarmState {
	ch := make(chan []types.ExternalAlarmState, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	return ch
}

func (s *Scheduler) Schedule(ctx context.Context, alarmID string, cfg types.ScheduleConfig) (types.ExternalAlarmState, error) {
	s.mu.Lock()

	if s.auth != types.AuthAuthorized {
		s.mu.Unlock()
		return types.ExternalAlarmState{}, ErrNotAuthorized
	}

	if cfg.Schedule == nil && cfg.Countdown == nil {
		s.mu.Unlock()
		return types.ExternalAlarmState{}, ErrNothingToFireOn
	}

	a := &alarm{
		state: types.ExternalAlarmState{
			ID:        alarmID,
			Schedule:  cfg.Schedule,
			Countdown: cfg.Countdown,
		},
		cfg: cfg,
	}

	now := time.Now()

	if cfg.Schedule != nil {
		a.state.State = types.StateScheduled
		a.fireAt = nextOccurrence(now, *cfg.Schedule)
	} else {
		a.state.State = types.StateCountingDown
		a.remaining = cfg.Countdown.PreAlert
	}

	if _, exists := s.alarms[alarmID]; !exists {
		s.order = append(s.order, alarmID)
	}
	s.alarms[alarmID] = a

	state := a.state
	s.broadcastLocked()
	s.mu.Unlock()

	return state, nil
}

// Cancel removes an alarm entirely, whatever state it is in.
func (s *Scheduler) Cancel(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alarms[alarmID]; !ok {
		return ErrUnknownAlarm
	}

	s.removeLocked(alarmID)
	s.broadcastLocked()

	return nil
}

// Stop ends the current occurrence. Recurring alarms return to scheduled with
// a recomputed fire time, one-shot alarms are removed.
func (s *Scheduler) Stop(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alarms[alarmID]
	if !ok {
		return ErrUnknownAlarm
	}

	s.settleLocked(alarmID, a, time.Now())
	s.broadcastLocked()

	return nil
}

func (s *Scheduler) Pause(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alarms[alarmID]
	if !ok {
		return ErrUnknownAlarm
	}

	if a.state.State != types.StateCountingDown {
		return ErrWrongState
	}

	a.state.State = types.StatePaused
	s.broadcastLocked()

	return nil
}

func (s *Scheduler) Resume(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alarms[alarmID]
	if !ok {
		return ErrUnknownAlarm
	}

	if a.state.State != types.StatePaused {
		return ErrWrongState
	}

	a.state.State = types.StateCountingDown
	s.broadcastLocked()

	return nil
}

// advance moves all alarms one tick forward and returns the ids of alarms
// that started alerting.
func (s *Scheduler) advance(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fired := make([]string, 0)
	changed := false

	for _, id := range append([]string{}, s.order...) {
		a, ok := s.alarms[id]
		if !ok {
			continue
		}

		switch a.state.State {
		case types.StateScheduled:
			if !a.fireAt.After(now) {
				s.startAlertingLocked(a)
				fired = append(fired, id)
				changed = true
			}
		case types.StateCountingDown:
			a.remaining -= time.Second
			if a.remaining <= 0 {
				s.startAlertingLocked(a)
				fired = append(fired, id)
				changed = true
			}
		case types.StateAlerting:
			if a.graceLeft > 0 {
				a.graceLeft -= time.Second
				if a.graceLeft <= 0 {
					s.settleLocked(id, a, now)
					changed = true
				}
			}
		}
	}

	if changed {
		s.broadcastLocked()
	}

	return fired
}

func (s *Scheduler) startAlertingLocked(a *alarm) {
	a.state.State = types.StateAlerting
	a.remaining = 0

	if cd := a.state.Countdown; cd != nil {
		a.graceLeft = cd.PostAlert
	}
}

// settleLocked concludes the current occurrence of an alarm: recurring alarms
// go back to scheduled, everything else is removed.
func (s *Scheduler) settleLocked(alarmID string, a *alarm, now time.Time) {
	if a.state.Schedule != nil && a.state.Schedule.Recurring() {
		a.state.State = types.StateScheduled
		a.fireAt = nextOccurrence(now, *a.state.Schedule)
		a.graceLeft = 0
		return
	}

	s.removeLocked(alarmID)
}

func (s *Scheduler) removeLocked(alarmID string) {
	delete(s.alarms, alarmID)

	for i, id := range s.order {
		if id == alarmID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Scheduler) snapshotLocked() []types.ExternalAlarmState {
	snapshot := make([]types.ExternalAlarmState, 0, len(s.order))
	for _, id := range s.order {
		if a, ok := s.alarms[id]; ok {
			snapshot = append(snapshot, a.state)
		}
	}
	return snapshot
}

func (s *Scheduler) broadcastLocked() {
	snapshot := s.snapshotLocked()

	for _, sub := range s.subscribers {
		// drain a stale snapshot so the freshest one always fits
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- snapshot:
		default:
		}
	}
}

// nextOccurrence computes the next time an alarm with the given schedule
// should fire, strictly after now.
func nextOccurrence(now time.Time, sched types.Schedule) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), sched.Time.Hour, sched.Time.Minute, 0, 0, now.Location())

	if len(sched.Weekdays) == 0 {
		if candidate.After(now) {
			return candidate
		}
		return candidate.AddDate(0, 0, 1)
	}

	for day := 0; day < 8; day++ {
		c := candidate.AddDate(0, 0, day)
		if !c.After(now) {
			continue
		}
		for _, wd := range sched.Weekdays {
			if c.Weekday() == wd {
				return c
			}
		}
	}

	// unreachable with a non-empty weekday set
	return candidate.AddDate(0, 0, 7)
}
