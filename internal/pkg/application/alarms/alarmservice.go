package alarms

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/countdown"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/presentation"
	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("wakeup-alarm-mgmt/alarms")

// Keys under which the two persisted collections are stored.
const (
	ActiveAlarmsKey = "activeAlarms"
	RecentAlarmsKey = "recentAlarms"
)

//go:generate moq -rm -out alarmscheduler_mock.go . AlarmScheduler

// AlarmScheduler is the contract of the external alarm subsystem. It is the
// authoritative source of alarm lifecycle state and the only component that
// actually fires alarms.
type AlarmScheduler interface {
	Alarms(ctx context.Context) ([]types.ExternalAlarmState, error)
	Updates(ctx context.Context) <-chan []types.ExternalAlarmState

	AuthorizationState() types.AuthorizationState
	AuthorizationUpdates(ctx context.Context) <-chan struct{}
	RequestAuthorization(ctx context.Context) (types.AuthorizationState, error)

	Schedule(ctx context.Context, alarmID string, cfg types.ScheduleConfig) (types.ExternalAlarmState, error)
	Cancel(ctx context.Context, alarmID string) error
	Stop(ctx context.Context, alarmID string) error
	Pause(ctx context.Context, alarmID string) error
	Resume(ctx context.Context, alarmID string) error
}

//go:generate moq -rm -out collectionstore_mock.go . CollectionStore

// CollectionStore persists the active and recent alarm collections as two
// independent blobs.
type CollectionStore interface {
	SaveCollection(ctx context.Context, key string, records []types.AlarmRecord) error
	LoadCollection(ctx context.Context, key string) ([]types.AlarmRecord, error)
}

type AlarmService interface {
	Start(ctx context.Context) error
	Reset(ctx context.Context)

	CreateWakeUpAlarm(ctx context.Context, prefs types.WakeUpPreferences) ([]types.AlarmRecord, error)
	CreateTimer(ctx context.Context, title string, duration time.Duration, metadata *types.AlarmMetadata) (types.AlarmRecord, error)
	RestartRecentTimer(ctx context.Context, alarmID string) (types.AlarmRecord, error)
	CreateBackupTimer(ctx context.Context, alarmID string, duration time.Duration) (types.AlarmRecord, error)
	StopAlarm(ctx context.Context, alarmID string) error
	PauseAlarm(ctx context.Context, alarmID string) error
	ResumeAlarm(ctx context.Context, alarmID string) error
	DeleteAlarm(ctx context.Context, alarmID string) error

	ActiveAlarms(ctx context.Context) []types.AlarmRecord
	RecentAlarms(ctx context.Context) []types.AlarmRecord
	WakeUpAlarms(ctx context.Context) []types.AlarmRecord
	StepBasedAlarms(ctx context.Context) []types.AlarmRecord
	LocationBasedAlarms(ctx context.Context) []types.AlarmRecord
	ActiveTimers(ctx context.Context) []types.AlarmRecord
	RecentTimers(ctx context.Context) []types.AlarmRecord
	AlertingAlarm(ctx context.Context) (types.AlarmRecord, bool)
	CountdownTimeRemaining(ctx context.Context, alarmID string) (time.Duration, bool)

	RegisterTopicMessageHandlers(ctx context.Context) error
}

func New(store CollectionStore, scheduler AlarmScheduler, messenger messaging.MsgContext, tracker *countdown.Tracker, cfg *Config) AlarmService {
	if cfg == nil {
		cfg = &Config{}
	}

	return &svc{
		store:     store,
		scheduler: scheduler,
		messenger: messenger,
		tracker:   tracker,
		cfg:       cfg,
	}
}

func (s *svc) RegisterTopicMessageHandlers(ctx context.Context) error {
	err := s.messenger.RegisterTopicMessageHandler("alarms.cmd.stop", NewStopAlarmCommandHandler(s))
	if err != nil {
		return err
	}

	err = s.messenger.RegisterTopicMessageHandler("alarms.cmd.pause", NewPauseAlarmCommandHandler(s))
	if err != nil {
		return err
	}

	return s.messenger.RegisterTopicMessageHandler("alarms.cmd.resume", NewResumeAlarmCommandHandler(s))
}

func (s *svc) CreateWakeUpAlarm(ctx context.Context, prefs types.WakeUpPreferences) ([]types.AlarmRecord, error) {
	pairs, err := wakeUpPairs(prefs)
	if err != nil {
		return nil, err
	}

	metadata := types.AlarmMetadata{
		Title:          prefs.Title,
		WakeUpMethod:   prefs.WakeUpMethod,
		TargetSteps:    prefs.TargetSteps,
		TargetLocation: prefs.TargetLocation,
		GracePeriod:    prefs.GracePeriod,
		Motivation:     prefs.Motivation,
		CreatedAt:      time.Now().UTC(),
	}

	created := make([]types.AlarmRecord, 0, len(pairs))

	for _, pair := range pairs {
		err := s.ensureAuthorized(ctx)
		if err != nil {
			return created, err
		}

		var cd *types.Countdown
		if prefs.GracePeriod > 0 {
			cd = &types.Countdown{PostAlert: prefs.GracePeriod}
		}

		cfg := types.ScheduleConfig{
			Schedule:        &types.Schedule{Time: pair.timeOfDay, Weekdays: pair.weekdays},
			Countdown:       cd,
			Title:           prefs.Title,
			StopButton:      types.AlarmButton{Label: "Stop"},
			SecondaryButton: secondaryButton(prefs.Motivation),
		}

		alarmID := uuid.NewString()

		state, err := s.scheduler.Schedule(ctx, alarmID, cfg)
		if err != nil {
			return created, fmt.Errorf("could not schedule wake-up alarm: %w", err)
		}

		rec := s.admit(ctx, alarmID, metadata, state)
		created = append(created, rec)
	}

	return created, nil
}

func (s *svc) CreateTimer(ctx context.Context, title string, duration time.Duration, metadata *types.AlarmMetadata) (types.AlarmRecord, error) {
	if duration <= 0 {
		return types.AlarmRecord{}, ErrInvalidTime
	}

	md := types.AlarmMetadata{Title: title, WakeUpMethod: types.WakeUpMethodNone, Motivation: types.MotivationNone}
	if metadata != nil {
		md = *metadata
	}
	md.Title = title
	md.TimerDuration = duration
	md.CreatedAt = time.Now().UTC()

	return s.scheduleTimer(ctx, md, true)
}

func (s *svc) RestartRecentTimer(ctx context.Context, alarmID string) (types.AlarmRecord, error) {
	s.mu.Lock()
	rec, ok := findByID(s.recent, alarmID)
	s.mu.Unlock()

	if !ok || rec.Metadata.TimerDuration <= 0 {
		return types.AlarmRecord{}, ErrInvalidTime
	}

	return s.CreateTimer(ctx, rec.Metadata.Title, rec.Metadata.TimerDuration, &rec.Metadata)
}

func (s *svc) CreateBackupTimer(ctx context.Context, alarmID string, duration time.Duration) (types.AlarmRecord, error) {
	s.mu.Lock()
	rec, ok := findByID(s.active, alarmID)
	s.mu.Unlock()

	if !ok {
		return types.AlarmRecord{}, ErrInvalidTime
	}

	if duration <= 0 {
		duration = s.cfg.backupTimerDuration()
	}

	md := rec.Metadata
	md.Title = fmt.Sprintf("Backup: %s", rec.Metadata.Title)
	md.TimerDuration = duration
	md.CreatedAt = time.Now().UTC()

	return s.scheduleTimer(ctx, md, false)
}

func (s *svc) StopAlarm(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	rec, ok := findByID(s.active, alarmID)
	s.mu.Unlock()

	if !ok {
		return ErrInvalidTime
	}

	now := time.Now().UTC()

	if rec.OneShot() {
		err := s.scheduler.Cancel(ctx, alarmID)
		if err != nil {
			return fmt.Errorf("could not cancel alarm: %w", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.retireLocked(ctx, rec, now)
		s.active = removeByID(s.active, alarmID)
		s.persistLocked(ctx)

		return nil
	}

	err := s.scheduler.Stop(ctx, alarmID)
	if err != nil {
		return fmt.Errorf("could not stop alarm: %w", err)
	}

	// optimistic; the next confirmed update for this identity is authoritative
	next := rec.External
	next.State = types.StateScheduled

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyStateLocked(ctx, next, now)
	s.persistLocked(ctx)

	return nil
}

func (s *svc) PauseAlarm(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	rec, ok := findByID(s.active, alarmID)
	s.mu.Unlock()

	if !ok || rec.External.State != types.StateCountingDown || rec.External.Countdown == nil {
		return ErrInvalidTime
	}

	err := s.scheduler.Pause(ctx, alarmID)
	if err != nil {
		return fmt.Errorf("could not pause alarm: %w", err)
	}

	next := rec.External
	next.State = types.StatePaused

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyStateLocked(ctx, next, time.Now().UTC())
	s.persistLocked(ctx)

	return nil
}

func (s *svc) ResumeAlarm(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	rec, ok := findByID(s.active, alarmID)
	s.mu.Unlock()

	if !ok || rec.External.State != types.StatePaused || rec.External.Countdown == nil {
		return ErrInvalidTime
	}

	err := s.scheduler.Resume(ctx, alarmID)
	if err != nil {
		return fmt.Errorf("could not resume alarm: %w", err)
	}

	next := rec.External
	next.State = types.StateCountingDown

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyStateLocked(ctx, next, time.Now().UTC())
	s.persistLocked(ctx)

	return nil
}

func (s *svc) DeleteAlarm(ctx context.Context, alarmID string) error {
	s.mu.Lock()
	rec, active := findByID(s.active, alarmID)
	_, recent := findByID(s.recent, alarmID)
	s.mu.Unlock()

	if active {
		err := s.scheduler.Cancel(ctx, alarmID)
		if err != nil {
			return fmt.Errorf("could not cancel alarm: %w", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.tracker.Stop(alarmID)
		if s.alertingID == alarmID {
			s.alertingID = ""
		}

		s.active = removeByID(s.active, alarmID)
		if rec.OneShot() {
			// non-recurring deletions stay around as history
			rec.Presentation = nil
			rec.Recent = true
			s.recent = append([]types.AlarmRecord{rec}, removeByID(s.recent, alarmID)...)
		}
		s.persistLocked(ctx)

		return nil
	}

	if recent {
		// no external call needed, the subsystem no longer knows this identity
		s.mu.Lock()
		defer s.mu.Unlock()

		s.recent = removeByID(s.recent, alarmID)
		s.persistLocked(ctx)

		return nil
	}

	return ErrInvalidTime
}

func (s *svc) ActiveAlarms(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.AlarmRecord{}, s.active...)
}

func (s *svc) RecentAlarms(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.AlarmRecord{}, s.recent...)
}

func (s *svc) WakeUpAlarms(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.active, func(r types.AlarmRecord, _ int) bool {
		return !r.IsTimer()
	})
}

func (s *svc) StepBasedAlarms(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.active, func(r types.AlarmRecord, _ int) bool {
		return r.Metadata.WakeUpMethod == types.WakeUpMethodSteps
	})
}

func (s *svc) LocationBasedAlarms(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.active, func(r types.AlarmRecord, _ int) bool {
		return r.Metadata.WakeUpMethod == types.WakeUpMethodLocation
	})
}

func (s *svc) ActiveTimers(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.active, func(r types.AlarmRecord, _ int) bool {
		return r.IsTimer()
	})
}

func (s *svc) RecentTimers(ctx context.Context) []types.AlarmRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.recent, func(r types.AlarmRecord, _ int) bool {
		return r.IsTimer()
	})
}

func (s *svc) AlertingAlarm(ctx context.Context) (types.AlarmRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alertingID == "" {
		return types.AlarmRecord{}, false
	}

	return findByID(s.active, s.alertingID)
}

func (s *svc) CountdownTimeRemaining(ctx context.Context, alarmID string) (time.Duration, bool) {
	return s.tracker.Remaining(alarmID)
}

// scheduleTimer schedules a one-shot countdown-only alarm and admits the
// resulting record. When keepRecentCopy is set, a presentation-free copy with
// its own identity is appended to the recent collection for one-tap restart.
func (s *svc) scheduleTimer(ctx context.Context, md types.AlarmMetadata, keepRecentCopy bool) (types.AlarmRecord, error) {
	err := s.ensureAuthorized(ctx)
	if err != nil {
		return types.AlarmRecord{}, err
	}

	cfg := types.ScheduleConfig{
		Countdown:       &types.Countdown{PreAlert: md.TimerDuration, PostAlert: md.GracePeriod},
		Title:           md.Title,
		StopButton:      types.AlarmButton{Label: "Stop"},
		SecondaryButton: secondaryButton(md.Motivation),
	}

	alarmID := uuid.NewString()

	state, err := s.scheduler.Schedule(ctx, alarmID, cfg)
	if err != nil {
		return types.AlarmRecord{}, fmt.Errorf("could not schedule timer: %w", err)
	}

	rec := s.admit(ctx, alarmID, md, state)

	if keepRecentCopy {
		s.mu.Lock()
		cp := rec
		cp.ID = uuid.NewString()
		cp.External.ID = cp.ID
		cp.Presentation = nil
		cp.Recent = true
		s.recent = append([]types.AlarmRecord{cp}, s.recent...)
		s.persistLocked(ctx)
		s.mu.Unlock()
	}

	return rec, nil
}

// admit wraps a freshly scheduled external state in a record, derives its
// initial presentation and inserts it at the front of the active collection.
func (s *svc) admit(ctx context.Context, alarmID string, md types.AlarmMetadata, state types.ExternalAlarmState) types.AlarmRecord {
	now := time.Now().UTC()

	rec := types.AlarmRecord{
		ID:           alarmID,
		Metadata:     md,
		External:     state,
		Presentation: presentation.Derive(nil, state, nil, now),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = removeByID(s.recent, alarmID)
	s.active = append([]types.AlarmRecord{rec}, removeByID(s.active, alarmID)...)
	s.enterStateLocked(ctx, nil, &rec, now)
	s.persistLocked(ctx)

	return rec
}

func (s *svc) ensureAuthorized(ctx context.Context) error {
	switch s.scheduler.AuthorizationState() {
	case types.AuthAuthorized:
		return nil
	case types.AuthDenied:
		return ErrNotAuthorized
	case types.AuthNotDetermined:
		result, err := s.scheduler.RequestAuthorization(ctx)
		if err != nil {
			return fmt.Errorf("authorization request failed: %w", err)
		}
		if result != types.AuthAuthorized {
			return ErrNotAuthorized
		}
		return nil
	}

	return ErrUnknownAuthState
}

type wakeUpPair struct {
	timeOfDay types.TimeOfDay
	weekdays  []time.Weekday
}

// wakeUpPairs expands preferences into one schedule pair per configured
// time-of-day x weekday-set. The everyday time excludes all other settings.
func wakeUpPairs(prefs types.WakeUpPreferences) ([]wakeUpPair, error) {
	pairs := make([]wakeUpPair, 0, 3)

	if prefs.EverydayTime != nil {
		if prefs.WeekdaysTime != nil || prefs.WeekendsTime != nil || len(prefs.DayTimes) > 0 {
			return nil, ErrInvalidTime
		}
		pairs = append(pairs, wakeUpPair{timeOfDay: *prefs.EverydayTime, weekdays: types.EveryDay})
	} else {
		if prefs.WeekdaysTime != nil {
			pairs = append(pairs, wakeUpPair{timeOfDay: *prefs.WeekdaysTime, weekdays: types.WeekdayGroup})
		}
		if prefs.WeekendsTime != nil {
			pairs = append(pairs, wakeUpPair{timeOfDay: *prefs.WeekendsTime, weekdays: types.WeekendGroup})
		}
		for _, dt := range prefs.DayTimes {
			pairs = append(pairs, wakeUpPair{timeOfDay: dt.Time, weekdays: []time.Weekday{dt.Day}})
		}
	}

	if len(pairs) == 0 {
		return nil, ErrNoWakeUpTimeConfigured
	}

	for _, p := range pairs {
		if !p.timeOfDay.Valid() {
			return nil, ErrInvalidTime
		}
	}

	return pairs, nil
}

func secondaryButton(m types.MotivationMethod) *types.AlarmButton {
	switch m {
	case types.MotivationNoise:
		return &types.AlarmButton{Label: "Silence"}
	case types.MotivationPhoneLock:
		return &types.AlarmButton{Label: "Unlock"}
	case types.MotivationMonetary:
		return &types.AlarmButton{Label: "Pay up"}
	}

	return nil
}

func findByID(records []types.AlarmRecord, alarmID string) (types.AlarmRecord, bool) {
	for _, r := range records {
		if r.ID == alarmID {
			return r, true
		}
	}
	return types.AlarmRecord{}, false
}

func removeByID(records []types.AlarmRecord, alarmID string) []types.AlarmRecord {
	return lo.Filter(records, func(r types.AlarmRecord, _ int) bool {
		return r.ID != alarmID
	})
}
