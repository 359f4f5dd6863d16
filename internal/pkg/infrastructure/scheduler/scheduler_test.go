package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/matryer/is"
)

func authorized(t *testing.T, s *Scheduler) {
	t.Helper()

	state, err := s.RequestAuthorization(context.Background())
	if err != nil || state != types.AuthAuthorized {
		t.Fatalf("could not authorize: %v", err)
	}
}

func TestSchedulingRequiresAuthorization(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()

	is.Equal(s.AuthorizationState(), types.AuthNotDetermined)

	_, err := s.Schedule(ctx, "a", types.ScheduleConfig{Countdown: &types.Countdown{PreAlert: time.Minute}})
	is.Equal(err, ErrNotAuthorized)

	authorized(t, s)
	is.Equal(s.AuthorizationState(), types.AuthAuthorized)

	_, err = s.Schedule(ctx, "a", types.ScheduleConfig{Countdown: &types.Countdown{PreAlert: time.Minute}})
	is.NoErr(err)
}

func TestAuthorizationUpdateIsDelivered(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()

	updates := s.AuthorizationUpdates(ctx)
	authorized(t, s)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("no authorization update received")
	}

	is.Equal(s.AuthorizationState(), types.AuthAuthorized)
}

func TestCountdownAlarmStartsCountingDownImmediately(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	state, err := s.Schedule(ctx, "timer", types.ScheduleConfig{
		Countdown: &types.Countdown{PreAlert: 300 * time.Second},
		Title:     "Tea",
	})
	is.NoErr(err)
	is.Equal(state.State, types.StateCountingDown)

	reported, err := s.Alarms(ctx)
	is.NoErr(err)
	is.Equal(len(reported), 1)
	is.Equal(reported[0].ID, "timer")
}

func TestScheduledAlarmGetsAFutureFireTime(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	state, err := s.Schedule(ctx, "wakeup", types.ScheduleConfig{
		Schedule: &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay},
	})
	is.NoErr(err)
	is.Equal(state.State, types.StateScheduled)
}

func TestScheduleWithoutTriggerIsRejected(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	_, err := s.Schedule(ctx, "empty", types.ScheduleConfig{Title: "nothing"})
	is.Equal(err, ErrNothingToFireOn)
}

func TestCountdownRunsToAlertingAndExpires(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewWithInterval(5 * time.Millisecond)
	authorized(t, s)
	go s.Run(ctx)

	// a long grace period keeps the alarm observable while alerting
	_, err := s.Schedule(ctx, "timer", types.ScheduleConfig{
		Countdown: &types.Countdown{PreAlert: 2 * time.Second, PostAlert: time.Hour},
	})
	is.NoErr(err)

	deadline := time.Now().Add(2 * time.Second)
	for {
		reported, err := s.Alarms(ctx)
		is.NoErr(err)

		if len(reported) == 1 && reported[0].State == types.StateAlerting {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timer never started alerting")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// stopping a one-shot alarm removes it
	err = s.Stop(ctx, "timer")
	is.NoErr(err)

	reported, err := s.Alarms(ctx)
	is.NoErr(err)
	is.Equal(len(reported), 0)
}

func TestPauseFreezesCountdown(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewWithInterval(5 * time.Millisecond)
	authorized(t, s)
	go s.Run(ctx)

	_, err := s.Schedule(ctx, "timer", types.ScheduleConfig{
		Countdown: &types.Countdown{PreAlert: time.Hour},
	})
	is.NoErr(err)

	err = s.Pause(ctx, "timer")
	is.NoErr(err)

	reported, _ := s.Alarms(ctx)
	is.Equal(reported[0].State, types.StatePaused)

	// paused alarms do not advance
	time.Sleep(50 * time.Millisecond)

	reported, _ = s.Alarms(ctx)
	is.Equal(reported[0].State, types.StatePaused)

	err = s.Resume(ctx, "timer")
	is.NoErr(err)

	reported, _ = s.Alarms(ctx)
	is.Equal(reported[0].State, types.StateCountingDown)
}

func TestResumeRequiresPausedState(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	_, err := s.Schedule(ctx, "timer", types.ScheduleConfig{
		Countdown: &types.Countdown{PreAlert: time.Hour},
	})
	is.NoErr(err)

	err = s.Resume(ctx, "timer")
	is.Equal(err, ErrWrongState)
}

func TestStopRemovesOneShotAndReschedulesRecurring(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	_, err := s.Schedule(ctx, "timer", types.ScheduleConfig{
		Countdown: &types.Countdown{PreAlert: time.Hour},
	})
	is.NoErr(err)

	_, err = s.Schedule(ctx, "wakeup", types.ScheduleConfig{
		Schedule: &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay},
	})
	is.NoErr(err)

	err = s.Stop(ctx, "timer")
	is.NoErr(err)

	err = s.Stop(ctx, "wakeup")
	is.NoErr(err)

	reported, _ := s.Alarms(ctx)
	is.Equal(len(reported), 1)
	is.Equal(reported[0].ID, "wakeup")
	is.Equal(reported[0].State, types.StateScheduled)
}

func TestCancelRemovesAlarm(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()
	authorized(t, s)

	_, err := s.Schedule(ctx, "wakeup", types.ScheduleConfig{
		Schedule: &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay},
	})
	is.NoErr(err)

	err = s.Cancel(ctx, "wakeup")
	is.NoErr(err)

	reported, _ := s.Alarms(ctx)
	is.Equal(len(reported), 0)

	err = s.Cancel(ctx, "wakeup")
	is.Equal(err, ErrUnknownAlarm)
}

func TestNextOccurrence(t *testing.T) {
	is := is.New(t)

	// a wednesday at noon
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	// later the same day
	next := nextOccurrence(now, types.Schedule{Time: types.TimeOfDay{Hour: 18, Minute: 30}, Weekdays: types.EveryDay})
	is.Equal(next, time.Date(2025, 3, 5, 18, 30, 0, 0, time.UTC))

	// earlier time of day rolls over to the next day
	next = nextOccurrence(now, types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay})
	is.Equal(next, time.Date(2025, 3, 6, 7, 0, 0, 0, time.UTC))

	// weekend-only schedule skips to saturday
	next = nextOccurrence(now, types.Schedule{Time: types.TimeOfDay{Hour: 9, Minute: 0}, Weekdays: types.WeekendGroup})
	is.Equal(next, time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC))

	// one-shot with no weekdays fires at the next matching time of day
	next = nextOccurrence(now, types.Schedule{Time: types.TimeOfDay{Hour: 11, Minute: 0}})
	is.Equal(next, time.Date(2025, 3, 6, 11, 0, 0, 0, time.UTC))
}
