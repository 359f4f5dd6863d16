package presentation

import (
	"testing"
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/matryer/is"
)

var now = time.Date(2023, 5, 2, 7, 30, 0, 0, time.UTC)

func countingDown(id string, preAlert time.Duration) types.ExternalAlarmState {
	return types.ExternalAlarmState{
		ID:        id,
		State:     types.StateCountingDown,
		Countdown: &types.Countdown{PreAlert: preAlert},
	}
}

func scheduled(id string, hour, minute int) types.ExternalAlarmState {
	return types.ExternalAlarmState{
		ID:       id,
		State:    types.StateScheduled,
		Schedule: &types.Schedule{Time: types.TimeOfDay{Hour: hour, Minute: minute}, Weekdays: types.EveryDay},
	}
}

func TestFirstObservationAlerting(t *testing.T) {
	is := is.New(t)

	mode := Derive(nil, types.ExternalAlarmState{ID: "a", State: types.StateAlerting}, nil, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModeAlert)
	is.Equal(*mode.Time, types.TimeOfDay{Hour: 7, Minute: 30})
}

func TestFirstObservationScheduled(t *testing.T) {
	is := is.New(t)

	mode := Derive(nil, scheduled("a", 6, 45), nil, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModeAlert)
	is.Equal(*mode.Time, types.TimeOfDay{Hour: 6, Minute: 45})
}

func TestFirstObservationScheduledWithoutScheduleHasNoPresentation(t *testing.T) {
	is := is.New(t)

	mode := Derive(nil, types.ExternalAlarmState{ID: "a", State: types.StateScheduled}, nil, now)

	is.Equal(mode, nil)
}

func TestFirstObservationCountingDown(t *testing.T) {
	is := is.New(t)

	mode := Derive(nil, countingDown("a", 300*time.Second), nil, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModeCountdown)
	is.Equal(mode.TotalDuration, 300*time.Second)
	is.Equal(mode.PreviouslyElapsed, time.Duration(0))
	is.Equal(*mode.StartedAt, now)
}

func TestFirstObservationCountingDownWithoutDescriptorHasNoPresentation(t *testing.T) {
	is := is.New(t)

	mode := Derive(nil, types.ExternalAlarmState{ID: "a", State: types.StateCountingDown}, nil, now)

	is.Equal(mode, nil)
}

func TestFirstObservationPaused(t *testing.T) {
	is := is.New(t)

	state := countingDown("a", 120*time.Second)
	state.State = types.StatePaused

	mode := Derive(nil, state, nil, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModePaused)
	is.Equal(mode.TotalDuration, 120*time.Second)
	is.Equal(mode.PreviouslyElapsed, time.Duration(0))
}

func TestUnchangedKeyFieldsLeaveModeUntouched(t *testing.T) {
	is := is.New(t)

	old := countingDown("a", 300*time.Second)
	mode := Derive(nil, old, nil, now)

	later := now.Add(10 * time.Second)
	next := Derive(&old, old, mode, later)

	is.Equal(next, mode)
}

func TestScheduledToCountingDownStartsFreshCountdown(t *testing.T) {
	is := is.New(t)

	old := scheduled("a", 7, 0)
	oldMode := Derive(nil, old, nil, now)

	next := countingDown("a", 300*time.Second)
	mode := Derive(&old, next, oldMode, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModeCountdown)
	is.Equal(mode.TotalDuration, 300*time.Second)
	is.Equal(mode.PreviouslyElapsed, time.Duration(0))
	is.Equal(*mode.StartedAt, now)
}

func TestCountingDownToPausedFreezesElapsed(t *testing.T) {
	is := is.New(t)

	old := countingDown("a", 300*time.Second)
	oldMode := Derive(nil, old, nil, now)

	next := old
	next.State = types.StatePaused

	later := now.Add(42 * time.Second)
	mode := Derive(&old, next, oldMode, later)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModePaused)
	is.Equal(mode.TotalDuration, 300*time.Second)
	is.Equal(mode.PreviouslyElapsed, 42*time.Second)
}

func TestPauseResumeConservesTotalDuration(t *testing.T) {
	is := is.New(t)

	old := countingDown("a", 300*time.Second)
	running := Derive(nil, old, nil, now)

	pausedState := old
	pausedState.State = types.StatePaused
	pausedAt := now.Add(17 * time.Second)
	paused := Derive(&old, pausedState, running, pausedAt)

	resumedAt := pausedAt.Add(5 * time.Second)
	resumed := Derive(&pausedState, old, paused, resumedAt)

	is.True(resumed != nil)
	is.Equal(resumed.Kind, types.ModeCountdown)
	is.Equal(resumed.TotalDuration, 300*time.Second)
	is.Equal(resumed.PreviouslyElapsed, 17*time.Second)
	is.Equal(*resumed.StartedAt, resumedAt)
}

func TestAnyTransitionToAlerting(t *testing.T) {
	is := is.New(t)

	for _, from := range []types.LifecycleState{types.StateScheduled, types.StateCountingDown, types.StatePaused} {
		old := countingDown("a", 60*time.Second)
		old.State = from

		next := old
		next.State = types.StateAlerting

		mode := Derive(&old, next, nil, now)

		is.True(mode != nil)
		is.Equal(mode.Kind, types.ModeAlert)
		is.Equal(*mode.Time, types.TimeOfDay{Hour: 7, Minute: 30})
	}
}

func TestTransitionBackToScheduledRecomputesAlert(t *testing.T) {
	is := is.New(t)

	old := countingDown("a", 60*time.Second)
	next := scheduled("a", 8, 15)

	mode := Derive(&old, next, nil, now)

	is.True(mode != nil)
	is.Equal(mode.Kind, types.ModeAlert)
	is.Equal(*mode.Time, types.TimeOfDay{Hour: 8, Minute: 15})
}

func TestUnlistedTransitionPairsAreNoOps(t *testing.T) {
	is := is.New(t)

	// pairs deliberately absent from the transition table keep the old mode
	pairs := []struct {
		from, to types.LifecycleState
	}{
		{types.StateAlerting, types.StateCountingDown},
		{types.StateAlerting, types.StatePaused},
		{types.StateScheduled, types.StatePaused},
		{types.StateCountingDown, types.StateCountingDown},
	}

	for _, p := range pairs {
		old := countingDown("a", 60*time.Second)
		old.State = p.from

		next := countingDown("a", 90*time.Second)
		next.State = p.to

		oldMode := types.PausedMode(60*time.Second, 10*time.Second)
		mode := Derive(&old, next, oldMode, now)

		is.Equal(mode, oldMode)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	is := is.New(t)

	old := scheduled("a", 7, 0)
	next := countingDown("a", 300*time.Second)
	oldMode := Derive(nil, old, nil, now)

	first := Derive(&old, next, oldMode, now)
	second := Derive(&old, next, oldMode, now)

	is.Equal(first.Kind, second.Kind)
	is.Equal(first.TotalDuration, second.TotalDuration)
	is.Equal(first.PreviouslyElapsed, second.PreviouslyElapsed)
	is.Equal(*first.StartedAt, *second.StartedAt)
}
