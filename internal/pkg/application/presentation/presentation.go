package presentation

import (
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
)

// Derive computes the next presentation mode for an alarm from the previous
// and current externally reported states. It is a pure function of its
// arguments; callers own the clock reading.
//
// Precedence: first observation rules apply when oldState is nil, unchanged
// key fields leave the mode untouched, and only the transition pairs handled
// below change the mode. Every other lifecycle pair is a deliberate no-op.
func Derive(oldState *types.ExternalAlarmState, newState types.ExternalAlarmState, oldMode *types.PresentationMode, now time.Time) *types.PresentationMode {
	if oldState == nil {
		return deriveInitial(newState, now)
	}

	if oldState.KeyFieldsEqual(newState) {
		return oldMode
	}

	switch newState.State {
	case types.StateAlerting:
		return types.AlertMode(types.TimeOfDayFrom(now))

	case types.StateScheduled:
		if newState.Schedule == nil {
			return nil
		}
		return types.AlertMode(newState.Schedule.Time)

	case types.StateCountingDown:
		if oldState.State == types.StatePaused {
			return resume(newState, oldMode, now)
		}
		if oldState.State == types.StateScheduled {
			if newState.Countdown == nil {
				return oldMode
			}
			return types.CountdownMode(newState.Countdown.PreAlert, 0, now)
		}
		return oldMode

	case types.StatePaused:
		if oldState.State == types.StateCountingDown {
			return freeze(newState, oldMode, now)
		}
		return oldMode
	}

	return oldMode
}

func deriveInitial(state types.ExternalAlarmState, now time.Time) *types.PresentationMode {
	switch state.State {
	case types.StateAlerting:
		return types.AlertMode(types.TimeOfDayFrom(now))
	case types.StateScheduled:
		if state.Schedule == nil {
			return nil
		}
		return types.AlertMode(state.Schedule.Time)
	case types.StateCountingDown:
		if state.Countdown == nil {
			return nil
		}
		return types.CountdownMode(state.Countdown.PreAlert, 0, now)
	case types.StatePaused:
		if state.Countdown == nil {
			return nil
		}
		return types.PausedMode(state.Countdown.PreAlert, 0)
	}

	return nil
}

// freeze converts a running countdown into a paused mode, preserving the total
// duration and accumulating the elapsed time up to now.
func freeze(state types.ExternalAlarmState, oldMode *types.PresentationMode, now time.Time) *types.PresentationMode {
	if oldMode != nil && oldMode.Kind == types.ModeCountdown && oldMode.StartedAt != nil {
		elapsed := now.Sub(*oldMode.StartedAt) + oldMode.PreviouslyElapsed
		return types.PausedMode(oldMode.TotalDuration, elapsed)
	}

	if state.Countdown != nil {
		return types.PausedMode(state.Countdown.PreAlert, 0)
	}

	return oldMode
}

// resume restarts a paused countdown, carrying the previously elapsed time
// forward so the total duration stays stable across a pause/resume cycle.
func resume(state types.ExternalAlarmState, oldMode *types.PresentationMode, now time.Time) *types.PresentationMode {
	if oldMode != nil && oldMode.Kind == types.ModePaused {
		return types.CountdownMode(oldMode.TotalDuration, oldMode.PreviouslyElapsed, now)
	}

	if state.Countdown != nil {
		return types.CountdownMode(state.Countdown.PreAlert, 0, now)
	}

	return oldMode
}
