package alarms

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/matryer/is"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatal("condition never met within deadline")
}

func publishedTopics(e *env) []string {
	topics := make([]string, 0)
	for _, call := range e.messenger.PublishOnTopicCalls() {
		topics = append(topics, call.Message.TopicName())
	}
	return topics
}

func TestStartMergesPersistedRecordsWithReportedState(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	sched := &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay}

	e := setup(t,
		[]types.ExternalAlarmState{
			{ID: "a", State: types.StateScheduled, Schedule: sched},
		},
		map[string][]types.AlarmRecord{
			ActiveAlarmsKey: {
				{
					ID:       "a",
					Metadata: types.AlarmMetadata{Title: "Wake up", WakeUpMethod: types.WakeUpMethodSteps},
					External: types.ExternalAlarmState{ID: "a", State: types.StateScheduled, Schedule: sched},
				},
			},
		},
	)

	err := e.svc.Start(ctx)
	is.NoErr(err)

	active := e.svc.ActiveAlarms(ctx)
	is.Equal(len(active), 1)
	is.Equal(active[0].Metadata.Title, "Wake up")
	is.True(!active[0].UnknownOrigin)
	is.Equal(active[0].Presentation.Kind, types.ModeAlert)
	is.Equal(*active[0].Presentation.Time, types.TimeOfDay{Hour: 7, Minute: 0})
}

func TestStartSynthesizesRecordsForUnknownExternalAlarms(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	e := setup(t,
		[]types.ExternalAlarmState{
			{ID: "x", State: types.StateScheduled, Schedule: &types.Schedule{Time: types.TimeOfDay{Hour: 8, Minute: 15}}},
		},
		nil,
	)

	err := e.svc.Start(ctx)
	is.NoErr(err)

	active := e.svc.ActiveAlarms(ctx)
	is.Equal(len(active), 1)
	is.True(active[0].UnknownOrigin)
	is.Equal(active[0].Metadata.Title, "Alarm")
	is.Equal(active[0].Presentation.Kind, types.ModeAlert)
}

func TestStartRetiresRecordsTheSubsystemNoLongerReports(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	e := setup(t, nil, map[string][]types.AlarmRecord{
		ActiveAlarmsKey: {
			{
				ID:       "gone",
				Metadata: types.AlarmMetadata{Title: "Tea", TimerDuration: time.Minute},
				External: types.ExternalAlarmState{ID: "gone", State: types.StateCountingDown, Countdown: &types.Countdown{PreAlert: time.Minute}},
			},
		},
	})

	err := e.svc.Start(ctx)
	is.NoErr(err)

	is.Equal(len(e.svc.ActiveAlarms(ctx)), 0)

	recent := e.svc.RecentAlarms(ctx)
	is.Equal(len(recent), 1)
	is.Equal(recent[0].ID, "gone")
	is.True(recent[0].Recent)
	is.True(recent[0].Presentation == nil)

	is.Equal(publishedTopics(e), []string{"alarms.expired"})
}

func TestUpdateStreamDrivesReconciliation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	cd := &types.Countdown{PreAlert: 300 * time.Second}

	e := setup(t, nil, nil)

	err := e.svc.Start(ctx)
	is.NoErr(err)

	rec, err := e.svc.CreateTimer(ctx, "Tea", 300*time.Second, nil)
	is.NoErr(err)

	// the subsystem stops reporting the timer after it has run to completion
	e.updates <- []types.ExternalAlarmState{}

	waitFor(t, func() bool {
		return len(e.svc.ActiveAlarms(ctx)) == 0
	})

	_, found := findByID(e.svc.RecentAlarms(ctx), rec.ID)
	is.True(found)

	// and a later batch can bring a new identity
	e.updates <- []types.ExternalAlarmState{
		{ID: "later", State: types.StateCountingDown, Countdown: cd},
	}

	waitFor(t, func() bool {
		return len(e.svc.ActiveAlarms(ctx)) == 1
	})
}

func TestReconciliationIsIdempotent(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	sched := &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay}
	batch := []types.ExternalAlarmState{{ID: "a", State: types.StateScheduled, Schedule: sched}}

	e := setup(t, batch, nil)

	err := e.svc.Start(ctx)
	is.NoErr(err)

	before := e.svc.ActiveAlarms(ctx)
	is.Equal(len(before), 1)

	e.updates <- batch
	e.updates <- batch

	waitFor(t, func() bool {
		return len(e.store.SaveCollectionCalls()) >= 6
	})

	after := e.svc.ActiveAlarms(ctx)
	is.Equal(len(after), 1)
	is.Equal(after[0].ID, before[0].ID)
	is.Equal(*after[0].Presentation, *before[0].Presentation)
	is.Equal(len(publishedTopics(e)), 0)
}

func TestEnteringAlertingPublishesEventAndStartsGracePeriod(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	cd := &types.Countdown{PreAlert: 300 * time.Second, PostAlert: 5 * time.Minute}

	e := setup(t, []types.ExternalAlarmState{
		{ID: "a", State: types.StateCountingDown, Countdown: cd},
	}, map[string][]types.AlarmRecord{
		ActiveAlarmsKey: {
			{
				ID:       "a",
				Metadata: types.AlarmMetadata{Title: "Tea", TimerDuration: 300 * time.Second},
				External: types.ExternalAlarmState{ID: "a", State: types.StateCountingDown, Countdown: cd},
			},
		},
	})

	err := e.svc.Start(ctx)
	is.NoErr(err)

	e.updates <- []types.ExternalAlarmState{
		{ID: "a", State: types.StateAlerting, Countdown: cd},
	}

	waitFor(t, func() bool {
		_, ok := e.svc.AlertingAlarm(ctx)
		return ok
	})

	alerting, ok := e.svc.AlertingAlarm(ctx)
	is.True(ok)
	is.Equal(alerting.ID, "a")
	is.Equal(alerting.Presentation.Kind, types.ModeAlert)

	is.Equal(publishedTopics(e), []string{"alarms.alerting"})

	remaining, tracked := e.svc.CountdownTimeRemaining(ctx, "a")
	is.True(tracked)
	is.True(remaining > 4*time.Minute)
}

func TestReturningToScheduledClearsAlertingAndCountdown(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	sched := &types.Schedule{Time: types.TimeOfDay{Hour: 7, Minute: 0}, Weekdays: types.EveryDay}
	cd := &types.Countdown{PostAlert: 5 * time.Minute}

	e := setup(t, []types.ExternalAlarmState{
		{ID: "a", State: types.StateAlerting, Schedule: sched, Countdown: cd},
	}, map[string][]types.AlarmRecord{
		ActiveAlarmsKey: {
			{
				ID:       "a",
				Metadata: types.AlarmMetadata{Title: "Wake up"},
				External: types.ExternalAlarmState{ID: "a", State: types.StateScheduled, Schedule: sched, Countdown: cd},
			},
		},
	})

	err := e.svc.Start(ctx)
	is.NoErr(err)

	_, ok := e.svc.AlertingAlarm(ctx)
	is.True(ok)

	e.updates <- []types.ExternalAlarmState{
		{ID: "a", State: types.StateScheduled, Schedule: sched, Countdown: cd},
	}

	waitFor(t, func() bool {
		_, ok := e.svc.AlertingAlarm(ctx)
		return !ok
	})

	_, tracked := e.svc.CountdownTimeRemaining(ctx, "a")
	is.True(!tracked)

	active := e.svc.ActiveAlarms(ctx)
	is.Equal(len(active), 1)
	is.Equal(active[0].Presentation.Kind, types.ModeAlert)
	is.Equal(*active[0].Presentation.Time, types.TimeOfDay{Hour: 7, Minute: 0})
}

func TestActiveAndRecentStayDisjoint(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	cd := &types.Countdown{PreAlert: time.Minute}

	e := setup(t, nil, map[string][]types.AlarmRecord{
		ActiveAlarmsKey: {
			{ID: "a", Metadata: types.AlarmMetadata{TimerDuration: time.Minute}, External: types.ExternalAlarmState{ID: "a", State: types.StateCountingDown, Countdown: cd}},
		},
		RecentAlarmsKey: {
			{ID: "a", Metadata: types.AlarmMetadata{TimerDuration: time.Minute}, Recent: true},
		},
	})

	err := e.svc.Start(ctx)
	is.NoErr(err)

	// retirement replaced the stale recent entry instead of duplicating it
	is.Equal(len(e.svc.ActiveAlarms(ctx)), 0)

	recent := e.svc.RecentAlarms(ctx)
	is.Equal(len(recent), 1)
	is.Equal(recent[0].ID, "a")
}
