package types

import (
	"slices"
	"time"
)

type WakeUpMethod string

const (
	WakeUpMethodNone     WakeUpMethod = "none"
	WakeUpMethodSteps    WakeUpMethod = "steps"
	WakeUpMethodLocation WakeUpMethod = "location"
)

type MotivationMethod string

const (
	MotivationNone      MotivationMethod = "none"
	MotivationNoise     MotivationMethod = "noise"
	MotivationPhoneLock MotivationMethod = "phoneLock"
	MotivationMonetary  MotivationMethod = "monetary"
)

type Location struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// AlarmMetadata captures user intent at creation time. It is immutable once the
// alarm has been scheduled, except by explicit re-creation.
type AlarmMetadata struct {
	Title          string           `json:"title"`
	WakeUpMethod   WakeUpMethod     `json:"wakeUpMethod"`
	TargetSteps    int              `json:"targetSteps,omitempty"`
	TargetLocation *Location        `json:"targetLocation,omitempty"`
	GracePeriod    time.Duration    `json:"gracePeriod"`
	Motivation     MotivationMethod `json:"motivation"`
	TimerDuration  time.Duration    `json:"timerDuration,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Schedule describes when an alarm should fire. An empty weekday set means a
// single occurrence at the next matching time of day.
type Schedule struct {
	Time     TimeOfDay      `json:"time"`
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
}

func (s Schedule) Recurring() bool {
	return len(s.Weekdays) > 0
}

func (s Schedule) Equal(other Schedule) bool {
	return s.Time == other.Time && slices.Equal(s.Weekdays, other.Weekdays)
}

var (
	EveryDay = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	WeekdayGroup = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
	WeekendGroup = []time.Weekday{time.Saturday, time.Sunday}
)

// Countdown describes the duration bookkeeping of an alarm. PreAlert is the
// total countdown before the alarm fires (the full timer duration), PostAlert
// is the grace period the user has after it fires.
type Countdown struct {
	PreAlert  time.Duration `json:"preAlert"`
	PostAlert time.Duration `json:"postAlert"`
}

type LifecycleState string

const (
	StateScheduled    LifecycleState = "scheduled"
	StateCountingDown LifecycleState = "countingDown"
	StatePaused       LifecycleState = "paused"
	StateAlerting     LifecycleState = "alerting"
)

// ExternalAlarmState is the authoritative record as reported by the external
// alarm subsystem.
type ExternalAlarmState struct {
	ID        string         `json:"id"`
	State     LifecycleState `json:"state"`
	Schedule  *Schedule      `json:"schedule,omitempty"`
	Countdown *Countdown     `json:"countdown,omitempty"`
}

// KeyFieldsEqual reports whether the fields that drive presentation derivation
// are unchanged between two reported states.
func (e ExternalAlarmState) KeyFieldsEqual(o ExternalAlarmState) bool {
	if e.ID != o.ID || e.State != o.State {
		return false
	}
	if (e.Schedule == nil) != (o.Schedule == nil) {
		return false
	}
	if e.Schedule != nil && !e.Schedule.Equal(*o.Schedule) {
		return false
	}
	if (e.Countdown == nil) != (o.Countdown == nil) {
		return false
	}
	if e.Countdown != nil && *e.Countdown != *o.Countdown {
		return false
	}
	return true
}

type PresentationModeKind string

const (
	ModeAlert     PresentationModeKind = "alert"
	ModeCountdown PresentationModeKind = "countdown"
	ModePaused    PresentationModeKind = "paused"
)

// PresentationMode is the derived, UI-facing representation of an alarm's
// current phase. Which payload fields are set depends on Kind.
type PresentationMode struct {
	Kind              PresentationModeKind `json:"kind"`
	Time              *TimeOfDay           `json:"time,omitempty"`
	TotalDuration     time.Duration        `json:"totalDuration,omitempty"`
	PreviouslyElapsed time.Duration        `json:"previouslyElapsed,omitempty"`
	StartedAt         *time.Time           `json:"startedAt,omitempty"`
}

func AlertMode(t TimeOfDay) *PresentationMode {
	return &PresentationMode{Kind: ModeAlert, Time: &t}
}

func CountdownMode(total, previouslyElapsed time.Duration, startedAt time.Time) *PresentationMode {
	return &PresentationMode{
		Kind:              ModeCountdown,
		TotalDuration:     total,
		PreviouslyElapsed: previouslyElapsed,
		StartedAt:         &startedAt,
	}
}

func PausedMode(total, previouslyElapsed time.Duration) *PresentationMode {
	return &PresentationMode{
		Kind:              ModePaused,
		TotalDuration:     total,
		PreviouslyElapsed: previouslyElapsed,
	}
}

// AlarmRecord is the unit of state owned by the reconciliation engine. Its
// identity is shared with the external subsystem and stable for the record's
// lifetime. Presentation is always derived, never set directly.
type AlarmRecord struct {
	ID            string             `json:"id"`
	Metadata      AlarmMetadata      `json:"metadata"`
	External      ExternalAlarmState `json:"external"`
	Presentation  *PresentationMode  `json:"presentation,omitempty"`
	Recent        bool               `json:"recent,omitempty"`
	UnknownOrigin bool               `json:"unknownOrigin,omitempty"`
}

func (r AlarmRecord) IsTimer() bool {
	return r.Metadata.TimerDuration > 0
}

// OneShot reports whether the alarm has no recurring schedule. Stopping a
// one-shot alarm removes it entirely rather than leaving it scheduled.
func (r AlarmRecord) OneShot() bool {
	return r.External.Schedule == nil || !r.External.Schedule.Recurring()
}

type AuthorizationState string

const (
	AuthNotDetermined AuthorizationState = "notDetermined"
	AuthAuthorized    AuthorizationState = "authorized"
	AuthDenied        AuthorizationState = "denied"
)

type AlarmButton struct {
	Label string `json:"label"`
}

// ScheduleConfig bundles everything the external subsystem needs to schedule
// an alarm: when to fire, how to count down, and what to display.
type ScheduleConfig struct {
	Schedule        *Schedule    `json:"schedule,omitempty"`
	Countdown       *Countdown   `json:"countdown,omitempty"`
	Title           string       `json:"title"`
	StopButton      AlarmButton  `json:"stopButton"`
	SecondaryButton *AlarmButton `json:"secondaryButton,omitempty"`
}

type DayTime struct {
	Day  time.Weekday `json:"day"`
	Time TimeOfDay    `json:"time"`
}

// WakeUpPreferences is the user's wake-up configuration. The everyday time is
// mutually exclusive with the group and individual day times.
type WakeUpPreferences struct {
	EverydayTime *TimeOfDay `json:"everydayTime,omitempty"`
	WeekdaysTime *TimeOfDay `json:"weekdaysTime,omitempty"`
	WeekendsTime *TimeOfDay `json:"weekendsTime,omitempty"`
	DayTimes     []DayTime  `json:"dayTimes,omitempty"`

	Title          string           `json:"title"`
	WakeUpMethod   WakeUpMethod     `json:"wakeUpMethod"`
	TargetSteps    int              `json:"targetSteps,omitempty"`
	TargetLocation *Location        `json:"targetLocation,omitempty"`
	GracePeriod    time.Duration    `json:"gracePeriod"`
	Motivation     MotivationMethod `json:"motivation"`
}
