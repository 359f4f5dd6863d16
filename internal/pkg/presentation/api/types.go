package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
)

type ApiResponse struct {
	Data any `json:"data"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

type dayTimeRequest struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type createWakeUpAlarmRequest struct {
	EverydayTime *string          `json:"everydayTime,omitempty"`
	WeekdaysTime *string          `json:"weekdaysTime,omitempty"`
	WeekendsTime *string          `json:"weekendsTime,omitempty"`
	DayTimes     []dayTimeRequest `json:"dayTimes,omitempty"`

	Title              string          `json:"title"`
	WakeUpMethod       string          `json:"wakeUpMethod,omitempty"`
	TargetSteps        int             `json:"targetSteps,omitempty"`
	TargetLocation     *types.Location `json:"targetLocation,omitempty"`
	GracePeriodSeconds int             `json:"gracePeriodSeconds,omitempty"`
	Motivation         string          `json:"motivation,omitempty"`
}

func (r createWakeUpAlarmRequest) toPreferences() (types.WakeUpPreferences, error) {
	prefs := types.WakeUpPreferences{
		Title:          r.Title,
		WakeUpMethod:   types.WakeUpMethodNone,
		TargetSteps:    r.TargetSteps,
		TargetLocation: r.TargetLocation,
		GracePeriod:    time.Duration(r.GracePeriodSeconds) * time.Second,
		Motivation:     types.MotivationNone,
	}

	if r.WakeUpMethod != "" {
		prefs.WakeUpMethod = types.WakeUpMethod(r.WakeUpMethod)
	}

	if r.Motivation != "" {
		prefs.Motivation = types.MotivationMethod(r.Motivation)
	}

	assign := func(dst **types.TimeOfDay, value *string) error {
		if value == nil {
			return nil
		}
		tod, err := parseTimeOfDay(*value)
		if err != nil {
			return err
		}
		*dst = &tod
		return nil
	}

	if err := assign(&prefs.EverydayTime, r.EverydayTime); err != nil {
		return prefs, err
	}
	if err := assign(&prefs.WeekdaysTime, r.WeekdaysTime); err != nil {
		return prefs, err
	}
	if err := assign(&prefs.WeekendsTime, r.WeekendsTime); err != nil {
		return prefs, err
	}

	for _, dt := range r.DayTimes {
		day, err := parseWeekday(dt.Day)
		if err != nil {
			return prefs, err
		}
		tod, err := parseTimeOfDay(dt.Time)
		if err != nil {
			return prefs, err
		}
		prefs.DayTimes = append(prefs.DayTimes, types.DayTime{Day: day, Time: tod})
	}

	return prefs, nil
}

type createTimerRequest struct {
	Title              string `json:"title"`
	DurationSeconds    int    `json:"durationSeconds"`
	GracePeriodSeconds int    `json:"gracePeriodSeconds,omitempty"`
	Motivation         string `json:"motivation,omitempty"`
}

type createBackupTimerRequest struct {
	DurationSeconds int `json:"durationSeconds,omitempty"`
}

type remainingResponse struct {
	AlarmID          string `json:"alarmID"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

func parseTimeOfDay(value string) (types.TimeOfDay, error) {
	var hour, minute int

	n, err := fmt.Sscanf(value, "%d:%d", &hour, &minute)
	if err != nil || n != 2 {
		return types.TimeOfDay{}, fmt.Errorf("malformed time of day %q", value)
	}

	tod := types.TimeOfDay{Hour: hour, Minute: minute}
	if !tod.Valid() {
		return types.TimeOfDay{}, fmt.Errorf("time of day %q out of range", value)
	}

	return tod, nil
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdaysByName[strings.ToLower(name)]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", name)
	}

	return day, nil
}
