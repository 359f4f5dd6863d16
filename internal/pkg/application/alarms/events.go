package alarms

import "time"

type AlarmAlerting struct {
	AlarmID    string    `json:"alarmID"`
	Title      string    `json:"title"`
	ObservedAt time.Time `json:"observedAt"`
}

func (a *AlarmAlerting) ContentType() string {
	return "application/json"
}
func (a *AlarmAlerting) TopicName() string {
	return "alarms.alerting"
}

type AlarmExpired struct {
	AlarmID    string    `json:"alarmID"`
	ObservedAt time.Time `json:"observedAt"`
}

func (a *AlarmExpired) ContentType() string {
	return "application/json"
}
func (a *AlarmExpired) TopicName() string {
	return "alarms.expired"
}
