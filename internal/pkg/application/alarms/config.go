package alarms

import (
	"io"
	"time"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	DefaultAlarm DefaultAlarmConfig `yaml:"defaultAlarm"`
	BackupTimer  BackupTimerConfig  `yaml:"backupTimer"`
}

// DefaultAlarmConfig is the metadata template applied to alarms that exist in
// the external subsystem without a locally known origin, e.g. alarms restored
// from system state after a reinstall.
type DefaultAlarmConfig struct {
	Title              string `yaml:"title"`
	GracePeriodSeconds int    `yaml:"gracePeriodSeconds"`
	Motivation         string `yaml:"motivation"`
}

type BackupTimerConfig struct {
	DefaultDurationSeconds int `yaml:"defaultDurationSeconds"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) defaultMetadata(now time.Time) types.AlarmMetadata {
	title := c.DefaultAlarm.Title
	if title == "" {
		title = "Alarm"
	}

	motivation := types.MotivationMethod(c.DefaultAlarm.Motivation)
	if motivation == "" {
		motivation = types.MotivationNone
	}

	return types.AlarmMetadata{
		Title:        title,
		WakeUpMethod: types.WakeUpMethodNone,
		GracePeriod:  time.Duration(c.DefaultAlarm.GracePeriodSeconds) * time.Second,
		Motivation:   motivation,
		CreatedAt:    now,
	}
}

func (c *Config) backupTimerDuration() time.Duration {
	if c.BackupTimer.DefaultDurationSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.BackupTimer.DefaultDurationSeconds) * time.Second
}
