package alarms

import (
	"context"
	"encoding/json"
	"errors"

	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

type alarmCommand struct {
	AlarmID string `json:"alarmID"`
}

func NewStopAlarmCommandHandler(svc AlarmService) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "stop-alarm-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := alarmCommand{}

		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal message", "err", err.Error())
			return
		}

		err = svc.StopAlarm(ctx, cmd.AlarmID)
		if err != nil {
			if errors.Is(err, ErrInvalidTime) {
				log.Warn("stop command for unknown alarm", slog.String("alarm_id", cmd.AlarmID))
				err = nil
				return
			}
			log.Error("could not stop alarm", slog.String("alarm_id", cmd.AlarmID), "err", err.Error())
			return
		}
	}
}

func NewPauseAlarmCommandHandler(svc AlarmService) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "pause-alarm-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := alarmCommand{}

		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal message", "err", err.Error())
			return
		}

		err = svc.PauseAlarm(ctx, cmd.AlarmID)
		if err != nil {
			if errors.Is(err, ErrInvalidTime) {
				log.Warn("pause command for alarm that is not counting down", slog.String("alarm_id", cmd.AlarmID))
				err = nil
				return
			}
			log.Error("could not pause alarm", slog.String("alarm_id", cmd.AlarmID), "err", err.Error())
			return
		}
	}
}

func NewResumeAlarmCommandHandler(svc AlarmService) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "resume-alarm-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := alarmCommand{}

		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal message", "err", err.Error())
			return
		}

		err = svc.ResumeAlarm(ctx, cmd.AlarmID)
		if err != nil {
			if errors.Is(err, ErrInvalidTime) {
				log.Warn("resume command for alarm that is not paused", slog.String("alarm_id", cmd.AlarmID))
				err = nil
				return
			}
			log.Error("could not resume alarm", slog.String("alarm_id", cmd.AlarmID), "err", err.Error())
			return
		}
	}
}
