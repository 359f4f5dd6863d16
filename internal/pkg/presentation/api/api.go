package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/alarms"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/presentation/api/auth"
	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("wakeup-alarm-mgmt/api")

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, svc alarms.AlarmService) (*chi.Mux, error) {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	// Handle valid / invalid tokens.
	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator.RequireAccess(auth.ScopeRead))

			r.Get("/alarms", queryAlarmsHandler(log, svc))
			r.Get("/alarms/recent", getRecentAlarmsHandler(log, svc))
			r.Get("/alarms/alerting", getAlertingAlarmHandler(log, svc))
			r.Get("/alarms/{alarmID}/remaining", getRemainingHandler(log, svc))
			r.Get("/timers", queryTimersHandler(log, svc))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator.RequireAccess(auth.ScopeWrite))

			r.Post("/alarms", createWakeUpAlarmHandler(log, svc))
			r.Delete("/alarms/{alarmID}", deleteAlarmHandler(log, svc))
			r.Post("/alarms/{alarmID}/stop", stopAlarmHandler(log, svc))
			r.Post("/alarms/{alarmID}/pause", pauseAlarmHandler(log, svc))
			r.Post("/alarms/{alarmID}/resume", resumeAlarmHandler(log, svc))
			r.Post("/alarms/{alarmID}/backup", createBackupTimerHandler(log, svc))
			r.Post("/timers", createTimerHandler(log, svc))
			r.Post("/timers/{alarmID}/restart", restartTimerHandler(log, svc))
		})
	})

	return router, nil
}

func statusFromError(err error) int {
	if errors.Is(err, alarms.ErrNotAuthorized) {
		return http.StatusForbidden
	}
	if errors.Is(err, alarms.ErrInvalidTime) || errors.Is(err, alarms.ErrNoWakeUpTimeConfigured) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func createWakeUpAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-wakeup-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error("unable to read body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var req createWakeUpAlarmRequest
		err = json.Unmarshal(body, &req)
		if err != nil {
			requestLogger.Error("unable to unmarshal body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		prefs, err := req.toPreferences()
		if err != nil {
			requestLogger.Error("invalid wake-up preferences", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		created, err := svc.CreateWakeUpAlarm(ctx, prefs)
		if err != nil {
			requestLogger.Error("unable to create wake-up alarm", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(ApiResponse{Data: created}.Byte())
	}
}

func createTimerHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-timer")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error("unable to read body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var req createTimerRequest
		err = json.Unmarshal(body, &req)
		if err != nil {
			requestLogger.Error("unable to unmarshal body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var metadata *types.AlarmMetadata
		if req.GracePeriodSeconds > 0 || req.Motivation != "" {
			md := types.AlarmMetadata{
				WakeUpMethod: types.WakeUpMethodNone,
				GracePeriod:  time.Duration(req.GracePeriodSeconds) * time.Second,
				Motivation:   types.MotivationNone,
			}
			if req.Motivation != "" {
				md.Motivation = types.MotivationMethod(req.Motivation)
			}
			metadata = &md
		}

		created, err := svc.CreateTimer(ctx, req.Title, time.Duration(req.DurationSeconds)*time.Second, metadata)
		if err != nil {
			requestLogger.Error("unable to create timer", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(ApiResponse{Data: created}.Byte())
	}
}

func restartTimerHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "restart-timer")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		created, err := svc.RestartRecentTimer(ctx, alarmID)
		if err != nil {
			requestLogger.Error("unable to restart timer", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(ApiResponse{Data: created}.Byte())
	}
}

func createBackupTimerHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-backup-timer")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		var req createBackupTimerRequest

		body, err := io.ReadAll(r.Body)
		if err == nil && len(body) > 0 {
			err = json.Unmarshal(body, &req)
			if err != nil {
				requestLogger.Error("unable to unmarshal body", "err", err.Error())
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		created, err := svc.CreateBackupTimer(ctx, alarmID, time.Duration(req.DurationSeconds)*time.Second)
		if err != nil {
			requestLogger.Error("unable to create backup timer", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(ApiResponse{Data: created}.Byte())
	}
}

func stopAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "stop-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		err = svc.StopAlarm(ctx, alarmID)
		if err != nil {
			requestLogger.Error("unable to stop alarm", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func pauseAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "pause-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		err = svc.PauseAlarm(ctx, alarmID)
		if err != nil {
			requestLogger.Error("unable to pause alarm", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func resumeAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "resume-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		err = svc.ResumeAlarm(ctx, alarmID)
		if err != nil {
			requestLogger.Error("unable to resume alarm", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "delete-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		err = svc.DeleteAlarm(ctx, alarmID)
		if err != nil {
			requestLogger.Error("unable to delete alarm", "err", err.Error())
			w.WriteHeader(statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func queryAlarmsHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-alarms")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		var records []types.AlarmRecord

		switch kind := r.URL.Query().Get("kind"); kind {
		case "":
			records = svc.ActiveAlarms(ctx)
		case "wakeup":
			records = svc.WakeUpAlarms(ctx)
		case "steps":
			records = svc.StepBasedAlarms(ctx)
		case "location":
			records = svc.LocationBasedAlarms(ctx)
		default:
			err = fmt.Errorf("unknown alarm kind %q", kind)
			requestLogger.Error("bad query", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(ApiResponse{Data: records}.Byte())
	}
}

func getRecentAlarmsHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-recent-alarms")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(ApiResponse{Data: svc.RecentAlarms(ctx)}.Byte())
	}
}

func getAlertingAlarmHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-alerting-alarm")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		record, ok := svc.AlertingAlarm(ctx)
		if !ok {
			requestLogger.Debug("no alarm is alerting")
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(ApiResponse{Data: record}.Byte())
	}
}

func queryTimersHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-timers")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		var records []types.AlarmRecord

		if r.URL.Query().Get("recent") == "true" {
			records = svc.RecentTimers(ctx)
		} else {
			records = svc.ActiveTimers(ctx)
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(ApiResponse{Data: records}.Byte())
	}
}

func getRemainingHandler(log *slog.Logger, svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-countdown-remaining")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alarmID := chi.URLParam(r, "alarmID")
		if alarmID != "" {
			requestLogger = requestLogger.With(slog.String("alarm_id", alarmID))
		}

		remaining, ok := svc.CountdownTimeRemaining(ctx, alarmID)
		if !ok {
			requestLogger.Debug("no countdown tracked for alarm")
			w.WriteHeader(http.StatusNotFound)
			return
		}

		response := remainingResponse{
			AlarmID:          alarmID,
			RemainingSeconds: int(remaining / time.Second),
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(ApiResponse{Data: response}.Byte())
	}
}
