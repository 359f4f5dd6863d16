package alarms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/countdown"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/presentation"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/storage"
	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
)

type svc struct {
	mu         sync.Mutex
	active     []types.AlarmRecord
	recent     []types.AlarmRecord
	alertingID string

	store     CollectionStore
	scheduler AlarmScheduler
	messenger messaging.MsgContext
	tracker   *countdown.Tracker
	cfg       *Config
}

// Start loads the persisted collections, reconciles them against the alarms
// the external subsystem reports right now, and begins consuming the update
// streams.
func (s *svc) Start(ctx context.Context) error {
	s.loadCollections(ctx)

	states, err := s.scheduler.Alarms(ctx)
	if err != nil {
		return fmt.Errorf("could not query external alarm subsystem: %w", err)
	}

	now := time.Now().UTC()

	s.mu.Lock()
	s.mergeLocked(ctx, states, now)
	s.persistLocked(ctx)
	s.mu.Unlock()

	go s.consumeUpdates(ctx)
	go s.consumeAuthorizationUpdates(ctx)

	return nil
}

// Reset discards all local alarm state and stops every countdown. The external
// subsystem is not touched; its alarms will reappear as unknown-origin records
// on the next reconciliation.
func (s *svc) Reset(ctx context.Context) {
	s.tracker.StopAll()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
	s.recent = nil
	s.alertingID = ""
	s.persistLocked(ctx)
}

func (s *svc) loadCollections(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	load := func(key string) []types.AlarmRecord {
		records, err := s.store.LoadCollection(ctx, key)
		if err != nil {
			if !errors.Is(err, storage.ErrNoRows) {
				log.Error("could not load alarm collection, starting empty", "collection", key, "err", err.Error())
			}
			return nil
		}
		return records
	}

	s.mu.Lock()
	s.active = load(ActiveAlarmsKey)
	s.recent = load(RecentAlarmsKey)
	s.mu.Unlock()
}

// mergeLocked reconciles the active collection against the full set of alarms
// the external subsystem reports. The reported set is authoritative for
// lifecycle state; local records are authoritative for metadata.
func (s *svc) mergeLocked(ctx context.Context, states []types.ExternalAlarmState, now time.Time) {
	log := logging.GetFromContext(ctx)

	reported := make(map[string]types.ExternalAlarmState, len(states))
	order := make([]string, 0, len(states))

	for _, st := range states {
		if _, exists := reported[st.ID]; !exists {
			order = append(order, st.ID)
		}
		reported[st.ID] = st
	}

	kept := make([]types.AlarmRecord, 0, len(s.active))

	for _, rec := range s.active {
		st, ok := reported[rec.ID]
		if !ok {
			// no longer known externally: it fired and ran to completion, or
			// was removed behind our back
			s.retireLocked(ctx, rec, now)
			continue
		}

		delete(reported, rec.ID)

		previous := rec.External
		rec.Presentation = presentation.Derive(&previous, st, rec.Presentation, now)
		rec.External = st
		rec.Recent = false

		if previous.State != st.State {
			s.enterStateLocked(ctx, &previous.State, &rec, now)
		}

		kept = append(kept, rec)
	}

	synthesized := make([]types.AlarmRecord, 0)

	for _, id := range order {
		st, ok := reported[id]
		if !ok {
			continue
		}

		log.Warn("external alarm has no local record, synthesizing one with default metadata", slog.String("alarm_id", id))

		rec := types.AlarmRecord{
			ID:            id,
			Metadata:      s.cfg.defaultMetadata(now),
			External:      st,
			Presentation:  presentation.Derive(nil, st, nil, now),
			UnknownOrigin: true,
		}

		s.recent = removeByID(s.recent, id)
		s.enterStateLocked(ctx, nil, &rec, now)

		synthesized = append(synthesized, rec)
	}

	s.active = append(synthesized, kept...)
}

// retireLocked moves a record that the external subsystem no longer reports to
// the front of the recent collection. The caller is responsible for removing
// it from active.
func (s *svc) retireLocked(ctx context.Context, rec types.AlarmRecord, now time.Time) {
	log := logging.GetFromContext(ctx)

	s.tracker.Stop(rec.ID)
	if s.alertingID == rec.ID {
		s.alertingID = ""
	}

	rec.Presentation = nil
	rec.Recent = true
	s.recent = append([]types.AlarmRecord{rec}, removeByID(s.recent, rec.ID)...)

	err := s.messenger.PublishOnTopic(ctx, &AlarmExpired{AlarmID: rec.ID, ObservedAt: now})
	if err != nil {
		log.Error("failed to publish expiry event", slog.String("alarm_id", rec.ID), "err", err.Error())
	}
}

// enterStateLocked performs the side effects of a record entering its current
// lifecycle state. previous is nil for records observed for the first time.
func (s *svc) enterStateLocked(ctx context.Context, previous *types.LifecycleState, rec *types.AlarmRecord, now time.Time) {
	log := logging.GetFromContext(ctx)

	switch rec.External.State {
	case types.StateAlerting:
		s.alertingID = rec.ID

		err := s.messenger.PublishOnTopic(ctx, &AlarmAlerting{
			AlarmID:    rec.ID,
			Title:      rec.Metadata.Title,
			ObservedAt: now,
		})
		if err != nil {
			log.Error("failed to publish alerting event", slog.String("alarm_id", rec.ID), "err", err.Error())
		}

		if cd := rec.External.Countdown; cd != nil && cd.PostAlert > 0 {
			s.tracker.Start(rec.ID, cd.PostAlert)
		} else {
			s.tracker.Stop(rec.ID)
		}
	case types.StateCountingDown:
		if previous != nil && *previous == types.StatePaused {
			s.tracker.Resume(rec.ID)
		} else if cd := rec.External.Countdown; cd != nil && cd.PreAlert > 0 {
			s.tracker.Start(rec.ID, cd.PreAlert)
		}
	case types.StatePaused:
		s.tracker.Pause(rec.ID)
	case types.StateScheduled:
		if s.alertingID == rec.ID {
			s.alertingID = ""
		}
		s.tracker.Stop(rec.ID)
	}
}

// applyStateLocked updates a single active record with a new external state,
// deriving presentation and running entry side effects. Used for optimistic
// updates after commands; the authoritative update stream will confirm or
// supersede the result.
func (s *svc) applyStateLocked(ctx context.Context, st types.ExternalAlarmState, now time.Time) {
	for i := range s.active {
		if s.active[i].ID != st.ID {
			continue
		}

		previous := s.active[i].External
		s.active[i].Presentation = presentation.Derive(&previous, st, s.active[i].Presentation, now)
		s.active[i].External = st

		if previous.State != st.State {
			s.enterStateLocked(ctx, &previous.State, &s.active[i], now)
		}

		return
	}
}

func (s *svc) persistLocked(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	err := s.store.SaveCollection(ctx, ActiveAlarmsKey, s.active)
	if err != nil {
		log.Error("failed to persist active alarms", "err", err.Error())
	}

	err = s.store.SaveCollection(ctx, RecentAlarmsKey, s.recent)
	if err != nil {
		log.Error("failed to persist recent alarms", "err", err.Error())
	}
}

func (s *svc) consumeUpdates(ctx context.Context) {
	updates := s.scheduler.Updates(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case states, ok := <-updates:
			if !ok {
				return
			}

			now := time.Now().UTC()

			s.mu.Lock()
			s.mergeLocked(ctx, states, now)
			s.persistLocked(ctx)
			s.mu.Unlock()
		}
	}
}

func (s *svc) consumeAuthorizationUpdates(ctx context.Context) {
	log := logging.GetFromContext(ctx)
	updates := s.scheduler.AuthorizationUpdates(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}

			log.Info("alarm authorization state changed", slog.String("state", string(s.scheduler.AuthorizationState())))
		}
	}
}
