// internal/scheduler/scheduler.go
package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/campaignforge/internal/state"
)

// Handler is the callback invoked when a recurring brief fires.
type Handler func(brief *state.RecurringBrief)

// Scheduler evaluates cron expressions from the brief store and fires
// campaign generation through a handler callback.
type Scheduler struct {
	store   *state.BriefStore
	handler Handler
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a new Scheduler backed by the given brief store. The
// handler is called each time a recurring brief fires.
func New(store *state.BriefStore, handler Handler) *Scheduler {
	return &Scheduler{
		store:   store,
		handler: handler,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads briefs from the store, registers enabled briefs that have
// a schedule as cron entries, and starts the cron ticker.
func (s *Scheduler) Start() error {
	briefs, err := s.store.List()
	if err != nil {
		return err
	}

	for _, rb := range briefs {
		if rb.Schedule == "" || !rb.Enabled {
			continue
		}

		// Capture loop variable for the closure.
		brief := rb

		_, err := s.cron.AddFunc(brief.Schedule, func() {
			slog.Info("cron firing brief", "name", brief.Name, "brief_id", brief.ID)
			if err := s.store.MarkRun(brief.ID, time.Now()); err != nil {
				slog.Warn("mark brief run", "name", brief.Name, "error", err)
			}
			s.handler(brief)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", brief.Name, "schedule", brief.Schedule, "error", err)
			continue
		}
		slog.Info("scheduled brief", "name", brief.Name, "schedule", brief.Schedule)
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and calls Start() again.
func (s *Scheduler) Reload() error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
