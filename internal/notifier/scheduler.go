// Package notifier delivers habit reminders at their scheduled times.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/reminder"
)

// Config is fixed for the lifetime of a Scheduler.
type Config struct {
	Policy   Policy
	Location *time.Location
	Sender   Sender
}

// Scheduler turns notification requests into cron entries. Requests with the
// same key share one entry, so a series that hands over one repeating
// trigger per occurrence is scheduled once.
type Scheduler struct {
	cfg  Config
	cron *cron.Cron
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Sender == nil {
		return nil, errors.New("notifier: a sender is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:     cfg,
		cron:    cron.New(cron.WithLocation(cfg.Location)),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "tz", s.cfg.Location.String(), "entries", s.Len())
}

// Stop halts the scheduler and waits for running deliveries to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

// Len reports the number of live entries.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Schedule registers req. Duplicates and triggers that can no longer fire
// are accepted and ignored. It is safe for concurrent use.
func (s *Scheduler) Schedule(req reminder.NotificationRequest) error {
	if req.Trigger.Hour < 0 || req.Trigger.Hour > 23 || req.Trigger.Minute < 0 || req.Trigger.Minute > 59 {
		return fmt.Errorf("notifier: invalid trigger time %s", req.Trigger.TimeOfDay())
	}

	key := req.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		logger.Debug("Duplicate reminder ignored", "series", req.SeriesID, "date", req.OccurrenceDate.String())
		return nil
	}

	var sched cron.Schedule
	if req.Trigger.Repeats && req.Trigger.Cadence.Repeats() {
		sched = newSeriesSchedule(req.Trigger, req.SeriesEndDate, s.cfg.Location)
	} else {
		sched = onceSchedule{at: req.OccurrenceDate.At(req.Trigger.TimeOfDay(), s.cfg.Location)}
	}

	if sched.Next(s.now()).IsZero() {
		logger.Debug("Reminder is in the past, skipping", "series", req.SeriesID, "date", req.OccurrenceDate.String())
		return nil
	}

	notification := Notification{
		Title:  req.Payload.Title,
		Body:   req.Payload.Body,
		Policy: s.cfg.Policy,
	}
	id := s.cron.Schedule(sched, cron.FuncJob(func() {
		s.fire(key, sched, notification)
	}))
	s.entries[key] = id

	logger.Debug("Reminder scheduled", "series", req.SeriesID, "repeats", req.Trigger.Repeats, "cadence", string(req.Trigger.Cadence))
	return nil
}

// Sync reconciles the live entries with reqs: entries whose key is absent
// from reqs are removed and missing ones are scheduled. It returns how many
// entries were removed.
func (s *Scheduler) Sync(reqs []reminder.NotificationRequest) (int, error) {
	want := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		want[req.Key()] = true
	}

	s.mu.Lock()
	removed := 0
	for key, id := range s.entries {
		if !want[key] {
			s.cron.Remove(id)
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, req := range reqs {
		if err := s.Schedule(req); err != nil {
			errs = append(errs, err)
		}
	}
	if removed > 0 {
		logger.Info("Stale reminders removed", "count", removed)
	}
	return removed, errors.Join(errs...)
}

// fire delivers one reminder and drops the entry once its schedule is exhausted.
func (s *Scheduler) fire(key string, sched cron.Schedule, n Notification) {
	if err := s.deliver(n); err != nil {
		logger.Error("Failed to deliver reminder", "title", n.Title, "error", err)
	}

	if sched.Next(s.now()).IsZero() {
		s.remove(key)
	}
}

func (s *Scheduler) deliver(n Notification) error {
	var err error
	for attempt := 1; attempt <= constants.NotifyMaxRetries; attempt++ {
		if err = s.cfg.Sender.Send(s.ctx, n); err == nil {
			return nil
		}
		if s.ctx.Err() != nil {
			return err
		}
		logger.Warn("Reminder delivery failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-time.After(constants.NotifyRetryDelay):
		case <-s.ctx.Done():
			return err
		}
	}
	return err
}

func (s *Scheduler) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[key]; ok {
		s.cron.Remove(id)
		delete(s.entries, key)
	}
}
