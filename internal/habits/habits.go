// Package habits stores habit series and hands their reminders to a scheduler.
package habits

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/storage"
)

// Scheduler accepts notification requests. It must be safe for concurrent use.
type Scheduler interface {
	Schedule(req reminder.NotificationRequest) error
}

type Service struct {
	store     storage.Provider
	expander  *reminder.Expander
	scheduler Scheduler
}

func NewService(store storage.Provider, expander *reminder.Expander) *Service {
	return &Service{store: store, expander: expander}
}

// WithScheduler makes Add schedule reminders as soon as a series is stored.
func (s *Service) WithScheduler(sched Scheduler) *Service {
	s.scheduler = sched
	return s
}

// Add expands spec and stores every occurrence of the series in one
// transaction. Reminders go to the scheduler only after the write succeeds.
func (s *Service) Add(ctx context.Context, ownerID string, spec reminder.Spec) ([]models.HabitOccurrence, error) {
	spec.OwnerID = ownerID
	occurrences, requests, err := s.expander.Expand(spec)
	if err != nil {
		return nil, err
	}

	bodies := make([]any, len(occurrences))
	for i, occ := range occurrences {
		bodies[i] = occ
	}
	ids, err := s.store.CreateDocuments(ctx, constants.CollectionHabits, ownerID, bodies)
	if err != nil {
		return nil, fmt.Errorf("failed to store habit series: %w", err)
	}
	for i := range occurrences {
		occurrences[i].ID = ids[i]
	}

	logger.Info("Habit series stored",
		"series", occurrences[0].SeriesID,
		"cadence", string(occurrences[0].Cadence),
		"occurrences", len(occurrences),
	)

	if s.scheduler != nil {
		if err := ScheduleAll(ctx, s.scheduler, requests); err != nil {
			return occurrences, fmt.Errorf("habit stored but reminders failed: %w", err)
		}
	}
	return occurrences, nil
}

// ScheduleAll hands requests to sched with bounded concurrency.
func ScheduleAll(ctx context.Context, sched Scheduler, requests []reminder.NotificationRequest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.NotificationFanOut)
	for _, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return sched.Schedule(req)
		})
	}
	return g.Wait()
}

// List returns the owner's occurrences ordered by date and time. A zero date
// lists everything.
func (s *Service) List(ctx context.Context, ownerID string, date reminder.Date) ([]models.HabitOccurrence, error) {
	var filters []storage.Filter
	if !date.IsZero() {
		filters = append(filters, storage.Eq("date", date.String()))
	}
	return s.query(ctx, ownerID, filters...)
}

// Series returns every occurrence of one series, oldest first.
func (s *Service) Series(ctx context.Context, ownerID, seriesID string) ([]models.HabitOccurrence, error) {
	occs, err := s.query(ctx, ownerID, storage.Eq("series_id", seriesID))
	if err != nil {
		return nil, err
	}
	if len(occs) == 0 {
		return nil, fmt.Errorf("series %s: %w", seriesID, storage.ErrNotFound)
	}
	return occs, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteDocument(ctx, constants.CollectionHabits, ownerID, id)
}

// DeleteSeries removes every occurrence sharing seriesID and returns how many were removed.
func (s *Service) DeleteSeries(ctx context.Context, ownerID, seriesID string) (int, error) {
	n, err := s.store.DeleteDocuments(ctx, constants.CollectionHabits, ownerID, storage.Eq("series_id", seriesID))
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("series %s: %w", seriesID, storage.ErrNotFound)
	}
	return n, nil
}

// Pending rebuilds the notification requests of every occurrence on or after
// from. Corrupt documents are logged and skipped.
func (s *Service) Pending(ctx context.Context, ownerID string, from reminder.Date) ([]reminder.NotificationRequest, error) {
	occs, err := s.query(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var requests []reminder.NotificationRequest
	for _, occ := range occs {
		req, err := reminder.RequestFromOccurrence(occ)
		if err != nil {
			logger.Warn("Skipping unreadable habit", "id", occ.ID, "error", err)
			continue
		}
		if req.OccurrenceDate.Before(from) {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (s *Service) query(ctx context.Context, ownerID string, filters ...storage.Filter) ([]models.HabitOccurrence, error) {
	docs, err := s.store.QueryDocuments(ctx, constants.CollectionHabits, ownerID, filters...)
	if err != nil {
		return nil, err
	}
	occs, err := storage.DecodeAll(docs, func(h *models.HabitOccurrence, id string) { h.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].Date != occs[j].Date {
			return occs[i].Date < occs[j].Date
		}
		return occs[i].Time < occs[j].Time
	})
	return occs, nil
}
