package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoffmv/shipmate-ai/internal/models"
	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
)

// conflictCachePattern matches every cached conflict payload; event writes
// invalidate all of them.
const conflictCachePattern = "conflicts:*"

type calendarEventStore interface {
	LoadAll(ctx context.Context) ([]models.Event, error)
	Upsert(ctx context.Context, event models.Event) error
	Delete(ctx context.Context, eventID string) (bool, error)
}

// CalendarService is the single write path into the event store, plus the
// read-side overlap report.
type CalendarService struct {
	store     calendarEventStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(store calendarEventStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CalendarService{store: store, cache: cache, metrics: metrics, validator: validate, logger: logger}
	svc.validator.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	return svc
}

// AddEventRequest describes the create/upsert payload. Timestamps arrive as
// ISO-8601 strings and are parsed once here, at the boundary.
type AddEventRequest struct {
	EventID   string  `json:"event_id"`
	Title     string  `json:"title" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Source    string  `json:"source" validate:"required"`
	Priority  string  `json:"priority" validate:"required,priority"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
}

// AddEvent validates and normalizes the payload, persists it with upsert
// semantics and returns the event id. Re-adding an existing id replaces the
// whole record.
func (s *CalendarService) AddEvent(ctx context.Context, req AddEventRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	start, err := models.ParseEventTime(req.StartTime)
	if err != nil {
		return "", err
	}
	end, err := models.ParseEventTime(req.EndTime)
	if err != nil {
		return "", err
	}
	if !start.Before(end) {
		return "", appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	event := models.Event{
		EventID:   req.EventID,
		Title:     req.Title,
		StartTime: start,
		EndTime:   end,
		Source:    req.Source,
		Priority:  models.Priority(req.Priority),
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	if err := s.store.Upsert(ctx, event); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save event")
	}
	if err := s.cache.Invalidate(ctx, conflictCachePattern); err != nil {
		s.logger.Warn("conflict cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("event saved", zap.String("event_id", event.EventID), zap.String("source", event.Source))
	return event.EventID, nil
}

// RemoveEvent deletes by id. A missing id is not an error; the boolean tells
// the caller whether anything was removed.
func (s *CalendarService) RemoveEvent(ctx context.Context, eventID string) (bool, error) {
	removed, err := s.store.Delete(ctx, eventID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	if removed {
		if err := s.cache.Invalidate(ctx, conflictCachePattern); err != nil {
			s.logger.Warn("conflict cache invalidation failed", zap.Error(err))
		}
	}
	return removed, nil
}

// ListAllEvents returns every event sorted by (start_time, end_time) ascending.
func (s *CalendarService) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	sortEvents(events)
	return events, nil
}

// EventsForDate returns events whose [start, end] range touches the given
// calendar date, inclusive on both ends by date rather than time.
func (s *CalendarService) EventsForDate(ctx context.Context, date string) ([]models.Event, error) {
	target, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	result := make([]models.Event, 0, len(events))
	for _, event := range events {
		if models.SameOrBetweenDates(event.StartTime, event.EndTime, target) {
			result = append(result, event)
		}
	}
	sortEvents(result)
	return result, nil
}

// Conflicts reports groups of overlapping events. Each event in start-time
// order anchors a candidate group collecting every later event that overlaps
// the anchor itself; a group is emitted when it has more than one member and
// its id set is not already contained in an earlier group. Overlap against
// the anchor is deliberately not transitive across the group, so reported
// groups can share members when overlap chains are broken.
func (s *CalendarService) Conflicts(ctx context.Context) ([]models.ConflictGroup, error) {
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	groups := make([]models.ConflictGroup, 0)
	for i, anchor := range events {
		group := models.ConflictGroup{Events: []models.Event{anchor}}
		for _, candidate := range events[i+1:] {
			if candidate.Overlaps(anchor) {
				group.Events = append(group.Events, candidate)
			}
		}
		if len(group.Events) < 2 {
			continue
		}
		if containedInExisting(groups, group) {
			continue
		}
		groups = append(groups, group)
	}
	s.metrics.RecordConflictReport(len(groups), 0)
	return groups, nil
}

// containedInExisting reports whether the candidate's event-id set is a
// subset of an already emitted group.
func containedInExisting(groups []models.ConflictGroup, candidate models.ConflictGroup) bool {
	ids := candidate.EventIDs()
	for _, group := range groups {
		existing := group.EventIDs()
		subset := true
		for id := range ids {
			if _, ok := existing[id]; !ok {
				subset = false
				break
			}
		}
		if subset {
			return true
		}
	}
	return false
}

func sortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].EndTime.Before(events[j].EndTime)
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
