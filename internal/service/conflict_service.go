package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hoffmv/shipmate-ai/internal/models"
	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
)

const resolutionCacheKey = "conflicts:resolutions"

type conflictEventSource interface {
	LoadAll(ctx context.Context) ([]models.Event, error)
}

// ConflictService decides, for every group of overlapping events, which one
// stays in place and which ones should be rescheduled. It never mutates the
// store; applying decisions is the caller's business.
type ConflictService struct {
	store   conflictEventSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewConflictService constructs the service.
func NewConflictService(store conflictEventSource, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// Resolve loads all events, detects overlap groups and returns one
// keep/reschedule decision per displaced event.
func (s *ConflictService) Resolve(ctx context.Context) ([]models.ResolutionDecision, error) {
	var cached []models.ResolutionDecision
	if hit, err := s.cache.Get(ctx, resolutionCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	groups := s.detectOverlaps(events)
	decisions := s.analyze(groups)

	s.metrics.RecordConflictReport(len(groups), len(decisions))
	if err := s.cache.Set(ctx, resolutionCacheKey, decisions, 0); err != nil {
		s.logger.Warn("resolution cache set failed", zap.Error(err))
	}
	return decisions, nil
}

// detectOverlaps sweeps events in start-time order, accumulating each event
// into the current group while it overlaps the most recently added member.
// The chaining is deliberately different from CalendarService.Conflicts:
// here a group is a transitive-by-adjacency cluster, there it is anchored on
// a single event. Both semantics ship on purpose; do not unify them.
func (s *ConflictService) detectOverlaps(events []models.Event) []models.ConflictGroup {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	groups := make([]models.ConflictGroup, 0)
	var current []models.Event
	for _, event := range sorted {
		if len(current) == 0 {
			current = append(current, event)
			continue
		}
		last := current[len(current)-1]
		if event.Overlaps(last) {
			current = append(current, event)
			continue
		}
		if len(current) > 1 {
			groups = append(groups, models.ConflictGroup{Events: current})
		}
		current = []models.Event{event}
	}
	if len(current) > 1 {
		groups = append(groups, models.ConflictGroup{Events: current})
	}
	return groups
}

// analyze ranks each group and emits one decision per displaced event.
// Ranking, ascending: negative priority weight, distance from now to the
// event start, event duration. The first event after the sort is kept.
func (s *ConflictService) analyze(groups []models.ConflictGroup) []models.ResolutionDecision {
	now := s.now()
	decisions := make([]models.ResolutionDecision, 0)
	for _, group := range groups {
		ranked := make([]models.Event, len(group.Events))
		copy(ranked, group.Events)
		sort.SliceStable(ranked, func(i, j int) bool {
			wi, wj := ranked[i].Priority.Weight(), ranked[j].Priority.Weight()
			if wi != wj {
				return wi > wj
			}
			di, dj := absDuration(ranked[i].StartTime.Sub(now)), absDuration(ranked[j].StartTime.Sub(now))
			if di != dj {
				return di < dj
			}
			return ranked[i].Duration() < ranked[j].Duration()
		})

		keep := ranked[0]
		for _, reschedule := range ranked[1:] {
			decisions = append(decisions, models.ResolutionDecision{
				KeepEventID:       keep.EventID,
				RescheduleEventID: reschedule.EventID,
				Reason:            s.buildReason(keep, reschedule, now),
			})
		}
	}
	return decisions
}

// buildReason walks the same criteria cascade as the ranking: priority, then
// distance from now, then duration.
func (s *ConflictService) buildReason(keep, reschedule models.Event, now time.Time) string {
	kw, rw := keep.Priority.Weight(), reschedule.Priority.Weight()
	if kw > rw {
		return fmt.Sprintf("%s priority event overrides %s priority", capitalize(string(keep.Priority)), reschedule.Priority)
	}
	if kw < rw {
		return fmt.Sprintf("%s priority event overrides %s priority", capitalize(string(reschedule.Priority)), keep.Priority)
	}

	kd := absDuration(keep.StartTime.Sub(now))
	rd := absDuration(reschedule.StartTime.Sub(now))
	if kd < rd {
		return "Event closer to now takes precedence"
	}
	if kd > rd {
		return "Event further from now can be rescheduled"
	}

	if keep.Duration() < reschedule.Duration() {
		return "Shorter event is easier to keep in place"
	}
	return "Longer event can be rescheduled"
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
