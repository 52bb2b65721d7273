package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hoffmv/shipmate-ai/internal/models"
	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
)

type schedulerEventSource interface {
	QueryRange(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// SchedulerServiceConfig governs the working-hours window and planning horizon.
type SchedulerServiceConfig struct {
	WorkStartHour int
	WorkEndHour   int
	HorizonDays   int
}

// SchedulerService proposes non-overlapping time slots for pending tasks over
// the planning horizon, honoring working hours, existing busy time, per-task
// deadlines and priority ordering. It is a pure proposal engine: the calendar
// is never mutated and whether proposals get promoted to real events is an
// external decision.
type SchedulerService struct {
	store     schedulerEventSource
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SchedulerServiceConfig
	now       func() time.Time
}

// NewSchedulerService constructs the service.
func NewSchedulerService(store schedulerEventSource, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg SchedulerServiceConfig) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WorkStartHour <= 0 {
		cfg.WorkStartHour = 8
	}
	if cfg.WorkEndHour <= 0 || cfg.WorkEndHour <= cfg.WorkStartHour {
		cfg.WorkEndHour = 22
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 7
	}
	svc := &SchedulerService{store: store, metrics: metrics, validator: validate, logger: logger, cfg: cfg, now: time.Now}
	svc.validator.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	return svc
}

// pendingPlacement pairs a task with its parsed deadline for the run.
type pendingPlacement struct {
	task     models.PendingTask
	deadline time.Time
}

// ProposeSchedule packs the pending tasks into free working-hours blocks over
// the horizon. Tasks that cannot be placed before their deadline are omitted
// from the result; that is a normal outcome, not an error. A malformed task
// fails the whole call.
func (s *SchedulerService) ProposeSchedule(ctx context.Context, tasks []models.PendingTask) ([]models.SlotProposal, error) {
	pending := make([]pendingPlacement, 0, len(tasks))
	for _, task := range tasks {
		if err := s.validator.Struct(task); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pending task")
		}
		deadline, err := models.ParseDate(task.Deadline)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingPlacement{task: task, deadline: deadline})
	}

	today := models.StartOfDay(s.now())
	horizonEnd := today.AddDate(0, 0, s.cfg.HorizonDays)

	busy, err := s.store.QueryRange(ctx, today, horizonEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load busy blocks")
	}

	run := s.newRun(today, busy)
	orderTasks(pending)

	proposals := make([]models.SlotProposal, 0, len(pending))
	unplaced := 0
	for _, item := range pending {
		duration := time.Duration(item.task.EstimatedMinutes) * time.Minute
		proposal, ok := s.place(run, today, item, duration)
		if !ok {
			unplaced++
			continue
		}
		proposals = append(proposals, proposal)
	}

	s.metrics.RecordSchedulerRun(len(proposals), unplaced)
	s.logger.Info("schedule proposed",
		zap.Int("tasks", len(pending)),
		zap.Int("proposed", len(proposals)),
		zap.Int("unplaced", unplaced),
	)
	return proposals, nil
}

// place scans candidate days from today forward, skipping days past the
// task's deadline, and takes the first free block large enough, placing the
// task at the block's start (earliest-fit). Before committing, the proposed
// span is re-checked against every span already used in this run; on a
// collision the next block of the same day is tried.
func (s *SchedulerService) place(run *schedulerRun, today time.Time, item pendingPlacement, duration time.Duration) (models.SlotProposal, bool) {
	deadlineEnd := item.deadline.Add(24*time.Hour - time.Second)
	for offset := 0; offset < s.cfg.HorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if day.After(deadlineEnd) {
			continue
		}
		key := dayKey(day)
		for _, block := range run.free[key] {
			if block.End.Sub(block.Start) < duration {
				continue
			}
			start := block.Start
			end := start.Add(duration)
			if run.overlapsUsed(start, end) {
				continue
			}
			run.consume(key, block, start, end)
			return models.SlotProposal{
				Task:              item.task.Name,
				ProposedStartTime: start,
				ProposedEndTime:   end,
				Reason:            s.reason(item, start),
			}, true
		}
	}
	return models.SlotProposal{}, false
}

// reason picks the human-readable justification by the priority and
// deadline-proximity cascade.
func (s *SchedulerService) reason(item pendingPlacement, proposedStart time.Time) string {
	if item.task.Priority == models.PriorityHigh {
		return "High priority task fit into earliest available slot"
	}
	daysLeft := int(item.deadline.Sub(models.StartOfDay(proposedStart)).Hours() / 24)
	if daysLeft <= 1 {
		return "Task scheduled soon due to approaching deadline"
	}
	if item.task.Priority == models.PriorityMedium {
		return "Medium priority task scheduled in early available slot"
	}
	return "Task scheduled in available slot before deadline"
}

// orderTasks sorts in place: priority descending, soonest deadline first,
// shortest estimate first. The order is fixed once before placement.
func orderTasks(pending []pendingPlacement) {
	sort.SliceStable(pending, func(i, j int) bool {
		wi, wj := pending[i].task.Priority.Weight(), pending[j].task.Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		if !pending[i].deadline.Equal(pending[j].deadline) {
			return pending[i].deadline.Before(pending[j].deadline)
		}
		return pending[i].task.EstimatedMinutes < pending[j].task.EstimatedMinutes
	})
}

// schedulerRun owns the mutable per-run state: the free blocks remaining per
// day and the spans consumed by prior placements. Keeping this out of the
// service makes the scheduler reentrant.
type schedulerRun struct {
	free map[string][]models.FreeBlock
	used []models.FreeBlock
}

// newRun derives the free blocks for every day of the horizon: busy intervals
// are clipped to the day's working-hours window and complemented. Fully
// booked days yield no entry; empty days yield one block spanning the whole
// window.
func (s *SchedulerService) newRun(today time.Time, busy []models.Event) *schedulerRun {
	blocks := make([]models.FreeBlock, 0, len(busy))
	for _, event := range busy {
		blocks = append(blocks, models.FreeBlock{Start: event.StartTime, End: event.EndTime})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start.Before(blocks[j].Start) })

	free := make(map[string][]models.FreeBlock, s.cfg.HorizonDays)
	for offset := 0; offset < s.cfg.HorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		workStart := day.Add(time.Duration(s.cfg.WorkStartHour) * time.Hour)
		workEnd := day.Add(time.Duration(s.cfg.WorkEndHour) * time.Hour)

		dayBusy := make([]models.FreeBlock, 0)
		for _, block := range blocks {
			clippedStart := maxTime(block.Start, workStart)
			clippedEnd := minTime(block.End, workEnd)
			if clippedStart.Before(clippedEnd) {
				dayBusy = append(dayBusy, models.FreeBlock{Start: clippedStart, End: clippedEnd})
			}
		}
		sort.Slice(dayBusy, func(i, j int) bool { return dayBusy[i].Start.Before(dayBusy[j].Start) })

		dayFree := make([]models.FreeBlock, 0)
		cursor := workStart
		for _, block := range dayBusy {
			if block.Start.After(cursor) {
				dayFree = append(dayFree, models.FreeBlock{Start: cursor, End: block.Start})
			}
			cursor = maxTime(cursor, block.End)
		}
		if cursor.Before(workEnd) {
			dayFree = append(dayFree, models.FreeBlock{Start: cursor, End: workEnd})
		}
		if len(dayFree) > 0 {
			free[dayKey(day)] = dayFree
		}
	}
	return &schedulerRun{free: free, used: make([]models.FreeBlock, 0)}
}

// overlapsUsed is the explicit cross-task guard, independent of the
// free-block bookkeeping.
func (r *schedulerRun) overlapsUsed(start, end time.Time) bool {
	for _, span := range r.used {
		if start.Before(span.End) && span.Start.Before(end) {
			return true
		}
	}
	return false
}

// consume removes the chosen block and re-inserts the unused leftovers before
// and after the placed span, then records the span as used.
func (r *schedulerRun) consume(day string, block models.FreeBlock, start, end time.Time) {
	blocks := r.free[day]
	remaining := make([]models.FreeBlock, 0, len(blocks)+1)
	for _, b := range blocks {
		if b.Start.Equal(block.Start) && b.End.Equal(block.End) {
			continue
		}
		remaining = append(remaining, b)
	}
	if block.Start.Before(start) {
		remaining = append(remaining, models.FreeBlock{Start: block.Start, End: start})
	}
	if end.Before(block.End) {
		remaining = append(remaining, models.FreeBlock{Start: end, End: block.End})
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].Start.Before(remaining[j].Start) })
	r.free[day] = remaining
	r.used = append(r.used, models.FreeBlock{Start: start, End: end})
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
