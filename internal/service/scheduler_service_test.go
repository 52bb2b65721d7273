package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

func newSchedulerService(store *stubEventStore, now time.Time) *SchedulerService {
	svc := NewSchedulerService(store, nil, nil, nil, SchedulerServiceConfig{})
	svc.now = func() time.Time { return now }
	return svc
}

func busyEvent(id string, start, end time.Time) models.Event {
	return models.Event{EventID: id, Title: id, StartTime: start, EndTime: end, Source: "test", Priority: models.PriorityMedium}
}

func TestProposeScheduleEarliestFitAroundBusyDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	store := &stubEventStore{events: []models.Event{
		busyEvent("watch", day.Add(9*time.Hour), day.Add(17*time.Hour)),
	}}
	svc := newSchedulerService(store, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "Chart review", EstimatedMinutes: 60, Deadline: "2025-03-10", Priority: models.PriorityHigh},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)

	// The only hour before the busy block inside working hours.
	assert.True(t, proposals[0].ProposedStartTime.Equal(day.Add(8*time.Hour)))
	assert.True(t, proposals[0].ProposedEndTime.Equal(day.Add(9*time.Hour)))
	assert.Equal(t, "Chart review", proposals[0].Task)
	assert.Equal(t, "High priority task fit into earliest available slot", proposals[0].Reason)
}

func TestProposeScheduleProposalsNeverOverlap(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	store := &stubEventStore{events: []models.Event{
		busyEvent("watch", day.Add(9*time.Hour), day.Add(17*time.Hour)),
	}}
	svc := newSchedulerService(store, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "t1", EstimatedMinutes: 60, Deadline: "2025-03-11", Priority: models.PriorityMedium},
		{Name: "t2", EstimatedMinutes: 60, Deadline: "2025-03-11", Priority: models.PriorityMedium},
		{Name: "t3", EstimatedMinutes: 60, Deadline: "2025-03-11", Priority: models.PriorityMedium},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 3)

	busyStart := day.Add(9 * time.Hour)
	busyEnd := day.Add(17 * time.Hour)
	for i, p := range proposals {
		assert.True(t, p.ProposedStartTime.Before(p.ProposedEndTime))
		overlapsBusy := p.ProposedStartTime.Before(busyEnd) && busyStart.Before(p.ProposedEndTime)
		assert.False(t, overlapsBusy, "proposal %d collides with existing event", i)
		for j := i + 1; j < len(proposals); j++ {
			q := proposals[j]
			overlap := p.ProposedStartTime.Before(q.ProposedEndTime) && q.ProposedStartTime.Before(p.ProposedEndTime)
			assert.False(t, overlap, "proposals %d and %d overlap", i, j)
		}
	}
}

func TestProposeScheduleOmitsTasksPastDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	store := &stubEventStore{events: []models.Event{
		busyEvent("allday", day.Add(8*time.Hour), day.Add(21*time.Hour)),
	}}
	svc := newSchedulerService(store, now)

	// Only one free hour remains today and both deadlines expire tonight.
	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "fits", EstimatedMinutes: 60, Deadline: "2025-03-10", Priority: models.PriorityMedium},
		{Name: "left-out", EstimatedMinutes: 60, Deadline: "2025-03-10", Priority: models.PriorityMedium},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "fits", proposals[0].Task)
	assert.True(t, proposals[0].ProposedStartTime.Equal(day.Add(21*time.Hour)))
}

func TestProposeScheduleRollsToNextFreeDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	store := &stubEventStore{events: []models.Event{
		busyEvent("allday", day.Add(8*time.Hour), day.Add(22*time.Hour)),
	}}
	svc := newSchedulerService(store, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "audit", EstimatedMinutes: 90, Deadline: "2025-03-14", Priority: models.PriorityLow},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.True(t, proposals[0].ProposedStartTime.Equal(day.AddDate(0, 0, 1).Add(8*time.Hour)))
	assert.Equal(t, "Task scheduled in available slot before deadline", proposals[0].Reason)
}

func TestProposeScheduleHighPriorityPlacedFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	store := &stubEventStore{}
	svc := newSchedulerService(store, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "cleanup", EstimatedMinutes: 60, Deadline: "2025-03-12", Priority: models.PriorityLow},
		{Name: "incident", EstimatedMinutes: 60, Deadline: "2025-03-12", Priority: models.PriorityHigh},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	// Ranking runs before placement, so the high priority task takes the
	// earlier slot regardless of request order.
	assert.Equal(t, "incident", proposals[0].Task)
	assert.Equal(t, "cleanup", proposals[1].Task)
	assert.True(t, proposals[0].ProposedStartTime.Before(proposals[1].ProposedStartTime))
}

func TestProposeScheduleMediumPriorityReason(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	svc := newSchedulerService(&stubEventStore{}, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "inventory", EstimatedMinutes: 45, Deadline: "2025-03-14", Priority: models.PriorityMedium},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "Medium priority task scheduled in early available slot", proposals[0].Reason)
}

func TestProposeScheduleApproachingDeadlineReason(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	svc := newSchedulerService(&stubEventStore{}, now)

	proposals, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "report", EstimatedMinutes: 30, Deadline: "2025-03-10", Priority: models.PriorityLow},
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "Task scheduled soon due to approaching deadline", proposals[0].Reason)
}

func TestProposeScheduleRejectsMalformedTask(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	svc := newSchedulerService(&stubEventStore{}, now)

	_, err := svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "ok", EstimatedMinutes: 30, Deadline: "2025-03-11", Priority: models.PriorityLow},
		{Name: "bad", EstimatedMinutes: 30, Deadline: "next tuesday", Priority: models.PriorityLow},
	})
	require.Error(t, err)

	_, err = svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "bad", EstimatedMinutes: 0, Deadline: "2025-03-11", Priority: models.PriorityLow},
	})
	require.Error(t, err)

	_, err = svc.ProposeSchedule(context.Background(), []models.PendingTask{
		{Name: "bad", EstimatedMinutes: 30, Deadline: "2025-03-11", Priority: "urgent"},
	})
	require.Error(t, err)
}

func TestProposeScheduleEmptyTaskList(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
	svc := newSchedulerService(&stubEventStore{}, now)

	proposals, err := svc.ProposeSchedule(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, proposals)
}
