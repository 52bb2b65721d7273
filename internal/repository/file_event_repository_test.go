package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

func newFileRepo(t *testing.T) *FileEventRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory", "calendar_events.json")
	repo, err := NewFileEventRepository(path)
	require.NoError(t, err)
	return repo
}

func fileTestEvent(id string, start, end time.Time) models.Event {
	return models.Event{
		EventID:   id,
		Title:     "Event " + id,
		StartTime: start,
		EndTime:   end,
		Source:    "test",
		Priority:  models.PriorityMedium,
	}
}

func TestFileEventRepositoryStartsEmpty(t *testing.T) {
	repo := newFileRepo(t)

	events, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFileEventRepositoryUpsertReplacesById(t *testing.T) {
	repo := newFileRepo(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	event := fileTestEvent("evt-1", base, base.Add(time.Hour))
	require.NoError(t, repo.Upsert(context.Background(), event))

	event.Title = "Updated title"
	require.NoError(t, repo.Upsert(context.Background(), event))

	events, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1, "re-adding the same id must not duplicate")
	assert.Equal(t, "Updated title", events[0].Title)
}

func TestFileEventRepositoryDelete(t *testing.T) {
	repo := newFileRepo(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	require.NoError(t, repo.Upsert(context.Background(), fileTestEvent("evt-1", base, base.Add(time.Hour))))

	removed, err := repo.Delete(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, removed, "missing id is a soft outcome, not an error")
}

func TestFileEventRepositoryQueryRange(t *testing.T) {
	repo := newFileRepo(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	require.NoError(t, repo.Upsert(context.Background(), fileTestEvent("inside", base, base.Add(time.Hour))))
	require.NoError(t, repo.Upsert(context.Background(), fileTestEvent("straddles", base.Add(-2*time.Hour), base.Add(30*time.Minute))))
	require.NoError(t, repo.Upsert(context.Background(), fileTestEvent("outside", base.Add(48*time.Hour), base.Add(49*time.Hour))))

	events, err := repo.QueryRange(context.Background(), base.Add(-time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "straddles", events[0].EventID, "results are ordered by start time")
	assert.Equal(t, "inside", events[1].EventID)
}

func TestFileEventRepositoryRoundTripsTimestamps(t *testing.T) {
	repo := newFileRepo(t)
	start := time.Date(2025, 3, 10, 9, 15, 0, 0, time.Local)
	end := start.Add(45 * time.Minute)
	location := "bridge"

	event := fileTestEvent("evt-1", start, end)
	event.Location = &location
	require.NoError(t, repo.Upsert(context.Background(), event))

	events, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].StartTime.Equal(start))
	assert.True(t, events[0].EndTime.Equal(end))
	require.NotNil(t, events[0].Location)
	assert.Equal(t, "bridge", *events[0].Location)
}
