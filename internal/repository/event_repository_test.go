package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

func newMockRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventRepository(sqlx.NewDb(db, "postgres")), mock
}

func eventColumns() []string {
	return []string{"event_id", "title", "start_time", "end_time", "source", "priority", "location", "notes"}
}

func TestEventRepositoryLoadAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(eventColumns()).
		AddRow("evt-1", "Standup", start, start.Add(30*time.Minute), "work", "high", nil, nil).
		AddRow("evt-2", "Review", start.Add(time.Hour), start.Add(2*time.Hour), "work", "medium", nil, nil)
	mock.ExpectQuery("SELECT event_id, title, start_time, end_time, source, priority, location, notes").
		WillReturnRows(rows)

	events, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].EventID)
	assert.Equal(t, models.PriorityHigh, events[0].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO events").
		WithArgs("evt-1", "Standup", start, start.Add(30*time.Minute), "work", "high", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), models.Event{
		EventID:   "evt-1",
		Title:     "Standup",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Source:    "work",
		Priority:  models.PriorityHigh,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM events").
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM events").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryQueryRange(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	rows := sqlmock.NewRows(eventColumns()).
		AddRow("evt-1", "Standup", start.Add(9*time.Hour), start.Add(10*time.Hour), "work", "high", nil, nil)
	mock.ExpectQuery("FROM events WHERE start_time").
		WithArgs(start, end).
		WillReturnRows(rows)

	events, err := repo.QueryRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}
