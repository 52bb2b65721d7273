package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

// EventRepository persists calendar events in PostgreSQL.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// LoadAll returns every stored event ordered by start then end time.
func (r *EventRepository) LoadAll(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT event_id, title, start_time, end_time, source, priority, location, notes
FROM events ORDER BY start_time ASC, end_time ASC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return events, nil
}

// Upsert inserts the event or replaces the record bearing the same event_id.
func (r *EventRepository) Upsert(ctx context.Context, event models.Event) error {
	query := `INSERT INTO events (event_id, title, start_time, end_time, source, priority, location, notes)
VALUES (:event_id, :title, :start_time, :end_time, :source, :priority, :location, :notes)
ON CONFLICT (event_id) DO UPDATE SET
	title = EXCLUDED.title,
	start_time = EXCLUDED.start_time,
	end_time = EXCLUDED.end_time,
	source = EXCLUDED.source,
	priority = EXCLUDED.priority,
	location = EXCLUDED.location,
	notes = EXCLUDED.notes`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

// Delete removes an event by id and reports whether a row was removed.
func (r *EventRepository) Delete(ctx context.Context, eventID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE event_id = $1", eventID)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete event rows affected: %w", err)
	}
	return affected > 0, nil
}

// QueryRange returns events overlapping the [start, end) window ordered by start time.
func (r *EventRepository) QueryRange(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	const query = `SELECT event_id, title, start_time, end_time, source, priority, location, notes
FROM events WHERE start_time < $2 AND end_time > $1 ORDER BY start_time ASC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, start, end); err != nil {
		return nil, fmt.Errorf("query events range: %w", err)
	}
	return events, nil
}
