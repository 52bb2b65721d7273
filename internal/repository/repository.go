package repository

import (
	"context"
	"time"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

// EventStore is the durable keyed storage contract consumed by the calendar
// services. Two implementations exist: the Postgres-backed EventRepository and
// the flat-file FileEventRepository.
type EventStore interface {
	LoadAll(ctx context.Context) ([]models.Event, error)
	Upsert(ctx context.Context, event models.Event) error
	Delete(ctx context.Context, eventID string) (bool, error)
	QueryRange(ctx context.Context, start, end time.Time) ([]models.Event, error)
}
