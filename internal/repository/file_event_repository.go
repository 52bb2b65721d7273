package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hoffmv/shipmate-ai/internal/models"
)

// FileEventRepository persists calendar events as a single JSON document on
// disk. Every operation loads the whole collection, works in memory and
// rewrites the file. Writes are serialized behind a mutex so concurrent
// callers within one process cannot lose updates; cross-process racing is
// last-writer-wins at file granularity.
type FileEventRepository struct {
	path string
	mu   sync.Mutex
}

// eventRecord is the on-disk shape: timestamps stay ISO-8601 strings.
type eventRecord struct {
	EventID   string  `json:"event_id"`
	Title     string  `json:"title"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Source    string  `json:"source"`
	Priority  string  `json:"priority"`
	Location  *string `json:"location,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// NewFileEventRepository ensures the backing file exists and returns a handle.
func NewFileEventRepository(path string) (*FileEventRepository, error) {
	if path == "" {
		path = "./memory/calendar_events.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create event store directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return nil, fmt.Errorf("initialise event store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat event store file: %w", err)
	}
	return &FileEventRepository{path: path}, nil
}

// LoadAll returns every stored event.
func (r *FileEventRepository) LoadAll(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Upsert inserts the event or replaces the record bearing the same event_id.
func (r *FileEventRepository) Upsert(ctx context.Context, event models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range events {
		if existing.EventID == event.EventID {
			events[i] = event
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, event)
	}
	return r.save(events)
}

// Delete removes an event by id and reports whether a record was removed.
func (r *FileEventRepository) Delete(ctx context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return false, err
	}
	kept := events[:0]
	for _, event := range events {
		if event.EventID != eventID {
			kept = append(kept, event)
		}
	}
	if len(kept) == len(events) {
		return false, nil
	}
	return true, r.save(kept)
}

// QueryRange returns events overlapping the [start, end) window ordered by start time.
func (r *FileEventRepository) QueryRange(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Event, 0, len(events))
	for _, event := range events {
		if event.StartTime.Before(end) && event.EndTime.After(start) {
			filtered = append(filtered, event)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartTime.Before(filtered[j].StartTime)
	})
	return filtered, nil
}

func (r *FileEventRepository) load() ([]models.Event, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read event store file: %w", err)
	}
	var records []eventRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode event store file: %w", err)
	}
	events := make([]models.Event, 0, len(records))
	for _, record := range records {
		event, err := record.toEvent()
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", record.EventID, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *FileEventRepository) save(events []models.Event) error {
	records := make([]eventRecord, 0, len(events))
	for _, event := range events {
		records = append(records, toRecord(event))
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode event store file: %w", err)
	}
	if err := os.WriteFile(r.path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write event store file: %w", err)
	}
	return nil
}

func (r eventRecord) toEvent() (models.Event, error) {
	start, err := models.ParseEventTime(r.StartTime)
	if err != nil {
		return models.Event{}, err
	}
	end, err := models.ParseEventTime(r.EndTime)
	if err != nil {
		return models.Event{}, err
	}
	return models.Event{
		EventID:   r.EventID,
		Title:     r.Title,
		StartTime: start,
		EndTime:   end,
		Source:    r.Source,
		Priority:  models.Priority(r.Priority),
		Location:  r.Location,
		Notes:     r.Notes,
	}, nil
}

func toRecord(event models.Event) eventRecord {
	return eventRecord{
		EventID:   event.EventID,
		Title:     event.Title,
		StartTime: event.StartTime.Format(time.RFC3339),
		EndTime:   event.EndTime.Format(time.RFC3339),
		Source:    event.Source,
		Priority:  string(event.Priority),
		Location:  event.Location,
		Notes:     event.Notes,
	}
}
