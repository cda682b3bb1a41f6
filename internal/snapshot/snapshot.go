// Package snapshot persists task collections as JSON records in a key-value
// store. Load and Save never fail towards the caller: problems are logged and
// degrade to an empty collection or a skipped write.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/models"
)

// StorageKey is the key the task collection is kept under.
const StorageKey = "calendar-tasks"

// KeyFor returns the storage key holding userID's tasks.
func KeyFor(userID string) string {
	if userID == "" {
		return StorageKey
	}
	return StorageKey + "-" + userID
}

// KV is the key-value store a Store reads from and writes to.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
}

// record is the persisted form of a task. Dates are RFC 3339 timestamps at
// midnight.
type record struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Category  models.TaskCategory `json:"category"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
}

// Store loads and saves one task collection.
type Store struct {
	kv  KV
	key string
	loc *time.Location
	log zerolog.Logger
}

// New returns a Store keeping its collection under key in kv. Dates are
// written as midnight in loc.
func New(kv KV, key string, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{kv: kv, key: key, loc: loc, log: logging.With("snapshot")}
}

// OpenDisk returns a diskv-backed KV rooted at dir.
func OpenDisk(dir string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 1024 * 1024, // 1MB
	})
}

// Load returns the stored tasks. A missing key or unreadable data yields an
// empty collection.
func (s *Store) Load() []models.Task {
	data, err := s.kv.Read(s.key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error().Err(err).Str("key", s.key).Msg("failed to read tasks")
		}
		return []models.Task{}
	}

	tasks, err := Decode(data, s.loc)
	if err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("failed to load tasks")
		return []models.Task{}
	}
	return tasks
}

// Save writes tasks, replacing whatever was stored. Failures are logged.
func (s *Store) Save(tasks []models.Task) {
	data, err := Encode(tasks, s.loc)
	if err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("failed to encode tasks")
		return
	}
	if err := s.kv.Write(s.key, data); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("failed to save tasks")
		return
	}
	s.log.Debug().Str("key", s.key).Int("count", len(tasks)).Msg("tasks saved")
}

// Encode serializes tasks with both dates normalized to midnight in loc.
func Encode(tasks []models.Task, loc *time.Location) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:        t.ID,
			Name:      t.Name,
			Category:  t.Category,
			StartDate: midnightIn(t.StartDate, loc).Format(time.RFC3339),
			EndDate:   midnightIn(t.EndDate, loc).Format(time.RFC3339),
		})
	}
	return json.Marshal(records)
}

// Decode parses data written by Encode. Records whose dates cannot be parsed
// are dropped; malformed JSON is an error.
func Decode(data []byte, loc *time.Location) ([]models.Task, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	log := logging.With("snapshot")
	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		start, errStart := time.Parse(time.RFC3339, r.StartDate)
		end, errEnd := time.Parse(time.RFC3339, r.EndDate)
		if err := errors.Join(errStart, errEnd); err != nil {
			log.Warn().Err(err).Str("task_id", r.ID).Msg("skipping task with invalid dates")
			continue
		}
		tasks = append(tasks, models.Task{
			ID:        r.ID,
			Name:      r.Name,
			Category:  r.Category,
			StartDate: midnightIn(start, loc),
			EndDate:   midnightIn(end, loc),
		})
	}
	return tasks, nil
}

// midnightIn keeps t's calendar date and places it at midnight in loc.
func midnightIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := calendar.StartOfDay(t).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
