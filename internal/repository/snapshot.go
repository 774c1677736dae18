// internal/repository/snapshot.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

// SnapshotKey is the fixed key of the storage slot holding the task list.
const SnapshotKey = "todos"

// ErrMalformedSnapshot means the stored blob is not a JSON array of records.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// timestampLayout matches what a browser's Date.toISOString produces.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// SnapshotRepository loads and saves the whole task list under one key.
type SnapshotRepository interface {
	// Save overwrites the slot with the encoded list.
	Save(ctx context.Context, tasks []models.Task) error
	// Load returns found=false when the slot has never been written.
	Load(ctx context.Context) (tasks []models.Task, found bool, err error)
}

type snapshotRecord struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"createdAt"`
	DueDate   *string `json:"dueDate,omitempty"`
}

// rawRecord uses pointers so missing fields can be told apart from zero values.
type rawRecord struct {
	ID        *string `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	CreatedAt *string `json:"createdAt"`
	DueDate   *string `json:"dueDate"`
}

// FormatTimestamp encodes t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// EncodeSnapshot serializes tasks in list order.
func EncodeSnapshot(tasks []models.Task) ([]byte, error) {
	records := make([]snapshotRecord, 0, len(tasks))
	for _, t := range tasks {
		rec := snapshotRecord{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: FormatTimestamp(t.CreatedAt),
		}
		if t.DueDate != nil {
			due := FormatTimestamp(*t.DueDate)
			rec.DueDate = &due
		}
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeResult is the outcome of a strict decode.
type DecodeResult struct {
	Tasks   []models.Task
	Skipped int
}

// DecodeSnapshot parses a stored blob. A blob that is not a JSON array fails
// with ErrMalformedSnapshot. Records with missing or mistyped fields, and
// records repeating an earlier id, are skipped and counted.
func DecodeSnapshot(data []byte) (DecodeResult, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	result := DecodeResult{Tasks: make([]models.Task, 0, len(raws))}
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		task, err := decodeRecord(raw)
		if err != nil {
			result.Skipped++
			continue
		}
		if _, dup := seen[task.ID]; dup {
			result.Skipped++
			continue
		}
		seen[task.ID] = struct{}{}
		result.Tasks = append(result.Tasks, task)
	}
	return result, nil
}

func decodeRecord(raw json.RawMessage) (models.Task, error) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Task{}, err
	}

	switch {
	case rec.ID == nil || *rec.ID == "":
		return models.Task{}, errors.New("missing id")
	case rec.Text == nil || strings.TrimSpace(*rec.Text) == "":
		return models.Task{}, errors.New("missing text")
	case rec.Completed == nil:
		return models.Task{}, errors.New("missing completed")
	case rec.CreatedAt == nil:
		return models.Task{}, errors.New("missing createdAt")
	}

	createdAt, err := ParseTimestamp(*rec.CreatedAt)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:        *rec.ID,
		Text:      *rec.Text,
		Completed: *rec.Completed,
		CreatedAt: createdAt,
	}
	if rec.DueDate != nil {
		due, err := ParseTimestamp(*rec.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		task.DueDate = &due
	}
	return task, nil
}
