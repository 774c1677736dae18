package repository

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

// MemoryRepository keeps the encoded snapshot in process memory. It behaves
// like the persistent adapters, including strict decoding, which makes it a
// drop-in substitute in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	blob  []byte
	saves int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewMemoryRepositoryWithBlob seeds the slot with a raw blob.
func NewMemoryRepositoryWithBlob(blob []byte) *MemoryRepository {
	return &MemoryRepository{blob: append([]byte(nil), blob...)}
}

func (r *MemoryRepository) Save(ctx context.Context, tasks []models.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blob = data
	r.saves++
	return nil
}

func (r *MemoryRepository) Load(ctx context.Context) ([]models.Task, bool, error) {
	r.mu.RLock()
	blob := r.blob
	r.mu.RUnlock()

	if blob == nil {
		return nil, false, nil
	}
	return decodeLoaded(blob, "memory")
}

// Blob returns a copy of the stored snapshot.
func (r *MemoryRepository) Blob() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]byte(nil), r.blob...)
}

// Saves returns how many times Save succeeded.
func (r *MemoryRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

func decodeLoaded(blob []byte, source string) ([]models.Task, bool, error) {
	result, err := DecodeSnapshot(blob)
	if err != nil {
		return nil, true, fmt.Errorf("decode %s snapshot: %w", source, err)
	}
	if result.Skipped > 0 {
		log.Printf("[WARN] skipped %d malformed records in %s snapshot", result.Skipped, source)
	}
	return result.Tasks, true, nil
}
