package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
)

// MemoryActivityRepository keeps activities in process, for the memory store mode and tests
type MemoryActivityRepository struct {
	mu         sync.RWMutex
	activities map[uint64]models.Activity
	now        func() time.Time
}

func NewMemoryActivityRepository(seed []models.Activity) *MemoryActivityRepository {
	r := &MemoryActivityRepository{
		activities: make(map[uint64]models.Activity, len(seed)),
		now:        time.Now,
	}
	for _, a := range seed {
		r.activities[a.ID] = a
	}
	return r
}

// List returns the activities ordered by id
func (r *MemoryActivityRepository) List(_ context.Context) ([]models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activities := make([]models.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })
	return activities, nil
}

// UpdateDates replaces the date of known activities. Unknown ids fail the whole call.
func (r *MemoryActivityRepository) UpdateDates(_ context.Context, activities []models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range activities {
		if _, ok := r.activities[a.ID]; !ok {
			return fmt.Errorf("failed to update activity %d: %w", a.ID, ErrNotFound)
		}
	}

	now := r.now()
	for _, a := range activities {
		stored := r.activities[a.ID]
		stored.Date = a.Date
		stored.UpdatedAt = now
		r.activities[a.ID] = stored
	}
	return nil
}
