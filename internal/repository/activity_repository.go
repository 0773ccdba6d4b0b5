package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
)

// ErrNotFound is returned when an activity id does not exist
var ErrNotFound = errors.New("activity not found")

// ActivityRepositoryInterface defines the interface for activity repository operations
type ActivityRepositoryInterface interface {
	List(ctx context.Context) ([]models.Activity, error)
	UpdateDates(ctx context.Context, activities []models.Activity) error
}

type ActivityRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// List retrieves every activity of the program
func (r *ActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	query := "SELECT id, title, description, location, date, created_at, updated_at FROM activities ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.Location,
			&a.Date,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, nil
}

// UpdateDates writes the date column of the given activities in one transaction
func (r *ActivityRepository) UpdateDates(ctx context.Context, activities []models.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.now()
	for _, a := range activities {
		res, err := tx.ExecContext(ctx, "UPDATE activities SET date = ?, updated_at = ? WHERE id = ?", a.Date, now, a.ID)
		if err != nil {
			return fmt.Errorf("failed to update activity %d: %w", a.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("failed to update activity %d: %w", a.ID, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity dates: %w", err)
	}

	return nil
}
