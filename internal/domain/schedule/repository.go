package schedule

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id uint) (*DutySchedule, error)
	// ExistsForDate ignores the schedule with excludeID; pass 0 to check every row.
	ExistsForDate(ctx context.Context, pharmacyID uint, date time.Time, excludeID uint) (bool, error)
	// Create reports ErrScheduleConflict when the (pharmacy, date) pair is already taken.
	Create(ctx context.Context, schedule *DutySchedule) error
	// CreateIfAbsent inserts unless the pair is taken and reports whether a row was written.
	// It never aborts the surrounding transaction on a duplicate.
	CreateIfAbsent(ctx context.Context, schedule *DutySchedule) (bool, error)
	Update(ctx context.Context, schedule *DutySchedule) error
	Delete(ctx context.Context, id uint) error

	// The public queries only return schedules of active, approved, non-deleted pharmacies.
	ListOnDutyAt(ctx context.Context, date time.Time, clock string) ([]DutySchedule, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]DutySchedule, error)
	ListRange(ctx context.Context, from, to time.Time) ([]DutySchedule, error)

	List(ctx context.Context, filter ListFilter) ([]DutySchedule, int64, error)
	ActivePharmacyIDs(ctx context.Context) ([]uint, error)
	ExistingPharmacyIDs(ctx context.Context, ids []uint) ([]uint, error)
}
