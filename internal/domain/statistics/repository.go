package statistics

import (
	"context"
	"time"
)

// Repository counts only non-deleted pharmacies; the duty counters follow the public visibility rules.
type Repository interface {
	CountPharmacies(ctx context.Context) (int64, error)
	CountActivePharmacies(ctx context.Context) (int64, error)
	CountNeighborhoods(ctx context.Context) (int64, error)
	CountOnDuty(ctx context.Context, date time.Time) (int64, error)
	CountOnDutyAt(ctx context.Context, date time.Time, clock string) (int64, error)
	CountSchedulesBetween(ctx context.Context, from, to time.Time) (int64, error)
}
