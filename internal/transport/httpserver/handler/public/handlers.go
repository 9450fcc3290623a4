package public

import (
	"context"
	"time"

	"pharmaduty-go/internal/domain/neighborhood"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/statistics"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/pkg/logger"
)

type PharmacyService interface {
	ListPublic(ctx context.Context, filter pharmacy.ListFilter) ([]pharmacy.Listing, pagination.Meta, error)
	GetPublic(ctx context.Context, id uint) (*pharmacy.Details, error)
	SubmitReview(ctx context.Context, pharmacyID uint, input pharmacy.ReviewInput) (*pharmacy.Review, error)
}

type ScheduleService interface {
	OnDutyNow(ctx context.Context) ([]schedule.DutySchedule, error)
	OnDutyToday(ctx context.Context) ([]schedule.DutySchedule, error)
	Range(ctx context.Context, from, to *time.Time) ([]schedule.DutySchedule, time.Time, time.Time, error)
	Calendar(ctx context.Context, month, year int) (map[string][]schedule.DutySchedule, error)
	Week(ctx context.Context) ([]schedule.DutySchedule, time.Time, time.Time, error)
}

type NeighborhoodService interface {
	List(ctx context.Context) ([]neighborhood.Neighborhood, error)
	Get(ctx context.Context, id uint) (*neighborhood.Neighborhood, error)
}

type StatisticsService interface {
	Summary(ctx context.Context) (statistics.Summary, error)
}

type Handlers struct {
	Pharmacies    PharmacyService
	Schedules     ScheduleService
	Neighborhoods NeighborhoodService
	Statistics    StatisticsService
	log           logger.Logger
}

func New(pharmacies PharmacyService, schedules ScheduleService, neighborhoods NeighborhoodService, stats StatisticsService, log logger.Logger) *Handlers {
	return &Handlers{
		Pharmacies:    pharmacies,
		Schedules:     schedules,
		Neighborhoods: neighborhoods,
		Statistics:    stats,
		log:           log,
	}
}

func (h *Handlers) requestLog(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, h.log)
}
