package pharmacist

import (
	"context"

	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/pkg/logger"
)

type PharmacyService interface {
	GetOwned(ctx context.Context, userID uint) (*pharmacy.Listing, error)
	UpdateOwned(ctx context.Context, userID uint, input pharmacy.Input) (*pharmacy.Pharmacy, error)
}

type ProfileService interface {
	Get(ctx context.Context, id uint) (*user.User, error)
	UpdateProfile(ctx context.Context, id uint, input user.ProfileInput) (*user.User, error)
}

type ScheduleService interface {
	ListOwned(ctx context.Context, userID uint, filter schedule.ListFilter) ([]schedule.DutySchedule, pagination.Meta, error)
	CreateOwned(ctx context.Context, userID uint, input schedule.Input) (*schedule.DutySchedule, error)
	UpdateOwned(ctx context.Context, userID, id uint, input schedule.UpdateInput) (*schedule.DutySchedule, error)
	DeleteOwned(ctx context.Context, userID, id uint) error
}

type Handlers struct {
	Pharmacies PharmacyService
	Profiles   ProfileService
	Schedules  ScheduleService
	log        logger.Logger
}

func New(pharmacies PharmacyService, profiles ProfileService, schedules ScheduleService, log logger.Logger) *Handlers {
	return &Handlers{
		Pharmacies: pharmacies,
		Profiles:   profiles,
		Schedules:  schedules,
		log:        log,
	}
}

func (h *Handlers) requestLog(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, h.log)
}
