package admin

import (
	"context"

	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/pkg/logger"
)

type PharmacyService interface {
	AdminList(ctx context.Context, filter pharmacy.ListFilter) ([]pharmacy.Listing, pagination.Meta, error)
	Pending(ctx context.Context, params pagination.Params) ([]pharmacy.Listing, pagination.Meta, error)
	AdminGet(ctx context.Context, id uint) (*pharmacy.Listing, error)
	AdminCreate(ctx context.Context, input pharmacy.AdminInput) (*pharmacy.Pharmacy, error)
	AdminUpdate(ctx context.Context, id uint, input pharmacy.AdminInput) (*pharmacy.Pharmacy, error)
	Delete(ctx context.Context, actorID, id uint) error
	Restore(ctx context.Context, actorID, id uint) (*pharmacy.Pharmacy, error)
	Approve(ctx context.Context, actorID, id uint) (*pharmacy.Pharmacy, error)
	Reject(ctx context.Context, actorID, id uint) error
	ToggleActive(ctx context.Context, actorID, id uint) (*pharmacy.Pharmacy, error)
	AdminListReviews(ctx context.Context, filter pharmacy.ReviewFilter) ([]pharmacy.Review, pagination.Meta, error)
	ApproveReview(ctx context.Context, actorID, id uint) (*pharmacy.Review, error)
	DeleteReview(ctx context.Context, actorID, id uint) error
}

type ScheduleService interface {
	AdminList(ctx context.Context, filter schedule.ListFilter) ([]schedule.DutySchedule, pagination.Meta, error)
	AdminCreate(ctx context.Context, input schedule.AdminInput) (*schedule.DutySchedule, error)
	AdminUpdate(ctx context.Context, id uint, input schedule.UpdateInput) (*schedule.DutySchedule, error)
	AdminDelete(ctx context.Context, id uint) error
	BulkCreate(ctx context.Context, actorID uint, items []schedule.BulkItem) (*schedule.BulkResult, error)
	GenerateRotation(ctx context.Context, actorID uint, input schedule.RotationInput) (*schedule.RotationResult, error)
	Export(ctx context.Context, filter schedule.ListFilter) ([]schedule.DutySchedule, error)
}

type UserService interface {
	List(ctx context.Context, filter user.ListFilter) ([]user.User, pagination.Meta, error)
	Create(ctx context.Context, input user.CreateInput) (*user.User, error)
	Update(ctx context.Context, id uint, input user.UpdateInput) (*user.User, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type AuditService interface {
	List(ctx context.Context, filter audit.ListFilter) ([]audit.Entry, int64, error)
}

// ScheduleExporter renders schedules into a downloadable workbook.
type ScheduleExporter func(items []schedule.DutySchedule) ([]byte, error)

type Handlers struct {
	Pharmacies PharmacyService
	Schedules  ScheduleService
	Users      UserService
	Audit      AuditService
	Export     ScheduleExporter
	log        logger.Logger
}

func New(pharmacies PharmacyService, schedules ScheduleService, users UserService, auditLog AuditService, export ScheduleExporter, log logger.Logger) *Handlers {
	return &Handlers{
		Pharmacies: pharmacies,
		Schedules:  schedules,
		Users:      users,
		Audit:      auditLog,
		Export:     export,
		log:        log,
	}
}

func (h *Handlers) requestLog(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, h.log)
}
