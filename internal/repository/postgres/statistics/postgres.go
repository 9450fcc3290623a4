package statistics

import (
	"context"
	"time"

	"gorm.io/gorm"

	neighborhooddomain "pharmaduty-go/internal/domain/neighborhood"
	pharmacydomain "pharmaduty-go/internal/domain/pharmacy"
	scheduledomain "pharmaduty-go/internal/domain/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountPharmacies(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&pharmacydomain.Pharmacy{}))
}

func (r *PostgresRepository) CountActivePharmacies(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).
		Model(&pharmacydomain.Pharmacy{}).
		Where("is_active = ? AND is_approved = ?", true, true))
}

func (r *PostgresRepository) CountNeighborhoods(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&neighborhooddomain.Neighborhood{}))
}

func (r *PostgresRepository) CountOnDuty(ctx context.Context, date time.Time) (int64, error) {
	return r.count(r.publicSchedules(ctx).Where("duty_schedules.duty_date = ?", date))
}

func (r *PostgresRepository) CountOnDutyAt(ctx context.Context, date time.Time, clock string) (int64, error) {
	return r.count(r.publicSchedules(ctx).
		Where("duty_schedules.duty_date = ?", date).
		Where("duty_schedules.start_time <= ? AND duty_schedules.end_time >= ?", clock, clock))
}

func (r *PostgresRepository) CountSchedulesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(r.db.WithContext(ctx).
		Model(&scheduledomain.DutySchedule{}).
		Where("duty_date BETWEEN ? AND ?", from, to))
}

func (r *PostgresRepository) publicSchedules(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&scheduledomain.DutySchedule{}).
		Joins("JOIN pharmacies ON pharmacies.id = duty_schedules.pharmacy_id").
		Where("pharmacies.is_active = ? AND pharmacies.is_approved = ? AND pharmacies.deleted_at IS NULL", true, true)
}

func (r *PostgresRepository) count(query *gorm.DB) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
