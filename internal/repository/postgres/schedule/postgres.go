package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pharmaduty-go/internal/db"
	pharmacydomain "pharmaduty-go/internal/domain/pharmacy"
	domain "pharmaduty-go/internal/domain/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// publicPharmacies restricts a duty_schedules query to pharmacies visitors may see.
func publicPharmacies(tx *gorm.DB) *gorm.DB {
	return tx.
		Joins("JOIN pharmacies ON pharmacies.id = duty_schedules.pharmacy_id").
		Where("pharmacies.is_active = ? AND pharmacies.is_approved = ? AND pharmacies.deleted_at IS NULL", true, true)
}

// withPharmacy loads the pharmacy even when it was soft-deleted, so admin listings keep their rows labelled.
func withPharmacy(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Pharmacy", func(q *gorm.DB) *gorm.DB { return q.Unscoped() }).
		Preload("Pharmacy.Neighborhood")
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*domain.DutySchedule, error) {
	var found domain.DutySchedule
	if err := r.db.WithContext(ctx).Scopes(withPharmacy).First(&found, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) ExistsForDate(ctx context.Context, pharmacyID uint, date time.Time, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.DutySchedule{}).
		Where("pharmacy_id = ? AND duty_date = ?", pharmacyID, date)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, schedule *domain.DutySchedule) error {
	if err := r.db.WithContext(ctx).Omit("Pharmacy").Create(schedule).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrScheduleConflict
		}
		if db.IsForeignKeyViolation(err) {
			return pharmacydomain.ErrPharmacyNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, schedule *domain.DutySchedule) (bool, error) {
	result := r.db.WithContext(ctx).
		Omit("Pharmacy").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pharmacy_id"}, {Name: "duty_date"}},
			DoNothing: true,
		}).
		Create(schedule)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) Update(ctx context.Context, schedule *domain.DutySchedule) error {
	err := r.db.WithContext(ctx).
		Model(schedule).
		Select("pharmacy_id", "duty_date", "start_time", "end_time", "is_emergency", "notes").
		Updates(schedule).Error
	if db.IsUniqueViolation(err) {
		return domain.ErrScheduleConflict
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.DutySchedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *PostgresRepository) ListOnDutyAt(ctx context.Context, date time.Time, clock string) ([]domain.DutySchedule, error) {
	var items []domain.DutySchedule
	if err := r.db.WithContext(ctx).
		Scopes(publicPharmacies, withPharmacy).
		Where("duty_schedules.duty_date = ?", date).
		Where("duty_schedules.start_time <= ? AND duty_schedules.end_time >= ?", clock, clock).
		Order("duty_schedules.is_emergency desc, pharmacies.name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]domain.DutySchedule, error) {
	var items []domain.DutySchedule
	if err := r.db.WithContext(ctx).
		Scopes(publicPharmacies, withPharmacy).
		Where("duty_schedules.duty_date >= ?", from).
		Order("duty_schedules.duty_date asc, duty_schedules.start_time asc, duty_schedules.id asc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.DutySchedule, error) {
	var items []domain.DutySchedule
	if err := r.db.WithContext(ctx).
		Scopes(publicPharmacies, withPharmacy).
		Where("duty_schedules.duty_date BETWEEN ? AND ?", from, to).
		Order("duty_schedules.duty_date asc, duty_schedules.start_time asc, duty_schedules.id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.DutySchedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.DutySchedule{})
	if filter.PharmacyID != nil {
		query = query.Where("pharmacy_id = ?", *filter.PharmacyID)
	}
	if filter.From != nil {
		query = query.Where("duty_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("duty_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PerPage > 0 {
		query = query.Limit(filter.Limit()).Offset(filter.Offset())
	}
	var items []domain.DutySchedule
	if err := query.
		Scopes(withPharmacy).
		Order("duty_date desc, start_time asc, id desc").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) ActivePharmacyIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&pharmacydomain.Pharmacy{}).
		Where("is_active = ? AND is_approved = ?", true, true).
		Order("id asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) ExistingPharmacyIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&pharmacydomain.Pharmacy{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
