package pharmacy

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pharmaduty-go/internal/db"
	domain "pharmaduty-go/internal/domain/pharmacy"
	userdomain "pharmaduty-go/internal/domain/user"
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

func (r *PostgresRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Pharmacy, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Pharmacy{})
	if filter.WithDeleted {
		query = query.Unscoped()
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.PendingOnly {
		query = query.Where("is_approved = ? AND user_id IS NOT NULL", false)
	}
	if filter.NeighborhoodID != nil {
		query = query.Where("neighborhood_id = ?", *filter.NeighborhoodID)
	}
	if filter.Query != "" {
		like := containsPattern(filter.Query)
		query = query.Where("name ILIKE ? OR owner_name ILIKE ? OR address ILIKE ? OR phone ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pharmacies []domain.Pharmacy
	if err := query.
		Preload("Neighborhood").
		Order("name asc, id asc").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&pharmacies).Error; err != nil {
		return nil, 0, err
	}
	return pharmacies, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint, withDeleted bool) (*domain.Pharmacy, error) {
	query := r.db.WithContext(ctx)
	if withDeleted {
		query = query.Unscoped()
	}
	var found domain.Pharmacy
	if err := query.Preload("Neighborhood").First(&found, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPharmacyNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, userID uint) (*domain.Pharmacy, error) {
	var found domain.Pharmacy
	if err := r.db.WithContext(ctx).
		Preload("Neighborhood").
		Where("user_id = ?", userID).
		First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPharmacyNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) Create(ctx context.Context, pharmacy *domain.Pharmacy) error {
	if err := r.db.WithContext(ctx).Omit("Neighborhood").Create(pharmacy).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrOwnerAlreadyHasPharmacy
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, pharmacy *domain.Pharmacy) error {
	return r.db.WithContext(ctx).
		Model(pharmacy).
		Select(
			"name", "owner_name", "phone", "phone_secondary", "address", "neighborhood_id",
			"latitude", "longitude", "is_active", "is_approved", "notes",
		).
		Updates(pharmacy).Error
}

func (r *PostgresRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	return r.setFlag(ctx, id, "is_approved", approved)
}

func (r *PostgresRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.setFlag(ctx, id, "is_active", active)
}

func (r *PostgresRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Pharmacy{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPharmacyNotFound
	}
	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Pharmacy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPharmacyNotFound
	}
	return nil
}

// Restore fails with ErrOwnerAlreadyHasPharmacy when the owner registered another pharmacy meanwhile.
func (r *PostgresRepository) Restore(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Pharmacy{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error) {
			return domain.ErrOwnerAlreadyHasPharmacy
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPharmacyNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteWithOwner(ctx context.Context, id uint, ownerID *uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&domain.Pharmacy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPharmacyNotFound
	}
	if ownerID == nil {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&userdomain.User{}, *ownerID).Error
}

func (r *PostgresRepository) RatingSummaries(ctx context.Context, ids []uint) (map[uint]domain.RatingSummary, error) {
	result := make(map[uint]domain.RatingSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []domain.RatingSummary
	if err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("pharmacy_id, AVG(rating) AS average_rating, COUNT(*) AS reviews_count").
		Where("pharmacy_id IN ? AND is_approved = ?", ids, true).
		Group("pharmacy_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PharmacyID] = row
	}
	return result, nil
}

func (r *PostgresRepository) ListReviews(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Review{})
	if filter.PharmacyID != nil {
		query = query.Where("pharmacy_id = ?", *filter.PharmacyID)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []domain.Review
	if filter.PerPage > 0 {
		query = query.Limit(filter.Limit()).Offset(filter.Offset())
	}
	if err := query.
		Preload("Pharmacy", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Order("created_at desc, id desc").
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *PostgresRepository) GetReview(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *PostgresRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Omit("Pharmacy").Create(review).Error
}

func (r *PostgresRepository) ApproveReview(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Update("is_approved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern turns a search term into an ILIKE substring pattern with the wildcards escaped.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
