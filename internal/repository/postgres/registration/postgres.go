package registration

import (
	"context"

	"gorm.io/gorm"

	"pharmaduty-go/internal/db"
	pharmacydomain "pharmaduty-go/internal/domain/pharmacy"
	domain "pharmaduty-go/internal/domain/registration"
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

func (r *PostgresRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, account *userdomain.User) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return userdomain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) CreatePharmacy(ctx context.Context, pharmacy *pharmacydomain.Pharmacy) error {
	if err := r.db.WithContext(ctx).Omit("Neighborhood").Create(pharmacy).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return pharmacydomain.ErrOwnerAlreadyHasPharmacy
		}
		return err
	}
	return nil
}
