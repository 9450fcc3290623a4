package registration

import (
	"context"

	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/user"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, account *user.User) error
	CreatePharmacy(ctx context.Context, pharmacy *pharmacy.Pharmacy) error
}
