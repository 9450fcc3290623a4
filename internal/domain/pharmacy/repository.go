package pharmacy

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Pharmacy, int64, error)
	GetByID(ctx context.Context, id uint, withDeleted bool) (*Pharmacy, error)
	GetByOwner(ctx context.Context, userID uint) (*Pharmacy, error)
	Create(ctx context.Context, pharmacy *Pharmacy) error
	Update(ctx context.Context, pharmacy *Pharmacy) error
	SetApproved(ctx context.Context, id uint, approved bool) error
	SetActive(ctx context.Context, id uint, active bool) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	// DeleteWithOwner removes the pharmacy row permanently, then its owning user when ownerID is set.
	DeleteWithOwner(ctx context.Context, id uint, ownerID *uint) error
	RatingSummaries(ctx context.Context, ids []uint) (map[uint]RatingSummary, error)

	ListReviews(ctx context.Context, filter ReviewFilter) ([]Review, int64, error)
	GetReview(ctx context.Context, id uint) (*Review, error)
	CreateReview(ctx context.Context, review *Review) error
	ApproveReview(ctx context.Context, id uint) error
	DeleteReview(ctx context.Context, id uint) error
}
