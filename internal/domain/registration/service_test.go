package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/validation"
)

type fakeRepo struct {
	users      []user.User
	pharmacies []pharmacy.Pharmacy
	failCreate bool
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	users, pharmacies := len(r.users), len(r.pharmacies)
	if err := fn(r); err != nil {
		r.users = r.users[:users]
		r.pharmacies = r.pharmacies[:pharmacies]
		return err
	}
	return nil
}

func (r *fakeRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateUser(ctx context.Context, account *user.User) error {
	account.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *account)
	return nil
}

func (r *fakeRepo) CreatePharmacy(ctx context.Context, p *pharmacy.Pharmacy) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	p.ID = uint(len(r.pharmacies) + 1)
	r.pharmacies = append(r.pharmacies, *p)
	return nil
}

type neighborhoods map[uint]bool

func (n neighborhoods) Exists(ctx context.Context, id uint) (bool, error) {
	return n[id], nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	gate, err := moderation.NewGate(moderation.DefaultRules())
	require.NoError(t, err)
	return NewService(repo, gate, neighborhoods{1: true}, user.NewHasher(bcrypt.MinCost), nil, nil)
}

func cleanInput() Input {
	return Input{
		Name:           "Sami Haddad",
		Email:          "Sami@Example.com",
		Password:       "pharmacy-pass",
		PharmacyName:   "Al Shifa Pharmacy",
		OwnerName:      "Sami Haddad",
		Phone:          "0933123456",
		Address:        "Main street, building 12",
		NeighborhoodID: 1,
	}
}

func TestRegisterCleanSubmissionIsAutoApproved(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Register(context.Background(), cleanInput())
	require.NoError(t, err)
	assert.True(t, result.AutoApproved)
	assert.True(t, result.Pharmacy.IsApproved)
	assert.True(t, result.Pharmacy.IsActive)
	assert.Equal(t, "0933123456", result.Pharmacy.Phone)
	assert.Equal(t, user.RolePharmacist, result.User.Role)
	assert.Equal(t, "sami@example.com", result.User.Email)
	require.NotNil(t, result.Pharmacy.UserID)
	assert.Equal(t, result.User.ID, *result.Pharmacy.UserID)
	assert.NotEqual(t, "pharmacy-pass", repo.users[0].Password)
}

func TestRegisterBadWordsAreRejected(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	input := cleanInput()
	input.OwnerName = "Sami the wanker"
	_, err := svc.Register(context.Background(), input)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, "content")
	assert.Equal(t, []string{"The owner name contains inappropriate words"}, errs["content"])
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.pharmacies)
}

func TestRegisterSuspiciousInputIsQueuedForReview(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	input := cleanInput()
	input.PharmacyName = "test test"
	result, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, result.AutoApproved)
	assert.False(t, result.Pharmacy.IsApproved)
	assert.False(t, result.Moderation.NeedsReview)
	assert.NotEmpty(t, result.Moderation.Issues)
}

func TestRegisterFieldErrors(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	input := cleanInput()
	input.Phone = "0912345678"
	input.NeighborhoodID = 9
	input.Password = "short"
	_, err := svc.Register(context.Background(), input)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "neighborhood_id")
	assert.Contains(t, errs, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	_, err := svc.Register(context.Background(), cleanInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), cleanInput())
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.Len(t, repo.users, 1)
}

func TestRegisterRollsBackUserWhenPharmacyFails(t *testing.T) {
	repo := &fakeRepo{failCreate: true}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), cleanInput())
	require.Error(t, err)
	assert.Empty(t, repo.users)
}
