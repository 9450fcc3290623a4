// Package registration signs up a pharmacist together with their pharmacy.
package registration

import (
	"context"
	"strings"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/phone"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/validation"
	"pharmaduty-go/pkg/logger"
)

const minPasswordLength = 8

type Service struct {
	repo          Repository
	gate          *moderation.Gate
	neighborhoods pharmacy.NeighborhoodChecker
	hasher        user.Hasher
	cache         cache.Store
	log           logger.Logger
}

func NewService(repo Repository, gate *moderation.Gate, neighborhoods pharmacy.NeighborhoodChecker, hasher user.Hasher, store cache.Store, log logger.Logger) *Service {
	if store == nil {
		store = cache.Noop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:          repo,
		gate:          gate,
		neighborhoods: neighborhoods,
		hasher:        hasher,
		cache:         store,
		log:           log,
	}
}

// Register creates the pharmacist account and its pharmacy in one transaction.
// Inappropriate words reject the submission with a "content" validation error. Any other
// moderation issue keeps the pharmacy pending until an admin approves it.
func (s *Service) Register(ctx context.Context, input Input) (*Result, error) {
	name := moderation.Sanitize(input.Name)
	pharmacyName := moderation.Sanitize(input.PharmacyName)
	ownerName := moderation.Sanitize(input.OwnerName)
	address := moderation.Sanitize(input.Address)
	notes := moderation.SanitizePtr(input.Notes)

	verdict := s.gate.ValidateRegistrationData(moderation.RegistrationFields{
		Name:         &name,
		PharmacyName: &pharmacyName,
		OwnerName:    &ownerName,
		Address:      &address,
	})
	content := moderation.ContentErrors(verdict.Issues)
	if notes != nil {
		content.Merge(moderation.ContentErrors(s.gate.CheckText(map[string]string{"notes": *notes})))
	}
	if !content.Empty() {
		return nil, content
	}

	errs := validation.Errors{}
	for field, value := range map[string]string{
		"name":          name,
		"pharmacy_name": pharmacyName,
		"owner_name":    ownerName,
		"address":       address,
	} {
		if value == "" {
			errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is required")
		}
	}
	if len(input.Password) < minPasswordLength {
		errs.Add("password", "The password must be at least 8 characters")
	}
	primary, err := phone.Canonical(input.Phone)
	if err != nil {
		errs.Add("phone", err.Error())
	}
	secondary, err := phone.CanonicalPtr(input.PhoneSecondary)
	if err != nil {
		errs.Add("phone_secondary", err.Error())
	}
	exists, err := s.neighborhoods.Exists(ctx, input.NeighborhoodID)
	if err != nil {
		return nil, err
	}
	if !exists {
		errs.Add("neighborhood_id", "The selected neighborhood is invalid")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	email := user.NormalizeEmail(input.Email)
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	result := &Result{AutoApproved: verdict.IsClean, Moderation: verdict}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		account := user.User{
			Name:     name,
			Email:    email,
			Password: hashed,
			Role:     user.RolePharmacist,
			Phone:    &primary,
		}
		if err := tx.CreateUser(ctx, &account); err != nil {
			return err
		}

		owned := pharmacy.Pharmacy{
			Name:           pharmacyName,
			OwnerName:      ownerName,
			Phone:          primary,
			PhoneSecondary: secondary,
			Address:        address,
			NeighborhoodID: input.NeighborhoodID,
			Latitude:       input.Latitude,
			Longitude:      input.Longitude,
			Notes:          notes,
			IsActive:       true,
			IsApproved:     verdict.IsClean,
			UserID:         &account.ID,
		}
		if err := tx.CreatePharmacy(ctx, &owned); err != nil {
			return err
		}

		result.User = account
		result.Pharmacy = owned
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.KeyStatistics); err != nil {
		s.log.InternalError("registration.register: statistics invalidation failed", err)
	}
	if !result.AutoApproved {
		s.log.Info("registration.register: pharmacy queued for review",
			"pharmacy_id", result.Pharmacy.ID,
			"issues", len(verdict.Issues),
		)
	}
	return result, nil
}
