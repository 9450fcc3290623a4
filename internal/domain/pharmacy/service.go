package pharmacy

import (
	"context"
	"math"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/phone"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/internal/validation"
	"pharmaduty-go/pkg/logger"
)

const (
	PublicPerPage = 15
	AdminPerPage  = 20
)

type NeighborhoodChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type Service struct {
	repo          Repository
	gate          *moderation.Gate
	neighborhoods NeighborhoodChecker
	audit         audit.Recorder
	cache         cache.Store
	log           logger.Logger
}

func NewService(repo Repository, gate *moderation.Gate, neighborhoods NeighborhoodChecker, recorder audit.Recorder, store cache.Store, log logger.Logger) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder()
	}
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
		audit:         recorder,
		cache:         store,
		log:           log,
	}
}

// ListPublic only ever returns active, approved, non-deleted pharmacies.
func (s *Service) ListPublic(ctx context.Context, filter ListFilter) ([]Listing, pagination.Meta, error) {
	active, approved := true, true
	filter.IsActive = &active
	filter.IsApproved = &approved
	filter.WithDeleted = false
	filter.PendingOnly = false
	filter.Params = filter.Params.Normalize(PublicPerPage, pagination.MaxPerPage)
	return s.list(ctx, filter)
}

func (s *Service) GetPublic(ctx context.Context, id uint) (*Details, error) {
	pharmacy, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsPublic() {
		return nil, ErrPharmacyNotFound
	}

	approved := true
	reviews, _, err := s.repo.ListReviews(ctx, ReviewFilter{
		PharmacyID: &pharmacy.ID,
		IsApproved: &approved,
		Params:     pagination.Params{Page: 1, PerPage: pagination.MaxPerPage},
	})
	if err != nil {
		return nil, err
	}

	listings, err := s.withRatings(ctx, []Pharmacy{*pharmacy})
	if err != nil {
		return nil, err
	}
	return &Details{Listing: listings[0], Reviews: reviews}, nil
}

// GetOwned resolves the caller's pharmacy from the authenticated user id.
func (s *Service) GetOwned(ctx context.Context, userID uint) (*Listing, error) {
	pharmacy, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings, err := s.withRatings(ctx, []Pharmacy{*pharmacy})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// UpdateOwned lets a pharmacist edit the descriptive fields of their own pharmacy.
// Approval and activity flags are never touched here.
func (s *Service) UpdateOwned(ctx context.Context, userID uint, input Input) (*Pharmacy, error) {
	clean, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyInput(pharmacy, clean)
	if err := s.repo.Update(ctx, pharmacy); err != nil {
		return nil, err
	}
	return pharmacy, nil
}

func (s *Service) AdminList(ctx context.Context, filter ListFilter) ([]Listing, pagination.Meta, error) {
	filter.Params = filter.Params.Normalize(AdminPerPage, pagination.MaxPerPage)
	return s.list(ctx, filter)
}

// Pending is the admin review queue: unapproved pharmacies registered by a pharmacist.
func (s *Service) Pending(ctx context.Context, params pagination.Params) ([]Listing, pagination.Meta, error) {
	return s.AdminList(ctx, ListFilter{PendingOnly: true, Params: params})
}

func (s *Service) AdminGet(ctx context.Context, id uint) (*Listing, error) {
	pharmacy, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	listings, err := s.withRatings(ctx, []Pharmacy{*pharmacy})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// AdminCreate registers a pharmacy without an owner. It is approved unless told otherwise.
func (s *Service) AdminCreate(ctx context.Context, input AdminInput) (*Pharmacy, error) {
	clean, err := s.prepare(ctx, input.Input)
	if err != nil {
		return nil, err
	}

	pharmacy := &Pharmacy{
		IsActive:   boolOr(input.IsActive, true),
		IsApproved: boolOr(input.IsApproved, true),
	}
	applyInput(pharmacy, clean)
	if err := s.repo.Create(ctx, pharmacy); err != nil {
		return nil, err
	}
	s.invalidateStatistics(ctx)
	return pharmacy, nil
}

func (s *Service) AdminUpdate(ctx context.Context, id uint, input AdminInput) (*Pharmacy, error) {
	clean, err := s.prepare(ctx, input.Input)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	applyInput(pharmacy, clean)
	pharmacy.IsActive = boolOr(input.IsActive, pharmacy.IsActive)
	pharmacy.IsApproved = boolOr(input.IsApproved, pharmacy.IsApproved)
	if err := s.repo.Update(ctx, pharmacy); err != nil {
		return nil, err
	}
	s.invalidateStatistics(ctx)
	return pharmacy, nil
}

// Delete soft-deletes the pharmacy; Restore undoes it.
func (s *Service) Delete(ctx context.Context, actorID, id uint) error {
	pharmacy, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, audit.ActionPharmacyDeleted, audit.EntityPharmacy, id, map[string]any{"name": pharmacy.Name})
	s.invalidateStatistics(ctx)
	return nil
}

func (s *Service) Restore(ctx context.Context, actorID, id uint) (*Pharmacy, error) {
	pharmacy, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if pharmacy.DeletedAt.Valid {
		if err := s.repo.Restore(ctx, id); err != nil {
			return nil, err
		}
		pharmacy.DeletedAt.Valid = false
		s.audit.Record(ctx, actorID, audit.ActionPharmacyRestored, audit.EntityPharmacy, id, map[string]any{"name": pharmacy.Name})
		s.invalidateStatistics(ctx)
	}
	return pharmacy, nil
}

func (s *Service) Approve(ctx context.Context, actorID, id uint) (*Pharmacy, error) {
	pharmacy, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	pharmacy.IsApproved = true
	s.audit.Record(ctx, actorID, audit.ActionPharmacyApproved, audit.EntityPharmacy, id, map[string]any{"name": pharmacy.Name})
	s.invalidateStatistics(ctx)
	return pharmacy, nil
}

// Reject permanently deletes the pharmacy together with its owning user account.
func (s *Service) Reject(ctx context.Context, actorID, id uint) error {
	var rejected Pharmacy
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		pharmacy, err := tx.GetByID(ctx, id, true)
		if err != nil {
			return err
		}
		rejected = *pharmacy
		return tx.DeleteWithOwner(ctx, id, pharmacy.UserID)
	})
	if err != nil {
		return err
	}

	details := map[string]any{"name": rejected.Name, "owner_name": rejected.OwnerName}
	if rejected.UserID != nil {
		details["user_id"] = *rejected.UserID
	}
	s.audit.Record(ctx, actorID, audit.ActionPharmacyRejected, audit.EntityPharmacy, id, details)
	s.invalidateStatistics(ctx)
	return nil
}

func (s *Service) ToggleActive(ctx context.Context, actorID, id uint) (*Pharmacy, error) {
	pharmacy, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	active := !pharmacy.IsActive
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	pharmacy.IsActive = active
	s.audit.Record(ctx, actorID, audit.ActionPharmacyToggled, audit.EntityPharmacy, id, map[string]any{"is_active": active})
	s.invalidateStatistics(ctx)
	return pharmacy, nil
}

// SubmitReview stores a public review awaiting moderation. Bad words reject it outright.
func (s *Service) SubmitReview(ctx context.Context, pharmacyID uint, input ReviewInput) (*Review, error) {
	errs := validation.Errors{}
	userName := moderation.Sanitize(input.UserName)
	comment := moderation.SanitizePtr(input.Comment)
	if userName == "" {
		errs.Add("user_name", "The user name field is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		errs.Add("rating", "The rating must be between 1 and 5")
	}
	texts := map[string]string{"user_name": userName}
	if comment != nil {
		texts["comment"] = *comment
	}
	errs.Merge(moderation.ContentErrors(s.gate.CheckText(texts)))
	if err := errs.Err(); err != nil {
		return nil, err
	}

	pharmacy, err := s.repo.GetByID(ctx, pharmacyID, false)
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsPublic() {
		return nil, ErrPharmacyNotFound
	}

	review := &Review{
		PharmacyID: pharmacyID,
		UserName:   userName,
		Rating:     input.Rating,
		Comment:    comment,
		IsApproved: false,
	}
	if input.IPAddress != "" {
		ip := input.IPAddress
		review.IPAddress = &ip
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) AdminListReviews(ctx context.Context, filter ReviewFilter) ([]Review, pagination.Meta, error) {
	filter.Params = filter.Params.Normalize(AdminPerPage, pagination.MaxPerPage)
	reviews, total, err := s.repo.ListReviews(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return reviews, pagination.NewMeta(filter.Params, total), nil
}

func (s *Service) ApproveReview(ctx context.Context, actorID, id uint) (*Review, error) {
	review, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApproveReview(ctx, id); err != nil {
		return nil, err
	}
	review.IsApproved = true
	s.audit.Record(ctx, actorID, audit.ActionReviewApproved, audit.EntityReview, id, map[string]any{"pharmacy_id": review.PharmacyID})
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, actorID, id uint) error {
	review, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, audit.ActionReviewDeleted, audit.EntityReview, id, map[string]any{
		"pharmacy_id": review.PharmacyID,
		"rating":      review.Rating,
	})
	return nil
}

func (s *Service) list(ctx context.Context, filter ListFilter) ([]Listing, pagination.Meta, error) {
	pharmacies, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	listings, err := s.withRatings(ctx, pharmacies)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return listings, pagination.NewMeta(filter.Params, total), nil
}

func (s *Service) withRatings(ctx context.Context, pharmacies []Pharmacy) ([]Listing, error) {
	listings := make([]Listing, 0, len(pharmacies))
	if len(pharmacies) == 0 {
		return listings, nil
	}

	ids := make([]uint, 0, len(pharmacies))
	for _, pharmacy := range pharmacies {
		ids = append(ids, pharmacy.ID)
	}
	summaries, err := s.repo.RatingSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, pharmacy := range pharmacies {
		summary := summaries[pharmacy.ID]
		listings = append(listings, Listing{
			Pharmacy:      pharmacy,
			AverageRating: RoundRating(summary.AverageRating),
			ReviewsCount:  summary.ReviewsCount,
		})
	}
	return listings, nil
}

// prepare sanitizes the free text, applies the moderation gate and canonicalizes phone numbers.
func (s *Service) prepare(ctx context.Context, input Input) (Input, error) {
	errs := validation.Errors{}
	clean := Input{
		Name:           moderation.Sanitize(input.Name),
		OwnerName:      moderation.Sanitize(input.OwnerName),
		Address:        moderation.Sanitize(input.Address),
		Notes:          moderation.SanitizePtr(input.Notes),
		NeighborhoodID: input.NeighborhoodID,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
	}

	required := map[string]string{"name": clean.Name, "owner_name": clean.OwnerName, "address": clean.Address}
	for field, value := range required {
		if value == "" {
			errs.Add(field, "The "+fieldLabel(field)+" field is required")
		}
	}

	texts := map[string]string{"name": clean.Name, "owner_name": clean.OwnerName, "address": clean.Address}
	if clean.Notes != nil {
		texts["notes"] = *clean.Notes
	}
	errs.Merge(moderation.ContentErrors(s.gate.CheckText(texts)))

	if canonical, err := phone.Canonical(input.Phone); err != nil {
		errs.Add("phone", err.Error())
	} else {
		clean.Phone = canonical
	}
	if secondary, err := phone.CanonicalPtr(input.PhoneSecondary); err != nil {
		errs.Add("phone_secondary", err.Error())
	} else {
		clean.PhoneSecondary = secondary
	}

	exists, err := s.neighborhoods.Exists(ctx, clean.NeighborhoodID)
	if err != nil {
		return Input{}, err
	}
	if !exists {
		errs.Add("neighborhood_id", "The selected neighborhood is invalid")
	}

	if err := errs.Err(); err != nil {
		return Input{}, err
	}
	return clean, nil
}

func (s *Service) invalidateStatistics(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyStatistics); err != nil {
		s.log.InternalError("pharmacies.cache: statistics invalidation failed", err)
	}
}

func applyInput(pharmacy *Pharmacy, input Input) {
	pharmacy.Name = input.Name
	pharmacy.OwnerName = input.OwnerName
	pharmacy.Phone = input.Phone
	pharmacy.PhoneSecondary = input.PhoneSecondary
	pharmacy.Address = input.Address
	pharmacy.NeighborhoodID = input.NeighborhoodID
	pharmacy.Latitude = input.Latitude
	pharmacy.Longitude = input.Longitude
	pharmacy.Notes = input.Notes
	pharmacy.Neighborhood = nil
}

// RoundRating rounds an average to one decimal place.
func RoundRating(value float64) float64 {
	return math.Round(value*10) / 10
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func fieldLabel(field string) string {
	switch field {
	case "owner_name":
		return "owner name"
	default:
		return field
	}
}
