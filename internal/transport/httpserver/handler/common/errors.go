package common

import (
	"errors"
	"net/http"

	"pharmaduty-go/internal/domain/neighborhood"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/validation"
	"pharmaduty-go/pkg/logger"
)

type domainError struct {
	err    error
	status int
	code   string
}

var domainErrors = []domainError{
	{neighborhood.ErrNeighborhoodNotFound, http.StatusNotFound, "neighborhood_not_found"},
	{pharmacy.ErrPharmacyNotFound, http.StatusNotFound, "pharmacy_not_found"},
	{pharmacy.ErrReviewNotFound, http.StatusNotFound, "review_not_found"},
	{pharmacy.ErrOwnerAlreadyHasPharmacy, http.StatusUnprocessableEntity, "owner_has_pharmacy"},
	{schedule.ErrScheduleNotFound, http.StatusNotFound, "schedule_not_found"},
	{schedule.ErrScheduleConflict, http.StatusUnprocessableEntity, "schedule_conflict"},
	{schedule.ErrScheduleInPast, http.StatusUnprocessableEntity, "schedule_in_past"},
	{schedule.ErrDateInPast, http.StatusUnprocessableEntity, "date_in_past"},
	{schedule.ErrForbidden, http.StatusForbidden, "forbidden"},
	{schedule.ErrPharmacyNotApproved, http.StatusForbidden, "pharmacy_not_approved"},
	{schedule.ErrNoActivePharmacies, http.StatusUnprocessableEntity, "no_active_pharmacies"},
	{schedule.ErrInvalidDateRange, http.StatusUnprocessableEntity, "invalid_date_range"},
	{schedule.ErrRangeTooLarge, http.StatusUnprocessableEntity, "range_too_large"},
	{schedule.ErrInvalidRotationType, http.StatusUnprocessableEntity, "invalid_rotation_type"},
	{user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{user.ErrEmailTaken, http.StatusUnprocessableEntity, "email_taken"},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{user.ErrCannotDeleteSelf, http.StatusForbidden, "cannot_delete_self"},
}

// WriteServiceError renders err as a validation, domain or internal failure and logs it under op.
// Domain outcomes are business errors; anything unrecognised is an internal error with no details.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		log.BusinessError(op+": validation failed", err, args...)
		WriteValidation(w, fieldErrs)
		return
	}
	for _, known := range domainErrors {
		if errors.Is(err, known.err) {
			log.BusinessError(op+": "+known.code, err, args...)
			writeError(w, known.status, known.code, known.err.Error())
			return
		}
	}
	log.InternalError(op+": failed", err, args...)
	WriteInternal(w)
}
