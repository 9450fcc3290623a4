package schedule

import "errors"

var (
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrScheduleConflict    = errors.New("this pharmacy already has a duty schedule on this date")
	ErrScheduleInPast      = errors.New("past duty schedules cannot be changed")
	ErrDateInPast          = errors.New("duty date must be today or later")
	ErrForbidden           = errors.New("schedule does not belong to your pharmacy")
	ErrPharmacyNotApproved = errors.New("pharmacy is not approved yet")
	ErrNoActivePharmacies  = errors.New("there are no active pharmacies to rotate")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrRangeTooLarge       = errors.New("date range is too large")
	ErrInvalidRotationType = errors.New("rotation type must be sequential or random")
)
