package pharmacy

import "errors"

var (
	ErrPharmacyNotFound        = errors.New("pharmacy not found")
	ErrReviewNotFound          = errors.New("review not found")
	ErrOwnerAlreadyHasPharmacy = errors.New("owner already has a pharmacy")
)
