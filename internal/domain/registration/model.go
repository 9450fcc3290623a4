package registration

import (
	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/user"
)

type Input struct {
	Name           string
	Email          string
	Password       string
	PharmacyName   string
	OwnerName      string
	Phone          string
	PhoneSecondary *string
	Address        string
	NeighborhoodID uint
	Latitude       *float64
	Longitude      *float64
	Notes          *string
}

type Result struct {
	User         user.User
	Pharmacy     pharmacy.Pharmacy
	AutoApproved bool
	Moderation   moderation.Result
}
