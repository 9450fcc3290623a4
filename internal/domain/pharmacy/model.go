package pharmacy

import (
	"time"

	"gorm.io/gorm"

	"pharmaduty-go/internal/domain/neighborhood"
	"pharmaduty-go/internal/pagination"
)

type Pharmacy struct {
	ID             uint           `gorm:"primaryKey"`
	Name           string         `gorm:"size:255;not null"`
	OwnerName      string         `gorm:"size:255;not null"`
	Phone          string         `gorm:"size:20;not null"`
	PhoneSecondary *string        `gorm:"size:20"`
	Address        string         `gorm:"size:500;not null"`
	NeighborhoodID uint           `gorm:"not null;index"`
	Latitude       *float64       `gorm:"type:numeric(10,7)"`
	Longitude      *float64       `gorm:"type:numeric(10,7)"`
	IsActive       bool           `gorm:"not null"`
	IsApproved     bool           `gorm:"not null"`
	Notes          *string        `gorm:"type:text"`
	UserID         *uint          `gorm:"index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	Neighborhood *neighborhood.Neighborhood `gorm:"foreignKey:NeighborhoodID"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

// IsPublic reports whether the pharmacy may appear in public listings.
func (p Pharmacy) IsPublic() bool {
	return p.IsActive && p.IsApproved && !p.DeletedAt.Valid
}

type Review struct {
	ID         uint      `gorm:"primaryKey"`
	PharmacyID uint      `gorm:"not null;index"`
	UserName   string    `gorm:"size:100;not null"`
	Rating     int       `gorm:"not null"`
	Comment    *string   `gorm:"type:text"`
	IsApproved bool      `gorm:"not null"`
	IPAddress  *string   `gorm:"column:ip_address;size:45"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Pharmacy *Pharmacy `gorm:"foreignKey:PharmacyID"`
}

func (Review) TableName() string {
	return "reviews"
}

// RatingSummary aggregates approved reviews only.
type RatingSummary struct {
	PharmacyID    uint
	AverageRating float64
	ReviewsCount  int64
}

// Listing is a pharmacy together with its computed rating.
type Listing struct {
	Pharmacy
	AverageRating float64
	ReviewsCount  int64
}

// Details is the public single-pharmacy view.
type Details struct {
	Listing
	Reviews []Review
}

type ListFilter struct {
	Query          string
	NeighborhoodID *uint
	IsActive       *bool
	IsApproved     *bool
	WithDeleted    bool
	pagination.Params

	// PendingOnly selects unapproved pharmacies that have an owning user.
	PendingOnly bool
}

type ReviewFilter struct {
	PharmacyID *uint
	IsApproved *bool
	pagination.Params
}

// Input carries the editable pharmacy fields shared by owners and admins.
type Input struct {
	Name           string
	OwnerName      string
	Phone          string
	PhoneSecondary *string
	Address        string
	NeighborhoodID uint
	Latitude       *float64
	Longitude      *float64
	Notes          *string
}

// AdminInput adds the state flags only admins may set. Nil flags keep their current value,
// or default to true on create.
type AdminInput struct {
	Input
	IsActive   *bool
	IsApproved *bool
}

type ReviewInput struct {
	UserName  string
	Rating    int
	Comment   *string
	IPAddress string
}
