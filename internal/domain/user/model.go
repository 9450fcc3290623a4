package user

import (
	"time"

	"pharmaduty-go/internal/pagination"
)

const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Password  string    `gorm:"size:255;not null"`
	Role      string    `gorm:"size:20;not null"`
	Phone     *string   `gorm:"size:20"`
	Photo     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RolePharmacist
}

type ListFilter struct {
	Query string
	Role  string
	pagination.Params
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    *string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Phone    *string
}

type ProfileInput struct {
	Name            *string
	Email           *string
	Phone           *string
	CurrentPassword string
	NewPassword     *string
}
