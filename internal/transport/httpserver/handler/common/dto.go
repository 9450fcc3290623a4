package common

import (
	"time"

	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/neighborhood"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/pagination"
)

type ListResponse struct {
	Items interface{}     `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

type NeighborhoodResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	AreaCode string `json:"area_code"`
}

type PharmacyResponse struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	OwnerName      string                `json:"owner_name"`
	Phone          string                `json:"phone"`
	PhoneSecondary *string               `json:"phone_secondary"`
	Address        string                `json:"address"`
	NeighborhoodID uint                  `json:"neighborhood_id"`
	Neighborhood   *NeighborhoodResponse `json:"neighborhood,omitempty"`
	Latitude       *float64              `json:"latitude"`
	Longitude      *float64              `json:"longitude"`
	IsActive       bool                  `json:"is_active"`
	IsApproved     bool                  `json:"is_approved"`
	Notes          *string               `json:"notes"`
	UserID         *uint                 `json:"user_id,omitempty"`
	AverageRating  *float64              `json:"average_rating,omitempty"`
	ReviewsCount   *int64                `json:"reviews_count,omitempty"`
	Reviews        *[]ReviewResponse     `json:"reviews,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	DeletedAt      *time.Time            `json:"deleted_at,omitempty"`
}

type ReviewResponse struct {
	ID           uint      `json:"id"`
	PharmacyID   uint      `json:"pharmacy_id"`
	PharmacyName string    `json:"pharmacy_name,omitempty"`
	UserName     string    `json:"user_name"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

type ScheduleResponse struct {
	ID          uint              `json:"id"`
	PharmacyID  uint              `json:"pharmacy_id"`
	DutyDate    string            `json:"duty_date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	ShiftType   string            `json:"shift_type"`
	IsEmergency bool              `json:"is_emergency"`
	Notes       *string           `json:"notes"`
	Pharmacy    *PharmacyResponse `json:"pharmacy,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditResponse struct {
	ID        uint        `json:"id"`
	ActorID   *uint       `json:"actor_id"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  *uint       `json:"entity_id"`
	Details   interface{} `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
}

func ToNeighborhoodResponse(item neighborhood.Neighborhood) NeighborhoodResponse {
	return NeighborhoodResponse{ID: item.ID, Name: item.Name, AreaCode: item.AreaCode}
}

func ToNeighborhoodResponses(items []neighborhood.Neighborhood) []NeighborhoodResponse {
	response := make([]NeighborhoodResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToNeighborhoodResponse(item))
	}
	return response
}

func ToPharmacyResponse(item pharmacy.Pharmacy) PharmacyResponse {
	response := PharmacyResponse{
		ID:             item.ID,
		Name:           item.Name,
		OwnerName:      item.OwnerName,
		Phone:          item.Phone,
		PhoneSecondary: item.PhoneSecondary,
		Address:        item.Address,
		NeighborhoodID: item.NeighborhoodID,
		Latitude:       item.Latitude,
		Longitude:      item.Longitude,
		IsActive:       item.IsActive,
		IsApproved:     item.IsApproved,
		Notes:          item.Notes,
		UserID:         item.UserID,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
	if item.Neighborhood != nil {
		n := ToNeighborhoodResponse(*item.Neighborhood)
		response.Neighborhood = &n
	}
	if item.DeletedAt.Valid {
		deletedAt := item.DeletedAt.Time
		response.DeletedAt = &deletedAt
	}
	return response
}

// ToListingResponse hides the owner id; listings are public.
func ToListingResponse(item pharmacy.Listing) PharmacyResponse {
	response := ToPharmacyResponse(item.Pharmacy)
	response.UserID = nil
	rating := item.AverageRating
	count := item.ReviewsCount
	response.AverageRating = &rating
	response.ReviewsCount = &count
	return response
}

// ToAdminListingResponse keeps the owner id for the moderation screens.
func ToAdminListingResponse(item pharmacy.Listing) PharmacyResponse {
	response := ToListingResponse(item)
	response.UserID = item.UserID
	return response
}

func ToListingResponses(items []pharmacy.Listing, admin bool) []PharmacyResponse {
	response := make([]PharmacyResponse, 0, len(items))
	for _, item := range items {
		if admin {
			response = append(response, ToAdminListingResponse(item))
		} else {
			response = append(response, ToListingResponse(item))
		}
	}
	return response
}

func ToDetailsResponse(item pharmacy.Details) PharmacyResponse {
	response := ToListingResponse(item.Listing)
	reviews := ToReviewResponses(item.Reviews)
	response.Reviews = &reviews
	return response
}

func ToReviewResponse(item pharmacy.Review) ReviewResponse {
	response := ReviewResponse{
		ID:         item.ID,
		PharmacyID: item.PharmacyID,
		UserName:   item.UserName,
		Rating:     item.Rating,
		Comment:    item.Comment,
		IsApproved: item.IsApproved,
		CreatedAt:  item.CreatedAt,
	}
	if item.Pharmacy != nil {
		response.PharmacyName = item.Pharmacy.Name
	}
	return response
}

func ToReviewResponses(items []pharmacy.Review) []ReviewResponse {
	response := make([]ReviewResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToReviewResponse(item))
	}
	return response
}

func ToScheduleResponse(item schedule.DutySchedule) ScheduleResponse {
	response := ScheduleResponse{
		ID:          item.ID,
		PharmacyID:  item.PharmacyID,
		DutyDate:    item.DutyDate.Format(schedule.DateLayout),
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
		ShiftType:   string(item.ShiftType()),
		IsEmergency: item.IsEmergency,
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Pharmacy != nil {
		p := ToPharmacyResponse(*item.Pharmacy)
		p.UserID = nil
		response.Pharmacy = &p
	}
	return response
}

func ToScheduleResponses(items []schedule.DutySchedule) []ScheduleResponse {
	response := make([]ScheduleResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToScheduleResponse(item))
	}
	return response
}

func ToUserResponse(item user.User) UserResponse {
	return UserResponse{
		ID:        item.ID,
		Name:      item.Name,
		Email:     item.Email,
		Role:      item.Role,
		Phone:     item.Phone,
		Photo:     item.Photo,
		CreatedAt: item.CreatedAt,
	}
}

func ToUserResponses(items []user.User) []UserResponse {
	response := make([]UserResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToUserResponse(item))
	}
	return response
}

func ToAuditResponses(items []audit.Entry) []AuditResponse {
	response := make([]AuditResponse, 0, len(items))
	for _, item := range items {
		response = append(response, AuditResponse{
			ID:        item.ID,
			ActorID:   item.ActorID,
			Action:    item.Action,
			Entity:    item.Entity,
			EntityID:  item.EntityID,
			Details:   item.Details,
			CreatedAt: item.CreatedAt,
		})
	}
	return response
}
