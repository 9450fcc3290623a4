package common

import (
	"encoding/json"

	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/schedule"
)

// OptionalNullableString tells an absent field apart from an explicit null.
type OptionalNullableString struct {
	Set   bool
	Value *string
}

func (o *OptionalNullableString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = &value
	return nil
}

type ScheduleRequest struct {
	DutyDate    string  `json:"duty_date" validate:"required,isodate"`
	StartTime   string  `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     string  `json:"end_time" validate:"omitempty,hhmm"`
	IsEmergency bool    `json:"is_emergency"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// Input converts a validated request; the date has already passed the isodate check.
func (r ScheduleRequest) Input() schedule.Input {
	date, _ := schedule.ParseDate(r.DutyDate)
	return schedule.Input{
		DutyDate:    date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsEmergency: r.IsEmergency,
		Notes:       r.Notes,
	}
}

type ScheduleUpdateRequest struct {
	PharmacyID  *uint                  `json:"pharmacy_id" validate:"omitempty,min=1"`
	DutyDate    *string                `json:"duty_date" validate:"omitempty,isodate"`
	StartTime   *string                `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string                `json:"end_time" validate:"omitempty,hhmm"`
	IsEmergency *bool                  `json:"is_emergency"`
	Notes       OptionalNullableString `json:"notes"`
}

func (r ScheduleUpdateRequest) Input() schedule.UpdateInput {
	input := schedule.UpdateInput{
		PharmacyID:  r.PharmacyID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsEmergency: r.IsEmergency,
		Notes:       schedule.OptionalNullableString{Set: r.Notes.Set, Value: r.Notes.Value},
	}
	if r.DutyDate != nil {
		date, _ := schedule.ParseDate(*r.DutyDate)
		input.DutyDate = &date
	}
	return input
}

type PharmacyRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	OwnerName      string   `json:"owner_name" validate:"required,max=255"`
	Phone          string   `json:"phone" validate:"required,phone"`
	PhoneSecondary *string  `json:"phone_secondary" validate:"omitempty,phone"`
	Address        string   `json:"address" validate:"required,max=500"`
	NeighborhoodID uint     `json:"neighborhood_id" validate:"required"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	Notes          *string  `json:"notes" validate:"omitempty,max=1000"`
}

func (r PharmacyRequest) Input() pharmacy.Input {
	return pharmacy.Input{
		Name:           r.Name,
		OwnerName:      r.OwnerName,
		Phone:          r.Phone,
		PhoneSecondary: r.PhoneSecondary,
		Address:        r.Address,
		NeighborhoodID: r.NeighborhoodID,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Notes:          r.Notes,
	}
}

// AdminPharmacyRequest repeats the pharmacy fields so validation keys stay flat.
type AdminPharmacyRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	OwnerName      string   `json:"owner_name" validate:"required,max=255"`
	Phone          string   `json:"phone" validate:"required,phone"`
	PhoneSecondary *string  `json:"phone_secondary" validate:"omitempty,phone"`
	Address        string   `json:"address" validate:"required,max=500"`
	NeighborhoodID uint     `json:"neighborhood_id" validate:"required"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	Notes          *string  `json:"notes" validate:"omitempty,max=1000"`
	IsActive       *bool    `json:"is_active"`
	IsApproved     *bool    `json:"is_approved"`
}

func (r AdminPharmacyRequest) Input() pharmacy.AdminInput {
	return pharmacy.AdminInput{
		Input: PharmacyRequest{
			Name:           r.Name,
			OwnerName:      r.OwnerName,
			Phone:          r.Phone,
			PhoneSecondary: r.PhoneSecondary,
			Address:        r.Address,
			NeighborhoodID: r.NeighborhoodID,
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			Notes:          r.Notes,
		}.Input(),
		IsActive:   r.IsActive,
		IsApproved: r.IsApproved,
	}
}
