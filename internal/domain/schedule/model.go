package schedule

import (
	"time"

	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/pagination"
)

type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
	ShiftFull  ShiftType = "full"
)

const (
	DefaultStartTime = "08:00"
	DefaultEndTime   = "08:00"
	DayStartTime     = "08:00"
	NightStartTime   = "20:00"

	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	UpcomingLimit = 9
	MaxRangeDays  = 366
)

type RotationType string

const (
	RotationSequential RotationType = "sequential"
	RotationRandom     RotationType = "random"
)

// DutySchedule is one pharmacy's on-call window for one calendar date.
// StartTime and EndTime are zero-padded HH:MM strings; EndTime < StartTime marks an overnight shift.
type DutySchedule struct {
	ID          uint      `gorm:"primaryKey"`
	PharmacyID  uint      `gorm:"not null;uniqueIndex:uq_duty_schedules_pharmacy_date"`
	DutyDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_duty_schedules_pharmacy_date"`
	StartTime   string    `gorm:"size:5;not null"`
	EndTime     string    `gorm:"size:5;not null"`
	IsEmergency bool      `gorm:"not null"`
	Notes       *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Pharmacy *pharmacy.Pharmacy `gorm:"foreignKey:PharmacyID"`
}

func (DutySchedule) TableName() string {
	return "duty_schedules"
}

func (s DutySchedule) ShiftType() ShiftType {
	return DeriveShiftType(s.StartTime, s.EndTime)
}

// DeriveShiftType is the only source of a schedule's shift type; it is never stored.
func DeriveShiftType(start, end string) ShiftType {
	switch {
	case start == DayStartTime && end == NightStartTime:
		return ShiftDay
	case start == NightStartTime && end == DayStartTime:
		return ShiftNight
	default:
		return ShiftFull
	}
}

// IsOnDutyAt applies the same-day window check used by the on-duty-now query.
// Overnight windows are not wrapped past midnight, so 20:00-08:00 never matches.
func IsOnDutyAt(s DutySchedule, date time.Time, clock string) bool {
	return SameDate(s.DutyDate, date) && s.StartTime <= clock && s.EndTime >= clock
}

type Input struct {
	DutyDate    time.Time
	StartTime   string
	EndTime     string
	IsEmergency bool
	Notes       *string
}

type AdminInput struct {
	PharmacyID uint
	Input
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	PharmacyID  *uint
	DutyDate    *time.Time
	StartTime   *string
	EndTime     *string
	IsEmergency *bool
	Notes       OptionalNullableString
}

type ListFilter struct {
	PharmacyID *uint
	From       *time.Time
	To         *time.Time
	pagination.Params
}

type BulkItem struct {
	PharmacyID  uint
	DutyDate    time.Time
	StartTime   string
	EndTime     string
	IsEmergency bool
	Notes       *string
}

type ItemError struct {
	Index      int
	PharmacyID uint
	DutyDate   time.Time
	Message    string
}

type BulkResult struct {
	SuccessCount int
	ErrorCount   int
	Created      []DutySchedule
	Errors       []ItemError
}

type RotationInput struct {
	StartDate    time.Time
	EndDate      time.Time
	RotationType RotationType
}

type RotationResult struct {
	CreatedCount int
	SkippedCount int
	Created      []DutySchedule
}
