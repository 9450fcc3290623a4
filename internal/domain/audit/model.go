package audit

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionPharmacyApproved     = "pharmacy.approved"
	ActionPharmacyRejected     = "pharmacy.rejected"
	ActionPharmacyToggled      = "pharmacy.toggled_active"
	ActionPharmacyDeleted      = "pharmacy.deleted"
	ActionPharmacyRestored     = "pharmacy.restored"
	ActionReviewApproved       = "review.approved"
	ActionReviewDeleted        = "review.deleted"
	ActionUserDeleted          = "user.deleted"
	ActionSchedulesBulkCreated = "schedule.bulk_created"
	ActionRotationGenerated    = "schedule.rotation_generated"
)

const (
	EntityPharmacy = "pharmacy"
	EntityReview   = "review"
	EntityUser     = "user"
	EntitySchedule = "duty_schedule"
)

type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	ActorID   *uint  `gorm:"index"`
	Action    string `gorm:"size:64;not null"`
	Entity    string `gorm:"size:64;not null"`
	EntityID  *uint
	Details   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

type ListFilter struct {
	Entity   string
	EntityID *uint
	Limit    int
	Offset   int
}
