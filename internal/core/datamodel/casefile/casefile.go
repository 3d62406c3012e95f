package casefile

import "time"

// CaseFile is the aggregate root for tracked cases ("expedientes"). Each
// belongs to exactly one subject user. Destroying a case file is a hard
// delete that cascades to its entries.
type CaseFile struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Subject     string    `json:"subject" gorm:"not null"`
	EventDate   time.Time `json:"event_date" gorm:"column:event_date;not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (CaseFile) TableName() string {
	return "case_files"
}
