package hashtag

import "time"

// Hashtag is a reusable catalog tag. Deactivating one keeps existing entry
// associations intact; it only blocks new attachments.
type Hashtag struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Hashtag) TableName() string {
	return "hashtags"
}
