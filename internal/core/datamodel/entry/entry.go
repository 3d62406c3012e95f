package entry

import "time"

// Entry is a located, time-stamped observation ("registro") belonging to one
// case file. RecordedAt is captured once at insertion and never updated.
// Entries are soft-deleted through the is_active flag.
type Entry struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	CaseFileID  int64     `json:"case_file_id" gorm:"column:case_file_id;not null;index"`
	CreatedBy   *int64    `json:"created_by,omitempty" gorm:"column:created_by;index"`
	Location    string    `json:"location" gorm:"not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	PhotoURL    *string   `json:"photo_url,omitempty" gorm:"column:photo_url"`
	RecordedAt  time.Time `json:"recorded_at" gorm:"column:recorded_at;not null"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Entry) TableName() string {
	return "entries"
}

// EntryHashtag joins catalog hashtags to entries. The (hashtag_id, entry_id)
// pair is unique so duplicate attach attempts collapse onto the existing row.
type EntryHashtag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HashtagID int64     `json:"hashtag_id" gorm:"column:hashtag_id;not null;uniqueIndex:idx_entry_hashtag_pair"`
	EntryID   int64     `json:"entry_id" gorm:"column:entry_id;not null;uniqueIndex:idx_entry_hashtag_pair"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (EntryHashtag) TableName() string {
	return "entry_hashtags"
}
