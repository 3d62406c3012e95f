package entry

import (
	"time"

	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
)

// MaxPhotoSize is the largest accepted photo upload.
const MaxPhotoSize = 12 << 20

// Entry is a located observation inside a case file. RecordedAt is fixed at
// creation; later edits only touch the mutable fields.
type Entry struct {
	ID          int64     `json:"id"`
	CaseFileID  int64     `json:"case_file_id"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Entry) ToDataModel() *entryDatamodel.Entry {
	return &entryDatamodel.Entry{
		ID:          e.ID,
		CaseFileID:  e.CaseFileID,
		CreatedBy:   e.CreatedBy,
		Location:    e.Location,
		Description: e.Description,
		PhotoURL:    e.PhotoURL,
		RecordedAt:  e.RecordedAt,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(record *entryDatamodel.Entry) *Entry {
	return &Entry{
		ID:          record.ID,
		CaseFileID:  record.CaseFileID,
		CreatedBy:   record.CreatedBy,
		Location:    record.Location,
		Description: record.Description,
		PhotoURL:    record.PhotoURL,
		RecordedAt:  record.RecordedAt,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func FromDataModelSlice(records []*entryDatamodel.Entry) []*Entry {
	entries := make([]*Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, FromDataModel(record))
	}
	return entries
}

// Association links one catalog hashtag to one entry.
type Association struct {
	ID        int64     `json:"id"`
	HashtagID int64     `json:"hashtag_id"`
	EntryID   int64     `json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func AssociationFromDataModel(record *entryDatamodel.EntryHashtag) *Association {
	return &Association{
		ID:        record.ID,
		HashtagID: record.HashtagID,
		EntryID:   record.EntryID,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func AssociationFromDataModelSlice(records []*entryDatamodel.EntryHashtag) []*Association {
	associations := make([]*Association, 0, len(records))
	for _, record := range records {
		associations = append(associations, AssociationFromDataModel(record))
	}
	return associations
}
