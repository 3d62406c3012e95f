package casefile

import (
	"time"

	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
)

// CaseFile tracks a case on behalf of its subject user. Entries hang off it
// and are destroyed with it.
type CaseFile struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Subject     string    `json:"subject"`
	EventDate   time.Time `json:"event_date"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *CaseFile) IsOwnedBy(userID int64) bool {
	return c.UserID == userID
}

func (c *CaseFile) ToDataModel() *casefileDatamodel.CaseFile {
	return &casefileDatamodel.CaseFile{
		ID:          c.ID,
		UserID:      c.UserID,
		Subject:     c.Subject,
		EventDate:   c.EventDate,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(record *casefileDatamodel.CaseFile) *CaseFile {
	return &CaseFile{
		ID:          record.ID,
		UserID:      record.UserID,
		Subject:     record.Subject,
		EventDate:   record.EventDate,
		Description: record.Description,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func FromDataModelSlice(records []*casefileDatamodel.CaseFile) []*CaseFile {
	caseFiles := make([]*CaseFile, 0, len(records))
	for _, record := range records {
		caseFiles = append(caseFiles, FromDataModel(record))
	}
	return caseFiles
}
