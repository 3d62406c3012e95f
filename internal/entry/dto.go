package entry

import (
	"io"
	"time"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/core/common/validation"
)

type CreateEntryDTO struct {
	CaseFileID  int64   `json:"case_file_id"`
	Location    string  `json:"location"`
	Description *string `json:"description,omitempty"`
}

func (d *CreateEntryDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("case_file_id", d.CaseFileID).
		Required()
	validator.Field("location", d.Location).
		Required().
		MaxLength(255)
	return validator.Validate()
}

// UpdateEntryDTO uses pointers so absent fields are left untouched.
// RecordedAt is deliberately not here; the capture timestamp never changes.
type UpdateEntryDTO struct {
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (d *UpdateEntryDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Location != nil {
		validator.Field("location", *d.Location).
			Required().
			MaxLength(255)
	}
	return validator.Validate()
}

type AttachHashtagDTO struct {
	HashtagID int64 `json:"hashtag_id"`
}

func (d *AttachHashtagDTO) Validate() *errors.AppError {
	if d.HashtagID == 0 {
		return errors.NewValidationFieldError("hashtag_id", "hashtag_id is required", errors.ErrCodeMissingHashtagID)
	}
	return nil
}

// PhotoUpload carries one multipart file from the transport layer into the
// photo workflow.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type EntryResponse struct {
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

func (e *Entry) ToResponse() *EntryResponse {
	return &EntryResponse{
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

func ToResponseSlice(entries []*Entry) []*EntryResponse {
	responses := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}
	return responses
}

type AssociationResponse struct {
	ID        int64     `json:"id"`
	HashtagID int64     `json:"hashtag_id"`
	EntryID   int64     `json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Association) ToResponse() *AssociationResponse {
	return &AssociationResponse{
		ID:        a.ID,
		HashtagID: a.HashtagID,
		EntryID:   a.EntryID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func AssociationToResponseSlice(associations []*Association) []*AssociationResponse {
	responses := make([]*AssociationResponse, 0, len(associations))
	for _, a := range associations {
		responses = append(responses, a.ToResponse())
	}
	return responses
}
