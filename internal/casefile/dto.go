package casefile

import (
	"time"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/core/common/validation"
)

// CreateCaseFileDTO carries the client-writable fields. The owner is never
// taken from the payload; it is always the authenticated user.
type CreateCaseFileDTO struct {
	Subject     string    `json:"subject"`
	EventDate   time.Time `json:"event_date"`
	Description *string   `json:"description,omitempty"`
}

func (d *CreateCaseFileDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("subject", d.Subject).
		Required().
		MaxLength(255)
	validator.Field("event_date", d.EventDate).
		Required()
	return validator.Validate()
}

// UpdateCaseFileDTO uses pointers so absent fields are left untouched. The
// owning user is fixed at creation and cannot be reassigned here.
type UpdateCaseFileDTO struct {
	Subject     *string    `json:"subject,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

func (d *UpdateCaseFileDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Subject != nil {
		validator.Field("subject", *d.Subject).
			Required().
			MaxLength(255)
	}
	if d.EventDate != nil {
		validator.Field("event_date", *d.EventDate).
			Required()
	}
	return validator.Validate()
}

type CaseFileResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Subject     string    `json:"subject"`
	EventDate   time.Time `json:"event_date"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *CaseFile) ToResponse() *CaseFileResponse {
	return &CaseFileResponse{
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

func ToResponseSlice(caseFiles []*CaseFile) []*CaseFileResponse {
	responses := make([]*CaseFileResponse, 0, len(caseFiles))
	for _, caseFile := range caseFiles {
		responses = append(responses, caseFile.ToResponse())
	}
	return responses
}
