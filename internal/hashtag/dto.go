package hashtag

import (
	"time"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/core/common/validation"
)

type CreateHashtagDTO struct {
	Description string `json:"description"`
}

func (d *CreateHashtagDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("description", d.Description).
		Required().
		MaxLength(255)
	return validator.Validate()
}

// UpdateHashtagDTO uses pointers so absent fields are left untouched.
type UpdateHashtagDTO struct {
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (d *UpdateHashtagDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Description != nil {
		validator.Field("description", *d.Description).
			Required().
			MaxLength(255)
	}
	return validator.Validate()
}

type HashtagResponse struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Hashtag) ToResponse() *HashtagResponse {
	return &HashtagResponse{
		ID:          h.ID,
		Description: h.Description,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func ToResponseSlice(tags []*Hashtag) []*HashtagResponse {
	responses := make([]*HashtagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tag.ToResponse())
	}
	return responses
}
