package hashtag

import (
	"time"

	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
)

// Hashtag is a catalog tag shared across entries.
type Hashtag struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Hashtag) Deactivate() {
	h.IsActive = false
}

func (h *Hashtag) ToDataModel() *hashtagDatamodel.Hashtag {
	return &hashtagDatamodel.Hashtag{
		ID:          h.ID,
		Description: h.Description,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func FromDataModel(record *hashtagDatamodel.Hashtag) *Hashtag {
	return &Hashtag{
		ID:          record.ID,
		Description: record.Description,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func FromDataModelSlice(records []*hashtagDatamodel.Hashtag) []*Hashtag {
	tags := make([]*Hashtag, 0, len(records))
	for _, record := range records {
		tags = append(tags, FromDataModel(record))
	}
	return tags
}
