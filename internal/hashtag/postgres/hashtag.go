package postgres

import (
	"github.com/frahmantamala/records-management/internal/auth"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/hashtag"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// visibleScope hides retired tags from everyone except superusers.
func (r *Repository) visibleScope(actor auth.Actor) *gorm.DB {
	query := r.db.Model(&hashtagDatamodel.Hashtag{})
	if !actor.IsSuperuser {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func (r *Repository) ListVisible(actor auth.Actor, params hashtag.ListParams) ([]*hashtagDatamodel.Hashtag, error) {
	query := r.visibleScope(actor)

	if params.Search != "" {
		query = query.Where("description LIKE ?", "%"+params.Search+"%")
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var records []*hashtagDatamodel.Hashtag
	if err := query.Order("description").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetVisible(actor auth.Actor, id int64) (*hashtagDatamodel.Hashtag, error) {
	var record hashtagDatamodel.Hashtag
	if err := r.visibleScope(actor).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) GetActive() ([]*hashtagDatamodel.Hashtag, error) {
	var records []*hashtagDatamodel.Hashtag
	if err := r.db.Where("is_active = ?", true).Order("description").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ActiveExists reports whether the tag exists and is attachable.
func (r *Repository) ActiveExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&hashtagDatamodel.Hashtag{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(tag *hashtagDatamodel.Hashtag) error {
	return r.db.Create(tag).Error
}

func (r *Repository) Update(tag *hashtagDatamodel.Hashtag) error {
	return r.db.Save(tag).Error
}
