package postgres

import (
	"github.com/frahmantamala/records-management/internal/auth"
	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
	"github.com/frahmantamala/records-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// visibleScope restricts non-superusers to active accounts.
func (r *Repository) visibleScope(actor auth.Actor) *gorm.DB {
	query := r.db.Model(&userDatamodel.User{})
	if !actor.IsSuperuser {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func (r *Repository) ListVisible(actor auth.Actor, params user.ListParams) ([]*userDatamodel.User, error) {
	query := r.visibleScope(actor)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where(
			"username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var records []*userDatamodel.User
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetVisible(actor auth.Actor, id int64) (*userDatamodel.User, error) {
	var record userDatamodel.User
	if err := r.visibleScope(actor).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) GetActive() ([]*userDatamodel.User, error) {
	var records []*userDatamodel.User
	if err := r.db.Where("is_active = ?", true).Order("username").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *Repository) ExistsByUsername(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
