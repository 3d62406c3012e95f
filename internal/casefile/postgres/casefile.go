package postgres

import (
	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/casefile"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// visibleScope restricts non-superusers to case files they own.
func (r *Repository) visibleScope(actor auth.Actor) *gorm.DB {
	query := r.db.Model(&casefileDatamodel.CaseFile{})
	if !actor.IsSuperuser {
		query = query.Where("user_id = ?", actor.ID)
	}
	return query
}

func (r *Repository) ListVisible(actor auth.Actor, params casefile.ListParams) ([]*casefileDatamodel.CaseFile, error) {
	query := r.visibleScope(actor)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("subject LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if params.UserID > 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var records []*casefileDatamodel.CaseFile
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetVisible(actor auth.Actor, id int64) (*casefileDatamodel.CaseFile, error) {
	var record casefileDatamodel.CaseFile
	if err := r.visibleScope(actor).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Create(caseFile *casefileDatamodel.CaseFile) error {
	return r.db.Create(caseFile).Error
}

func (r *Repository) Update(caseFile *casefileDatamodel.CaseFile) error {
	return r.db.Save(caseFile).Error
}

// DeleteCascade removes the case file, its entries, and their hashtag
// associations in one transaction.
func (r *Repository) DeleteCascade(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var entryIDs []int64
		if err := tx.Model(&entryDatamodel.Entry{}).
			Where("case_file_id = ?", id).
			Pluck("id", &entryIDs).Error; err != nil {
			return err
		}

		if len(entryIDs) > 0 {
			if err := tx.Where("entry_id IN ?", entryIDs).
				Delete(&entryDatamodel.EntryHashtag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("case_file_id = ?", id).
				Delete(&entryDatamodel.Entry{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&casefileDatamodel.CaseFile{}).Error
	})
}
