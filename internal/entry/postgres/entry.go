package postgres

import (
	goerrors "errors"
	"time"

	"github.com/frahmantamala/records-management/internal/auth"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/entry"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// visibleScope applies the union rule: a non-superuser sees an entry when
// they authored it or when they own its case file.
func (r *Repository) visibleScope(actor auth.Actor) *gorm.DB {
	query := r.db.Model(&entryDatamodel.Entry{}).Select("entries.*")
	if !actor.IsSuperuser {
		query = query.
			Joins("JOIN case_files ON case_files.id = entries.case_file_id").
			Where("entries.created_by = ? OR case_files.user_id = ?", actor.ID, actor.ID)
	}
	return query
}

func applyListParams(query *gorm.DB, params entry.ListParams) *gorm.DB {
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("entries.location LIKE ? OR entries.description LIKE ?", pattern, pattern)
	}
	if params.CaseFileID > 0 {
		query = query.Where("entries.case_file_id = ?", params.CaseFileID)
	}
	if params.CreatedBy > 0 {
		query = query.Where("entries.created_by = ?", params.CreatedBy)
	}
	if params.IsActive != nil {
		query = query.Where("entries.is_active = ?", *params.IsActive)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}
	return query
}

func (r *Repository) ListVisible(actor auth.Actor, params entry.ListParams) ([]*entryDatamodel.Entry, error) {
	var records []*entryDatamodel.Entry
	query := applyListParams(r.visibleScope(actor), params)
	if err := query.Order("entries.created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) ListVisibleByCaseFile(actor auth.Actor, caseFileID int64, params entry.ListParams) ([]*entryDatamodel.Entry, error) {
	var records []*entryDatamodel.Entry
	query := applyListParams(r.visibleScope(actor).Where("entries.case_file_id = ?", caseFileID), params)
	if err := query.Order("entries.created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetVisible(actor auth.Actor, id int64) (*entryDatamodel.Entry, error) {
	var record entryDatamodel.Entry
	if err := r.visibleScope(actor).Where("entries.id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Create(e *entryDatamodel.Entry) error {
	return r.db.Create(e).Error
}

func (r *Repository) Update(e *entryDatamodel.Entry) error {
	return r.db.Save(e).Error
}

// UpdatePhotoURL touches only the photo column so concurrent edits to other
// fields are not clobbered.
func (r *Repository) UpdatePhotoURL(id int64, url string) error {
	return r.db.Model(&entryDatamodel.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"photo_url":  url,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GetOrCreateAssociation returns the existing (hashtag, entry) row or
// inserts it. The unique pair index makes a concurrent duplicate insert
// fail, in which case the winner's row is returned.
func (r *Repository) GetOrCreateAssociation(entryID, hashtagID int64) (*entryDatamodel.EntryHashtag, bool, error) {
	var record entryDatamodel.EntryHashtag
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("entry_id = ? AND hashtag_id = ?", entryID, hashtagID).
			First(&record).Error
		if err == nil {
			return nil
		}
		if !goerrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record = entryDatamodel.EntryHashtag{
			HashtagID: hashtagID,
			EntryID:   entryID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		// A concurrent attach may have won the insert race.
		if lookupErr := r.db.Where("entry_id = ? AND hashtag_id = ?", entryID, hashtagID).
			First(&record).Error; lookupErr == nil {
			return &record, false, nil
		}
		return nil, false, err
	}

	return &record, created, nil
}

func (r *Repository) DeleteAssociation(entryID, hashtagID int64) (int64, error) {
	result := r.db.Where("entry_id = ? AND hashtag_id = ?", entryID, hashtagID).
		Delete(&entryDatamodel.EntryHashtag{})
	return result.RowsAffected, result.Error
}

func (r *Repository) HashtagsForEntry(entryID int64) ([]*hashtagDatamodel.Hashtag, error) {
	var records []*hashtagDatamodel.Hashtag
	err := r.db.Model(&hashtagDatamodel.Hashtag{}).
		Select("hashtags.*").
		Joins("JOIN entry_hashtags ON entry_hashtags.hashtag_id = hashtags.id").
		Where("entry_hashtags.entry_id = ?", entryID).
		Order("hashtags.id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// associationScope restricts associations to those on entries the actor can
// see.
func (r *Repository) associationScope(actor auth.Actor) *gorm.DB {
	query := r.db.Model(&entryDatamodel.EntryHashtag{}).Select("entry_hashtags.*")
	if !actor.IsSuperuser {
		query = query.
			Joins("JOIN entries ON entries.id = entry_hashtags.entry_id").
			Joins("JOIN case_files ON case_files.id = entries.case_file_id").
			Where("entries.created_by = ? OR case_files.user_id = ?", actor.ID, actor.ID)
	}
	return query
}

func (r *Repository) ListVisibleAssociations(actor auth.Actor, params entry.AssociationListParams) ([]*entryDatamodel.EntryHashtag, error) {
	query := r.associationScope(actor)
	if params.HashtagID > 0 {
		query = query.Where("entry_hashtags.hashtag_id = ?", params.HashtagID)
	}
	if params.EntryID > 0 {
		query = query.Where("entry_hashtags.entry_id = ?", params.EntryID)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var records []*entryDatamodel.EntryHashtag
	if err := query.Order("entry_hashtags.created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetVisibleAssociation(actor auth.Actor, id int64) (*entryDatamodel.EntryHashtag, error) {
	var record entryDatamodel.EntryHashtag
	if err := r.associationScope(actor).Where("entry_hashtags.id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) DeleteAssociationByID(id int64) error {
	return r.db.Where("id = ?", id).Delete(&entryDatamodel.EntryHashtag{}).Error
}
