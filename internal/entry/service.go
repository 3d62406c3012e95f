package entry

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
	entryDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/entry"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
	"github.com/frahmantamala/records-management/internal/hashtag"
	"github.com/frahmantamala/records-management/internal/storage"
	"github.com/google/uuid"
)

type ListParams struct {
	Limit      int
	Offset     int
	Search     string
	CaseFileID int64
	CreatedBy  int64
	IsActive   *bool
}

// AssociationListParams filters the flat association listing by either side
// of the pair.
type AssociationListParams struct {
	Limit     int
	Offset    int
	HashtagID int64
	EntryID   int64
}

// Repository is the data access surface for entries and their hashtag
// associations. Actor-aware methods apply the union visibility rule: an
// entry is visible to its author and to the owner of its case file.
type Repository interface {
	ListVisible(actor auth.Actor, params ListParams) ([]*entryDatamodel.Entry, error)
	ListVisibleByCaseFile(actor auth.Actor, caseFileID int64, params ListParams) ([]*entryDatamodel.Entry, error)
	GetVisible(actor auth.Actor, id int64) (*entryDatamodel.Entry, error)
	Create(e *entryDatamodel.Entry) error
	Update(e *entryDatamodel.Entry) error
	UpdatePhotoURL(id int64, url string) error

	GetOrCreateAssociation(entryID, hashtagID int64) (*entryDatamodel.EntryHashtag, bool, error)
	DeleteAssociation(entryID, hashtagID int64) (int64, error)
	HashtagsForEntry(entryID int64) ([]*hashtagDatamodel.Hashtag, error)

	ListVisibleAssociations(actor auth.Actor, params AssociationListParams) ([]*entryDatamodel.EntryHashtag, error)
	GetVisibleAssociation(actor auth.Actor, id int64) (*entryDatamodel.EntryHashtag, error)
	DeleteAssociationByID(id int64) error
}

// CaseFileReader resolves a parent case file under the actor's visibility.
type CaseFileReader interface {
	GetVisible(actor auth.Actor, id int64) (*casefileDatamodel.CaseFile, error)
}

// Catalog answers whether a hashtag is attachable.
type Catalog interface {
	ActiveExists(id int64) (bool, error)
}

type Service struct {
	repo      Repository
	caseFiles CaseFileReader
	catalog   Catalog
	store     storage.Storage
	logger    *slog.Logger
}

func NewService(repo Repository, caseFiles CaseFileReader, catalog Catalog, store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		caseFiles: caseFiles,
		catalog:   catalog,
		store:     store,
		logger:    logger,
	}
}

func (s *Service) ListEntries(actor auth.Actor, params ListParams) ([]*Entry, error) {
	records, err := s.repo.ListVisible(actor, params)
	if err != nil {
		s.logger.Error("failed to list entries", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to list entries", err)
	}
	return FromDataModelSlice(records), nil
}

// ListByCaseFile lists the entries of one case file. The case file must
// itself be visible to the actor.
func (s *Service) ListByCaseFile(actor auth.Actor, caseFileID int64, params ListParams) ([]*Entry, error) {
	if _, err := s.caseFiles.GetVisible(actor, caseFileID); err != nil {
		return nil, errors.ErrCaseFileNotFound
	}

	records, err := s.repo.ListVisibleByCaseFile(actor, caseFileID, params)
	if err != nil {
		s.logger.Error("failed to list case file entries", "error", err, "case_file_id", caseFileID)
		return nil, errors.NewInternalError("failed to list entries", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) GetEntry(actor auth.Actor, id int64) (*Entry, error) {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrEntryNotFound
	}
	return FromDataModel(record), nil
}

// CreateEntry records an observation against a case file the actor can see.
// The capture timestamp is set here and never touched again.
func (s *Service) CreateEntry(actor auth.Actor, dto CreateEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.caseFiles.GetVisible(actor, dto.CaseFileID); err != nil {
		return nil, errors.ErrCaseFileNotFound
	}

	createdBy := actor.ID
	record := &entryDatamodel.Entry{
		CaseFileID:  dto.CaseFileID,
		CreatedBy:   &createdBy,
		Location:    dto.Location,
		Description: dto.Description,
		RecordedAt:  time.Now().UTC(),
		IsActive:    true,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create entry", "error", err, "case_file_id", dto.CaseFileID)
		return nil, errors.NewInternalError("failed to create entry", err)
	}

	s.logger.Info("entry created", "entry_id", record.ID, "case_file_id", dto.CaseFileID, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) UpdateEntry(actor auth.Actor, id int64, dto UpdateEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrEntryNotFound
	}

	if dto.Location != nil {
		record.Location = *dto.Location
	}
	if dto.Description != nil {
		record.Description = dto.Description
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update entry", "error", err, "entry_id", id)
		return nil, errors.NewInternalError("failed to update entry", err)
	}

	return FromDataModel(record), nil
}

// DeactivateEntry is the destroy operation: entries are soft-deleted and
// keep their photo and hashtag associations.
func (s *Service) DeactivateEntry(actor auth.Actor, id int64) error {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return errors.ErrEntryNotFound
	}

	record.IsActive = false
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate entry", "error", err, "entry_id", id)
		return errors.NewInternalError("failed to deactivate entry", err)
	}

	s.logger.Info("entry deactivated", "entry_id", id, "actor_id", actor.ID)
	return nil
}

// AttachHashtag links a catalog tag to an entry. The operation is
// idempotent: attaching an already-attached tag returns the existing
// association with created=false.
func (s *Service) AttachHashtag(actor auth.Actor, entryID int64, dto AttachHashtagDTO) (*Association, bool, error) {
	// resolve the entry before looking at the payload so an inaccessible
	// entry always reads as absent
	if _, err := s.repo.GetVisible(actor, entryID); err != nil {
		return nil, false, errors.ErrEntryNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, false, err
	}

	attachable, err := s.catalog.ActiveExists(dto.HashtagID)
	if err != nil {
		return nil, false, errors.NewInternalError("failed to check hashtag", err)
	}
	if !attachable {
		return nil, false, errors.ErrHashtagInactive
	}

	record, created, err := s.repo.GetOrCreateAssociation(entryID, dto.HashtagID)
	if err != nil {
		s.logger.Error("failed to attach hashtag", "error", err, "entry_id", entryID, "hashtag_id", dto.HashtagID)
		return nil, false, errors.NewInternalError("failed to attach hashtag", err)
	}

	if created {
		s.logger.Info("hashtag attached", "entry_id", entryID, "hashtag_id", dto.HashtagID, "actor_id", actor.ID)
	}
	return AssociationFromDataModel(record), created, nil
}

// DetachHashtag removes one association. Detaching a tag that was never
// attached reports the association as absent.
func (s *Service) DetachHashtag(actor auth.Actor, entryID, hashtagID int64) error {
	if _, err := s.repo.GetVisible(actor, entryID); err != nil {
		return errors.ErrEntryNotFound
	}

	deleted, err := s.repo.DeleteAssociation(entryID, hashtagID)
	if err != nil {
		s.logger.Error("failed to detach hashtag", "error", err, "entry_id", entryID, "hashtag_id", hashtagID)
		return errors.NewInternalError("failed to detach hashtag", err)
	}
	if deleted == 0 {
		return errors.ErrAssociationNotFound
	}

	s.logger.Info("hashtag detached", "entry_id", entryID, "hashtag_id", hashtagID, "actor_id", actor.ID)
	return nil
}

// EntryHashtags lists the catalog tags attached to one entry.
func (s *Service) EntryHashtags(actor auth.Actor, entryID int64) ([]*hashtag.Hashtag, error) {
	if _, err := s.repo.GetVisible(actor, entryID); err != nil {
		return nil, errors.ErrEntryNotFound
	}

	records, err := s.repo.HashtagsForEntry(entryID)
	if err != nil {
		s.logger.Error("failed to list entry hashtags", "error", err, "entry_id", entryID)
		return nil, errors.NewInternalError("failed to list entry hashtags", err)
	}
	return hashtag.FromDataModelSlice(records), nil
}

// AttachPhoto validates and stores an uploaded photo, then records its URL
// on the entry. The file reaches storage before the database row changes so
// a failed write never leaves a dangling URL.
func (s *Service) AttachPhoto(actor auth.Actor, entryID int64, upload PhotoUpload) (*Entry, error) {
	record, err := s.repo.GetVisible(actor, entryID)
	if err != nil {
		return nil, errors.ErrEntryNotFound
	}

	if upload.Size > MaxPhotoSize {
		return nil, errors.NewValidationError("photo exceeds the maximum allowed size", errors.ErrCodeFileTooLarge)
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, errors.NewValidationError("uploaded file must be an image", errors.ErrCodeInvalidFileType)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	key := fmt.Sprintf("case_files/%d/entries/%d/%s%s", record.CaseFileID, record.ID, uuid.New().String(), ext)

	url, err := s.store.Save(key, upload.Reader)
	if err != nil {
		s.logger.Error("failed to store photo", "error", err, "entry_id", entryID)
		return nil, errors.NewInternalError("failed to store photo", err)
	}

	if err := s.repo.UpdatePhotoURL(record.ID, url); err != nil {
		s.logger.Error("failed to record photo url", "error", err, "entry_id", entryID)
		return nil, errors.NewInternalError("failed to record photo", err)
	}

	record.PhotoURL = &url
	s.logger.Info("photo attached", "entry_id", entryID, "key", key, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) ListAssociations(actor auth.Actor, params AssociationListParams) ([]*Association, error) {
	records, err := s.repo.ListVisibleAssociations(actor, params)
	if err != nil {
		s.logger.Error("failed to list associations", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to list associations", err)
	}
	return AssociationFromDataModelSlice(records), nil
}

func (s *Service) GetAssociation(actor auth.Actor, id int64) (*Association, error) {
	record, err := s.repo.GetVisibleAssociation(actor, id)
	if err != nil {
		return nil, errors.ErrAssociationNotFound
	}
	return AssociationFromDataModel(record), nil
}

func (s *Service) DeleteAssociation(actor auth.Actor, id int64) error {
	record, err := s.repo.GetVisibleAssociation(actor, id)
	if err != nil {
		return errors.ErrAssociationNotFound
	}

	if err := s.repo.DeleteAssociationByID(record.ID); err != nil {
		s.logger.Error("failed to delete association", "error", err, "association_id", id)
		return errors.NewInternalError("failed to delete association", err)
	}

	s.logger.Info("association deleted", "association_id", id, "actor_id", actor.ID)
	return nil
}
