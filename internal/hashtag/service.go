package hashtag

import (
	"log/slog"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	hashtagDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/hashtag"
)

type ListParams struct {
	Limit  int
	Offset int
	Search string
}

// Repository is the data access surface for the hashtag catalog. Actor-aware
// methods hide inactive tags from non-superusers.
type Repository interface {
	ListVisible(actor auth.Actor, params ListParams) ([]*hashtagDatamodel.Hashtag, error)
	GetVisible(actor auth.Actor, id int64) (*hashtagDatamodel.Hashtag, error)
	GetActive() ([]*hashtagDatamodel.Hashtag, error)
	Create(tag *hashtagDatamodel.Hashtag) error
	Update(tag *hashtagDatamodel.Hashtag) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListHashtags(actor auth.Actor, params ListParams) ([]*Hashtag, error) {
	records, err := s.repo.ListVisible(actor, params)
	if err != nil {
		s.logger.Error("failed to list hashtags", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to list hashtags", err)
	}
	return FromDataModelSlice(records), nil
}

// GetHashtag applies the catalog visibility rule: an inactive tag looked up
// by a non-superuser is reported as absent.
func (s *Service) GetHashtag(actor auth.Actor, id int64) (*Hashtag, error) {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrHashtagNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) ActiveHashtags() ([]*Hashtag, error) {
	records, err := s.repo.GetActive()
	if err != nil {
		s.logger.Error("failed to list active hashtags", "error", err)
		return nil, errors.NewInternalError("failed to list active hashtags", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) CreateHashtag(actor auth.Actor, dto CreateHashtagDTO) (*Hashtag, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &hashtagDatamodel.Hashtag{
		Description: dto.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create hashtag", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to create hashtag", err)
	}

	s.logger.Info("hashtag created", "hashtag_id", record.ID, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) UpdateHashtag(actor auth.Actor, id int64, dto UpdateHashtagDTO) (*Hashtag, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrHashtagNotFound
	}

	if dto.Description != nil {
		record.Description = *dto.Description
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update hashtag", "error", err, "hashtag_id", id)
		return nil, errors.NewInternalError("failed to update hashtag", err)
	}

	return FromDataModel(record), nil
}

// DeactivateHashtag retires a tag from the catalog. Existing entry
// associations are untouched; only new attachments are blocked.
func (s *Service) DeactivateHashtag(actor auth.Actor, id int64) error {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return errors.ErrHashtagNotFound
	}

	record.IsActive = false
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate hashtag", "error", err, "hashtag_id", id)
		return errors.NewInternalError("failed to deactivate hashtag", err)
	}

	s.logger.Info("hashtag deactivated", "hashtag_id", id, "actor_id", actor.ID)
	return nil
}
