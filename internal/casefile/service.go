package casefile

import (
	"log/slog"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	casefileDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/casefile"
)

type ListParams struct {
	Limit    int
	Offset   int
	Search   string
	UserID   int64
	IsActive *bool
}

// Repository is the data access surface for case files. Actor-aware methods
// restrict non-superusers to the case files they own.
type Repository interface {
	ListVisible(actor auth.Actor, params ListParams) ([]*casefileDatamodel.CaseFile, error)
	GetVisible(actor auth.Actor, id int64) (*casefileDatamodel.CaseFile, error)
	Create(caseFile *casefileDatamodel.CaseFile) error
	Update(caseFile *casefileDatamodel.CaseFile) error
	DeleteCascade(id int64) error
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

func (s *Service) ListCaseFiles(actor auth.Actor, params ListParams) ([]*CaseFile, error) {
	records, err := s.repo.ListVisible(actor, params)
	if err != nil {
		s.logger.Error("failed to list case files", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to list case files", err)
	}
	return FromDataModelSlice(records), nil
}

// GetCaseFile resolves a case file through the ownership rule. A case file
// owned by someone else is reported as absent, never as forbidden.
func (s *Service) GetCaseFile(actor auth.Actor, id int64) (*CaseFile, error) {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrCaseFileNotFound
	}
	return FromDataModel(record), nil
}

// CreateCaseFile opens a case file owned by the actor. Ownership is not
// client-assignable.
func (s *Service) CreateCaseFile(actor auth.Actor, dto CreateCaseFileDTO) (*CaseFile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &casefileDatamodel.CaseFile{
		UserID:      actor.ID,
		Subject:     dto.Subject,
		EventDate:   dto.EventDate,
		Description: dto.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create case file", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to create case file", err)
	}

	s.logger.Info("case file created", "case_file_id", record.ID, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) UpdateCaseFile(actor auth.Actor, id int64, dto UpdateCaseFileDTO) (*CaseFile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrCaseFileNotFound
	}

	if dto.Subject != nil {
		record.Subject = *dto.Subject
	}
	if dto.EventDate != nil {
		record.EventDate = *dto.EventDate
	}
	if dto.Description != nil {
		record.Description = dto.Description
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update case file", "error", err, "case_file_id", id)
		return nil, errors.NewInternalError("failed to update case file", err)
	}

	return FromDataModel(record), nil
}

// DeleteCaseFile permanently removes a case file together with its entries
// and their hashtag associations.
func (s *Service) DeleteCaseFile(actor auth.Actor, id int64) error {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return errors.ErrCaseFileNotFound
	}

	if err := s.repo.DeleteCascade(record.ID); err != nil {
		s.logger.Error("failed to delete case file", "error", err, "case_file_id", id)
		return errors.NewInternalError("failed to delete case file", err)
	}

	s.logger.Info("case file deleted", "case_file_id", id, "actor_id", actor.ID)
	return nil
}
