package user

import (
	"log/slog"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// ListParams narrows and pages a listing.
type ListParams struct {
	Limit  int
	Offset int
	Search string
}

// Repository is the data access surface for users. Methods taking an actor
// apply the visibility rule: superusers see every account, everyone else
// sees only active ones.
type Repository interface {
	ListVisible(actor auth.Actor, params ListParams) ([]*userDatamodel.User, error)
	GetVisible(actor auth.Actor, id int64) (*userDatamodel.User, error)
	GetActive() ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
}

// PasswordHasher abstracts bcrypt so the auth service owns cost policy.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) ListUsers(actor auth.Actor, params ListParams) ([]*User, error) {
	records, err := s.repo.ListVisible(actor, params)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to list users", err)
	}
	return FromDataModelSlice(records), nil
}

// GetUser resolves a user through the visibility rule. An inactive account
// looked up by a non-superuser is reported as absent, not forbidden.
func (s *Service) GetUser(actor auth.Actor, id int64) (*User, error) {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) GetMe(actor auth.Actor) (*User, error) {
	return s.GetUser(actor, actor.ID)
}

func (s *Service) ActiveUsers() ([]*User, error) {
	records, err := s.repo.GetActive()
	if err != nil {
		s.logger.Error("failed to list active users", "error", err)
		return nil, errors.NewInternalError("failed to list active users", err)
	}
	return FromDataModelSlice(records), nil
}

// RegisterUser creates an account; registration is open, so no actor is
// involved.
func (s *Service) RegisterUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.repo.ExistsByUsername(dto.Username); err != nil {
		return nil, errors.NewInternalError("failed to check username", err)
	} else if taken {
		return nil, errors.NewValidationFieldError("username", "username is already taken", errors.ErrCodeDuplicateUsername)
	}
	if taken, err := s.repo.ExistsByEmail(dto.Email); err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	} else if taken {
		return nil, errors.NewValidationFieldError("email", "email is already registered", errors.ErrCodeDuplicateEmail)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	record := &userDatamodel.User{
		Username:       dto.Username,
		Email:          dto.Email,
		PasswordHash:   hash,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		SecondLastName: dto.SecondLastName,
		EmployeeNumber: dto.EmployeeNumber,
		IsActive:       true,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", record.ID, "username", record.Username)
	return FromDataModel(record), nil
}

// UpdateUser applies only the fields present in the DTO.
func (s *Service) UpdateUser(actor auth.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	if dto.Email != nil {
		record.Email = *dto.Email
	}
	if dto.FirstName != nil {
		record.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		record.LastName = *dto.LastName
	}
	if dto.SecondLastName != nil {
		record.SecondLastName = *dto.SecondLastName
	}
	if dto.EmployeeNumber != nil {
		record.EmployeeNumber = dto.EmployeeNumber
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	return FromDataModel(record), nil
}

// DeactivateUser is the destroy operation: accounts are soft-deleted, never
// removed.
func (s *Service) DeactivateUser(actor auth.Actor, id int64) error {
	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return errors.ErrUserNotFound
	}

	record.IsActive = false
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return errors.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) ChangePassword(actor auth.Actor, id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	record, err := s.repo.GetVisible(actor, id)
	if err != nil {
		return errors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(dto.OldPassword)); err != nil {
		return errors.NewValidationError("old password is incorrect", errors.ErrCodePasswordMismatch)
	}

	hash, err := s.hasher.HashPassword(dto.NewPassword)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}

	record.PasswordHash = hash
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", id)
		return errors.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", id, "actor_id", actor.ID)
	return nil
}
