package user

import (
	"net/mail"
	"time"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/core/common/validation"
)

// CreateUserDTO is the open registration payload.
type CreateUserDTO struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	SecondLastName string `json:"second_last_name"`
	EmployeeNumber *int64 `json:"employee_number,omitempty"`
}

func (dto CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MaxLength(150)
	v.Field("email", dto.Email).Required().MaxLength(254).Custom(func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && s != "" {
			if _, err := mail.ParseAddress(s); err != nil {
				return errors.NewValidationFieldError("email", "email is not a valid address", errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidatePassword(dto.Password)
}

// UpdateUserDTO applies only fields present in the request; absent fields
// leave the record untouched.
type UpdateUserDTO struct {
	Email          *string `json:"email,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	SecondLastName *string `json:"second_last_name,omitempty"`
	EmployeeNumber *int64  `json:"employee_number,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() *errors.AppError {
	if dto.Email != nil {
		if _, err := mail.ParseAddress(*dto.Email); err != nil {
			return errors.NewValidationFieldError("email", "email is not a valid address", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

// ChangePasswordDTO carries the old and new credentials; all three fields
// are required and the new password must match its confirmation.
type ChangePasswordDTO struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (dto ChangePasswordDTO) Validate() *errors.AppError {
	if dto.OldPassword == "" || dto.NewPassword == "" || dto.ConfirmPassword == "" {
		return errors.NewValidationError("all password fields are required", errors.ErrCodeValidationFailed)
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return errors.NewValidationError("new passwords do not match", errors.ErrCodePasswordMismatch)
	}
	return validation.ValidatePassword(dto.NewPassword)
}

// UserResponse is the read shape exposed over HTTP.
type UserResponse struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	SecondLastName string     `json:"second_last_name"`
	EmployeeNumber *int64     `json:"employee_number,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsStaff        bool       `json:"is_staff"`
	IsSuperuser    bool       `json:"is_superuser"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		SecondLastName: u.SecondLastName,
		EmployeeNumber: u.EmployeeNumber,
		IsActive:       u.IsActive,
		IsStaff:        u.IsStaff,
		IsSuperuser:    u.IsSuperuser,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToResponseSlice(users []*User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = u.ToResponse()
	}
	return result
}
