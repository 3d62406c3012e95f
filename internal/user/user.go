package user

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
)

// User is the domain view of an account. Password hashes stay out of JSON.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
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

func (u *User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName, u.SecondLastName}, " "))
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
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

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
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

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
