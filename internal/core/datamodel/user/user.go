package user

import "time"

// User is the persistence record behind the custom user model. Users are
// never hard-deleted; deactivation flips is_active.
type User struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"column:password_hash;not null"`
	FirstName      string     `json:"first_name" gorm:"column:first_name"`
	LastName       string     `json:"last_name" gorm:"column:last_name"`
	SecondLastName string     `json:"second_last_name" gorm:"column:second_last_name"`
	EmployeeNumber *int64     `json:"employee_number,omitempty" gorm:"column:employee_number;uniqueIndex"`
	IsActive       bool       `json:"is_active" gorm:"column:is_active;default:true"`
	IsStaff        bool       `json:"is_staff" gorm:"column:is_staff;default:false"`
	IsSuperuser    bool       `json:"is_superuser" gorm:"column:is_superuser;default:false"`
	LastLogin      *time.Time `json:"last_login,omitempty" gorm:"column:last_login"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// AuthToken is a server-side record of an issued bearer token. Only the
// SHA-256 hash of the token is stored; logout deletes the user's rows which
// revokes every outstanding token.
type AuthToken struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	TokenHash string    `gorm:"column:token_hash;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
