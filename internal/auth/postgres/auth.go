package postgres

import (
	"time"

	"github.com/frahmantamala/records-management/internal/auth"
	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

// GetByLogin resolves a user by username or email.
func (r *Repository) GetByLogin(login string) (*userDatamodel.User, error) {
	var account userDatamodel.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) GetActiveUser(userID int64) (*userDatamodel.User, error) {
	var account userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", userID, true).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

func (r *Repository) StoreToken(token *userDatamodel.AuthToken) error {
	return r.db.Create(token).Error
}

func (r *Repository) GetToken(tokenHash string) (*userDatamodel.AuthToken, error) {
	var token userDatamodel.AuthToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *Repository) DeleteTokensForUser(userID int64) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&userDatamodel.AuthToken{})
	return res.RowsAffected, res.Error
}
