package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the persistence surface the auth service needs: credential
// lookup plus the server-side token store that makes logout a real
// revocation.
type Repository interface {
	GetByLogin(login string) (*userDatamodel.User, error)
	GetActiveUser(userID int64) (*userDatamodel.User, error)
	UpdateLastLogin(userID int64, at time.Time) error
	StoreToken(token *userDatamodel.AuthToken) error
	GetToken(tokenHash string) (*userDatamodel.AuthToken, error)
	DeleteTokensForUser(userID int64) (int64, error)
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// Authenticate validates credentials and issues a bearer token. The token is
// signed and its hash stored, so a later logout can revoke it.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByLogin(dto.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenGenerator.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.repo.StoreToken(&userDatamodel.AuthToken{
		UserID:    account.ID,
		TokenHash: HashToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	lastLogin := account.LastLogin
	now := time.Now()
	if err := s.repo.UpdateLastLogin(account.ID, now); err != nil {
		s.logger.Warn("failed to update last login", "user_id", account.ID, "error", err)
	}

	return &LoginResponse{
		Token:          token,
		UserID:         account.ID,
		Username:       account.Username,
		Email:          account.Email,
		FullName:       FullName(account),
		IsSuperuser:    account.IsSuperuser,
		IsActive:       account.IsActive,
		Permissions:    derivePermissions(account),
		LastLogin:      lastLogin,
		TokenExpiresAt: expiresAt,
	}, nil
}

// ValidateToken checks signature, expiry, server-side presence and that the
// account is still active, and resolves the actor.
func (s *Service) ValidateToken(tokenString string) (*Actor, error) {
	claims, err := s.tokenGenerator.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.GetToken(HashToken(tokenString))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	if stored.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}

	account, err := s.repo.GetActiveUser(claims.UserID)
	if err != nil {
		return nil, ErrUserInactive
	}

	return &Actor{
		ID:          account.ID,
		Username:    account.Username,
		IsStaff:     account.IsStaff,
		IsSuperuser: account.IsSuperuser,
	}, nil
}

// Logout removes every stored token for the actor.
func (s *Service) Logout(actor Actor) error {
	deleted, err := s.repo.DeleteTokensForUser(actor.ID)
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	s.logger.Info("tokens revoked", "user_id", actor.ID, "count", deleted)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HashToken derives the storage key for a bearer token. Tokens themselves
// never touch the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// FullName joins the given name with both last names, Spanish style.
func FullName(u *userDatamodel.User) string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName, u.SecondLastName}, " "))
}

// derivePermissions expands the role flags into the opaque permission
// strings clients expect. There is no modeled permission subsystem behind
// these.
func derivePermissions(u *userDatamodel.User) []string {
	perms := []string{"view_records", "create_records"}
	if u.IsStaff {
		perms = append(perms, "manage_catalog")
	}
	if u.IsSuperuser {
		perms = append(perms, "admin")
	}
	return perms
}

func (j *JWTTokenGenerator) Generate(userID int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (j *JWTTokenGenerator) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
