package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/records-management/internal/auth"
	userDatamodel "github.com/frahmantamala/records-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockRepository implements auth.Repository for testing
type MockRepository struct {
	users  map[string]*userDatamodel.User
	tokens map[string]*userDatamodel.AuthToken
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  make(map[string]*userDatamodel.User),
		tokens: make(map[string]*userDatamodel.AuthToken),
	}
}

func (m *MockRepository) AddUser(u *userDatamodel.User) {
	m.users[u.Username] = u
}

func (m *MockRepository) GetByLogin(login string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockRepository) GetActiveUser(userID int64) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.ID == userID && u.IsActive {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockRepository) UpdateLastLogin(userID int64, at time.Time) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.LastLogin = &at
		}
	}
	return nil
}

func (m *MockRepository) StoreToken(token *userDatamodel.AuthToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockRepository) GetToken(tokenHash string) (*userDatamodel.AuthToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil, errors.New("record not found")
	}
	return token, nil
}

func (m *MockRepository) DeleteTokensForUser(userID int64) (int64, error) {
	var deleted int64
	for hash, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, hash)
			deleted++
		}
	}
	return deleted, nil
}

var _ = Describe("Auth Service", func() {
	var (
		mockRepo *MockRepository
		service  *auth.Service
		account  *userDatamodel.User
	)

	const secret = "test-secret-test-secret-test-secret-1234"
	const password = "correct horse battery"

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		mockRepo = NewMockRepository()
		tokenGen := auth.NewJWTTokenGenerator(secret, time.Hour)
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost, lg)

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		account = &userDatamodel.User{
			ID:           1,
			Username:     "clerk",
			Email:        "clerk@mail.com",
			PasswordHash: string(hash),
			FirstName:    "Claudia",
			LastName:     "Reyes",
			IsActive:     true,
			IsStaff:      true,
		}
		mockRepo.AddUser(account)
	})

	Describe("Authenticate", func() {
		It("issues a token and stores its hash server-side", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "clerk", Password: password})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.UserID).To(Equal(account.ID))
			Expect(resp.FullName).To(Equal("Claudia Reyes"))
			Expect(resp.Permissions).To(ContainElement("manage_catalog"))

			Expect(mockRepo.tokens).To(HaveKey(auth.HashToken(resp.Token)))
		})

		It("accepts the email as login", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "clerk@mail.com", Password: password})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "clerk", Password: "nope"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown user the same way as a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "ghost", Password: password})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an inactive account", func() {
			account.IsActive = false
			_, err := service.Authenticate(auth.LoginDTO{Username: "clerk", Password: password})
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("ValidateToken", func() {
		var token string

		BeforeEach(func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "clerk", Password: password})
			Expect(err).NotTo(HaveOccurred())
			token = resp.Token
		})

		It("resolves the actor for a live token", func() {
			actor, err := service.ValidateToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.ID).To(Equal(account.ID))
			Expect(actor.IsStaff).To(BeTrue())
		})

		It("rejects a tampered token", func() {
			_, err := service.ValidateToken(token + "x")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("rejects a token whose account was deactivated", func() {
			account.IsActive = false
			_, err := service.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("Logout", func() {
		It("revokes the token even though its signature is still valid", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "clerk", Password: password})
			Expect(err).NotTo(HaveOccurred())

			actor, err := service.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Logout(*actor)).To(Succeed())

			_, err = service.ValidateToken(resp.Token)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})
