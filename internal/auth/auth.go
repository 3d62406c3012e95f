package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor is the authenticated identity performing an operation. Services take
// it as an explicit parameter; nothing below the handler layer reads request
// state.
type Actor struct {
	ID          int64
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

// Claims represents the signed token claims.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and parses signed bearer tokens.
type TokenGenerator interface {
	Generate(userID int64) (token string, expiresAt time.Time, err error)
	Parse(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated actor stored by the auth
// middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	if !ok || actor == nil {
		return Actor{}, false
	}
	return *actor, true
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}
