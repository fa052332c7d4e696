package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
}

// sessionManager signs and verifies session tokens.
// Tokens are HS256 JWTs: the client holds an opaque value it cannot edit
// without invalidating the signature.
type sessionManager struct {
	// Secret key to sign session token
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Session lifetime
	ttl time.Duration
}

func (m sessionManager) Issue(user models.User) (models.Session, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		sessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:   user.ID,
			Username: user.Username,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.Session{}, fmt.Errorf("error while signing session token. Err: %w", err)
	}

	return models.Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse and validate session token
func (m sessionManager) Parse(token string) (models.SessionUser, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("%w: %w", apperrors.ErrSessionInvalid, err)
	}

	return models.SessionUser{ID: claims.UserID, Username: claims.Username}, nil
}
