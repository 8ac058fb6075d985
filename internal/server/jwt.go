package server

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/server/middleware"
)

// Claims are the identity provider's access token claims. The subject is the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims

	userID uuid.UUID
}

// GetUserID returns the user the token was issued to.
func (c *Claims) GetUserID() uuid.UUID {
	return c.userID
}

// TokenVerifier checks HS256 access tokens signed with the provider's shared secret.
// Tokens are never issued here.
type TokenVerifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewTokenVerifier returns a verifier for cfg. Audience and issuer are
// enforced when set.
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), opts: opts}
}

// Verify parses and validates a token and its subject.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", err)
	}
	claims.userID = userID
	return claims, nil
}

// ValidateToken implements middleware.TokenValidator.
func (v *TokenVerifier) ValidateToken(tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
