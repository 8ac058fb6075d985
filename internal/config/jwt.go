package config

import "fmt"

// minSecretLength is the shortest HS256 secret accepted.
const minSecretLength = 32

// AuthConfig holds the identity provider settings used to verify bearer tokens.
// Tokens are issued elsewhere; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

// normalize validates the configuration.
func (c *AuthConfig) normalize() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required but not set")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters, got: %d", minSecretLength, len(c.JWTSecret))
	}
	return nil
}
