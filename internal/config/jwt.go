package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds the settings the serve command uses to sign and check
// bearer tokens.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required), JWT_ISSUER (default
// "psi-recorder") and JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, &ConfigurationError{Field: "JWT_SECRET", Message: "is required but not set"}
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "psi-recorder"
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, &ConfigurationError{Field: "JWT_EXPIRATION_HOURS", Message: "must be an integer", Cause: err}
	}

	cfg := &JWTConfig{
		Secret:          secret,
		Issuer:          issuer,
		ExpirationHours: expirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return &ConfigurationError{Field: "JWT_SECRET", Message: "cannot be empty"}
	}
	if c.ExpirationHours < 1 {
		return &ConfigurationError{
			Field:   "JWT_EXPIRATION_HOURS",
			Message: fmt.Sprintf("must be at least 1 hour, got: %d", c.ExpirationHours),
		}
	}
	return nil
}
