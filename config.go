package auth

import (
	"time"

	"github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTokenTTL is the documented default access token lifetime.
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL is the documented default refresh token lifetime.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// HardcodedConfig is a literal Config, useful for wiring and tests.
// Zero TTLs fall back to the documented defaults and the zero value permits
// implicit linking; the signing key has no fallback and is validated at
// construction time.
type HardcodedConfig struct {
	SigningKey             string
	Issuer                 string
	Audience               []string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	DisableImplicitLinking bool
}

var _ Config = (*HardcodedConfig)(nil)

func (c *HardcodedConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *HardcodedConfig) GetIssuer() string {
	return c.Issuer
}

func (c *HardcodedConfig) GetAudience() []string {
	return c.Audience
}

func (c *HardcodedConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL == 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c *HardcodedConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL == 0 {
		return DefaultRefreshTokenTTL
	}
	return c.RefreshTokenTTL
}

func (c *HardcodedConfig) GetAllowImplicitLinking() bool {
	return !c.DisableImplicitLinking
}

// ValidateConfig checks the invariants that must hold before any token is
// minted. A missing signing key is a fatal configuration error at process
// start, not a runtime condition to recover from.
func ValidateConfig(cfg Config) error {
	if cfg == nil {
		return errors.New("auth config is required", errors.CategoryInternal)
	}

	if cfg.GetSigningKey() == "" {
		return errors.New("signing key is not configured", errors.CategoryInternal).
			WithTextCode(TextCodeMissingSigningKey)
	}

	if cfg.GetAccessTokenTTL() < 0 || cfg.GetRefreshTokenTTL() < 0 {
		return errors.New("token TTL must be non-negative", errors.CategoryInternal)
	}

	return nil
}
