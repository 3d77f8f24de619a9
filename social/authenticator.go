package social

import (
	"context"
	"time"

	auth "github.com/membrarium/go-member-auth"
)

// Authenticator orchestrates the OAuth redirect flow and hands resolved
// profiles to the auth core for federation.
type Authenticator struct {
	providers    map[string]Provider
	stateManager StateManager
	auther       auth.Authenticator
	config       Config
}

// Config configures the social authenticator.
type Config struct {
	StateEncryptionKey []byte
	StateHMACKey       []byte
	StateTTL           time.Duration
	DefaultRedirectURL string
}

// Option configures the social authenticator.
type Option func(*Authenticator)

// WithProvider registers a social provider.
func WithProvider(provider Provider) Option {
	return func(sa *Authenticator) {
		if provider == nil {
			return
		}
		sa.providers[provider.Name()] = provider
	}
}

// WithStateManager sets a custom state manager.
func WithStateManager(sm StateManager) Option {
	return func(sa *Authenticator) {
		sa.stateManager = sm
	}
}

// NewAuthenticator creates a social authenticator over the auth core facade.
func NewAuthenticator(auther auth.Authenticator, cfg Config, opts ...Option) *Authenticator {
	if cfg.StateTTL == 0 {
		cfg.StateTTL = 10 * time.Minute
	}

	sa := &Authenticator{
		providers: make(map[string]Provider),
		auther:    auther,
		config:    cfg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sa)
		}
	}

	if sa.stateManager == nil {
		sa.stateManager = NewEncryptedStateManager(
			cfg.StateEncryptionKey,
			cfg.StateHMACKey,
			cfg.StateTTL,
		)
	}

	return sa
}

// ListProviders returns the names of the configured providers.
func (sa *Authenticator) ListProviders() []string {
	names := make([]string, 0, len(sa.providers))
	for name := range sa.providers {
		names = append(names, name)
	}
	return names
}

// BeginAuthResult carries the redirect target for the authorization step.
type BeginAuthResult struct {
	URL string
}

// BeginAuth builds the provider redirect URL with a signed, encrypted state.
func (sa *Authenticator) BeginAuth(ctx context.Context, providerName, redirectURL string) (*BeginAuthResult, error) {
	provider, ok := sa.providers[providerName]
	if !ok {
		return nil, ErrProviderNotFound
	}

	if redirectURL == "" {
		redirectURL = sa.config.DefaultRedirectURL
	}

	state, err := sa.stateManager.Encode(&OAuthState{
		Provider:    providerName,
		RedirectURL: redirectURL,
	})
	if err != nil {
		return nil, err
	}

	return &BeginAuthResult{URL: provider.AuthCodeURL(state)}, nil
}

// CompleteAuthResult is the outcome of a finished OAuth flow.
type CompleteAuthResult struct {
	Response    *auth.TokenResponse
	RedirectURL string
}

// CompleteAuth verifies the state, exchanges the code, fetches the profile,
// and resolves it through the auth core (provisioning on first login).
func (sa *Authenticator) CompleteAuth(ctx context.Context, providerName, code, rawState string) (*CompleteAuthResult, error) {
	provider, ok := sa.providers[providerName]
	if !ok {
		return nil, ErrProviderNotFound
	}

	state, err := sa.stateManager.Decode(rawState)
	if err != nil {
		return nil, err
	}

	if state.Provider != providerName {
		return nil, ErrInvalidState
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, ErrTokenExchangeFailed
	}

	profile, err := provider.UserInfo(ctx, token)
	if err != nil {
		return nil, ErrUserInfoFailed
	}

	response, err := sa.auther.OAuthLogin(ctx, auth.OAuthProfile{
		Provider:   profile.Provider,
		Email:      profile.Email,
		Name:       profile.Name,
		ExternalID: profile.ProviderUserID,
		Picture:    profile.Picture,
	})
	if err != nil {
		return nil, err
	}

	return &CompleteAuthResult{
		Response:    response,
		RedirectURL: state.RedirectURL,
	}, nil
}
