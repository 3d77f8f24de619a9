package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator is the facade request handlers talk to
type Authenticator interface {
	SignUp(ctx context.Context, input SignUpInput) (*TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	OAuthLogin(ctx context.Context, profile OAuthProfile) (*TokenResponse, error)
	Profile(ctx context.Context, userID string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SetRole(ctx context.Context, actor ActorRef, userID string, role UserRole) error
	SetLeaderStatus(ctx context.Context, actor ActorRef, userID string, status LeaderStatus) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetAllowImplicitLinking() bool
}

// TokenService mints and verifies signed identity tokens. Implementations
// must be pure: no I/O beyond the claim computation itself.
type TokenService interface {
	Mint(user *User, use TokenUse, ttl time.Duration) (string, error)
	MintPair(user *User) (*TokenPair, error)
	Validate(raw string) (AuthClaims, error)
}

// ActorRef identifies who triggered an admin operation.
type ActorRef struct {
	ID   string
	Type string
}

// OAuthProfile is the provider-agnostic projection of a federated identity.
type OAuthProfile struct {
	Provider   string
	Email      string
	Name       string
	ExternalID string
	Picture    string
}

// SignUpInput carries the fields accepted by SignUp.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     UserRole
}

// TokenPair holds an access/refresh token set minted from the same claims.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is what authentication operations return to handlers.
type TokenResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsNewAccount bool   `json:"is_new_account,omitempty"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
