package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenUse distinguishes access tokens from refresh tokens inside the claims.
type TokenUse = string

const (
	// TokenUseAccess marks a short-lived access token
	TokenUseAccess TokenUse = "access"
	// TokenUseRefresh marks a longer-lived refresh token
	TokenUseRefresh TokenUse = "refresh"
)

// AuthClaims is the signed, tamper-evident projection of a User embedded in
// tokens. It never includes the credential hash.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Role() string
	LeaderApproval() (LeaderStatus, bool)
	Use() TokenUse
	IsAdmin() bool
	IsLeader() bool
	IsApprovedLeader() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string        `json:"uid,omitempty"`
	UserEmail string        `json:"email,omitempty"`
	UserRole  string        `json:"role,omitempty"`
	Leader    *LeaderStatus `json:"leader_status,omitempty"`
	TokenUse  TokenUse      `json:"token_use,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// NewClaimsForUser projects a User into JWTClaims. The password hash is
// structurally unrepresentable here.
func NewClaimsForUser(user *User) *JWTClaims {
	if user == nil {
		return nil
	}

	claims := &JWTClaims{
		UID:       user.ID.String(),
		UserEmail: user.Email,
		UserRole:  user.Role,
	}

	if user.LeaderStatus != nil {
		status := *user.LeaderStatus
		claims.Leader = &status
	}

	return claims
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the email claim
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Role returns the role claim
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// LeaderApproval returns the leader status and whether one is present.
// Non-leader roles never carry a status.
func (c *JWTClaims) LeaderApproval() (LeaderStatus, bool) {
	if c.Leader == nil {
		return "", false
	}
	return *c.Leader, true
}

// Use returns whether this is an access or refresh token
func (c *JWTClaims) Use() TokenUse {
	return c.TokenUse
}

// IsAdmin checks the admin role
func (c *JWTClaims) IsAdmin() bool {
	return c.UserRole == RoleAdmin
}

// IsLeader checks for any leader-variant role regardless of approval
func (c *JWTClaims) IsLeader() bool {
	return IsLeaderRole(c.UserRole)
}

// IsApprovedLeader checks for a leader-variant role with approved status
func (c *JWTClaims) IsApprovedLeader() bool {
	if !c.IsLeader() {
		return false
	}
	status, ok := c.LeaderApproval()
	return ok && status == LeaderStatusApproved
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
