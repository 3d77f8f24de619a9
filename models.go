package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAdmin reviews and approves applications and recommendations
	RoleAdmin UserRole = "admin"
	// RoleApplicant submits membership applications
	RoleApplicant UserRole = "applicant"
	// RoleUnitLeader is a leader-variant role scoped to a single unit
	RoleUnitLeader UserRole = "unit-leader"
	// RoleRegionalLeader is a leader-variant role spanning multiple units
	RoleRegionalLeader UserRole = "regional-leader"
)

// LeaderStatus is the approval state a leader-variant user moves through
type LeaderStatus = string

const (
	// LeaderStatusPending means the leader has registered but is not yet approved
	LeaderStatusPending LeaderStatus = "pending"
	// LeaderStatusApproved means an admin has approved the leader
	LeaderStatusApproved LeaderStatus = "approved"
)

// User is the user model. LeaderStatus is nil for every non-leader role;
// assigning a leader role initializes it to pending. Provider names the
// OAuth flow that provisioned the account and is empty for password
// sign-ups, which is how the record's credential ownership is decided.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string        `bun:"name,notnull" json:"name,omitempty"`
	Email         string        `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string        `bun:"password_hash" json:"-"`
	Role          UserRole      `bun:"user_role,notnull" json:"role,omitempty"`
	LeaderStatus  *LeaderStatus `bun:"leader_status,nullzero" json:"leader_status,omitempty"`
	ProfileImage  string        `bun:"profile_image" json:"profile_image,omitempty"`
	Provider      string        `bun:"provider,nullzero" json:"provider,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Sanitized returns a copy safe to hand back to callers: the credential
// field is never serialized, even through reflection-based encoders.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// IsLeader reports whether the user holds any leader-variant role.
func (u *User) IsLeader() bool {
	return u != nil && IsLeaderRole(u.Role)
}

// IsApprovedLeader reports whether the user is a leader whose status is approved.
func (u *User) IsApprovedLeader() bool {
	return u.IsLeader() && u.LeaderStatus != nil && *u.LeaderStatus == LeaderStatusApproved
}

// EnsureRole backfills the default role for records created before the
// role column existed.
func (u *User) EnsureRole() {
	if u != nil && u.Role == "" {
		u.Role = RoleApplicant
	}
}

func leaderStatusPtr(s LeaderStatus) *LeaderStatus {
	return &s
}
