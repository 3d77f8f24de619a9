package auth

import (
	"context"
	"fmt"
)

// Adapter error codes reported by IdentityStore implementations.
const (
	AdapterCodeDuplicate   = "duplicate"
	AdapterCodeNotFound    = "not_found"
	AdapterCodeBadPassword = "bad_password"
	AdapterCodeUnavailable = "unavailable"
)

// AdapterError is the only failure shape an IdentityStore may return. The
// resolver translates these into the package taxonomy; adapter specifics
// never reach callers verbatim.
type AdapterError struct {
	Code string
	Err  error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity store: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("identity store: %s", e.Code)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError wraps a transport or validation failure with an adapter code.
func NewAdapterError(code string, err error) *AdapterError {
	return &AdapterError{Code: code, Err: err}
}

// IsAdapterCode reports whether err is an AdapterError with the given code.
func IsAdapterCode(err error, code string) bool {
	ae, ok := err.(*AdapterError)
	if !ok {
		return false
	}
	return ae.Code == code
}

// NewUserRecord describes the record CreateUser persists. LeaderStatus
// follows the role invariant: nil unless the role is a leader variant.
// Provider is set when an OAuth flow provisions the account; such records
// get a random opaque credential instead of a caller-supplied password.
type NewUserRecord struct {
	Name         string
	Email        string
	Password     string
	Role         UserRole
	LeaderStatus *LeaderStatus
	Provider     string
}

// IdentityStore is the credential store port. It owns credential hashing
// and verification; this core never compares password hashes itself.
// Email uniqueness is enforced by the store, not locally: concurrent
// sign-ups with the same email are serialized by the store's constraint and
// reported back as AdapterCodeDuplicate.
type IdentityStore interface {
	CreateUser(ctx context.Context, record NewUserRecord) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	UpdateUserFields(ctx context.Context, id string, fields map[string]any) error
	ListUsers(ctx context.Context) ([]*User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*User, error)
}
