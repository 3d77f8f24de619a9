package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeUnauthenticated   = "UNAUTHENTICATED"
	TextCodeForbidden         = "FORBIDDEN"
	TextCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeStoreUnavailable  = "IDENTITY_STORE_UNAVAILABLE"
	TextCodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
	TextCodeInvalidRole       = "INVALID_ROLE"
	TextCodeMissingSigningKey = "MISSING_SIGNING_KEY"
)

// ErrUnauthenticated is returned when a request carries no usable identity:
// missing, garbled, or expired token.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned for a valid identity with insufficient role or
// approval. Distinct from ErrUnauthenticated end to end.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrDuplicateEmail is surfaced, never retried, when the store reports a
// sign-up collision.
var ErrDuplicateEmail = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is deliberately vague: callers cannot tell an
// unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiration instant has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tampered, garbled, or wrongly signed tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityStoreUnavailable wraps adapter transport failures; adapter
// specifics are never surfaced verbatim.
var ErrIdentityStoreUnavailable = errors.New("identity store unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(errors.CodeInternal)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidRole is returned when a role outside the predefined set is requested.
var ErrInvalidRole = errors.New("unknown or invalid role", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) || strings.Contains(err.Error(), "token is expired")
}

// IsTokenMalformedError will check for tampered or garbled tokens
func IsTokenMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) || strings.Contains(err.Error(), "token is malformed")
}

// IsUnauthorizedError reports whether the error is any of the failure kinds
// an external caller must see as a generic unauthorized condition.
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrInvalidCredentials)
}
