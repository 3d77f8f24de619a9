package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// IdentityResolver maps authentication events (password credentials or an
// OAuth profile) to a canonical User via the credential store.
type IdentityResolver struct {
	store                IdentityStore
	logger               Logger
	allowImplicitLinking bool
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*IdentityResolver)

// WithResolverLogger overrides the logger.
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *IdentityResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithImplicitLinking controls whether an OAuth profile whose email matches
// an existing password account is silently linked to it. The default is to
// link; disabling it rejects the login instead. Accounts the OAuth flow
// itself provisioned are unaffected: resolving one again is not linking.
func WithImplicitLinking(allow bool) ResolverOption {
	return func(r *IdentityResolver) {
		r.allowImplicitLinking = allow
	}
}

// ErrEmailAlreadyLinked is returned on OAuth login when implicit linking is
// disabled and the profile email belongs to an existing password account.
var ErrEmailAlreadyLinked = errors.New("email belongs to an existing account", errors.CategoryConflict).
	WithTextCode("EMAIL_ALREADY_LINKED").
	WithCode(errors.CodeConflict)

// NewIdentityResolver creates a resolver over the given credential store.
func NewIdentityResolver(store IdentityStore, opts ...ResolverOption) *IdentityResolver {
	r := &IdentityResolver{
		store:                store,
		logger:               defLogger{},
		allowImplicitLinking: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// SignUp creates a credential record. Leader-variant roles start with a
// pending leader status; a duplicate email is surfaced, not retried.
func (r *IdentityResolver) SignUp(ctx context.Context, name, email, password string, requestedRole UserRole) (*User, error) {
	if requestedRole == "" {
		requestedRole = RoleApplicant
	}

	if !IsValidRole(requestedRole) {
		return nil, ErrInvalidRole.WithMetadata(map[string]any{"role": requestedRole})
	}

	record := NewUserRecord{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     requestedRole,
	}

	if IsLeaderRole(requestedRole) {
		record.LeaderStatus = leaderStatusPtr(LeaderStatusPending)
	}

	user, err := r.store.CreateUser(ctx, record)
	if err != nil {
		if IsAdapterCode(err, AdapterCodeDuplicate) {
			return nil, ErrDuplicateEmail
		}
		r.logger.Error("SignUp store failure", "error", err)
		return nil, ErrIdentityStoreUnavailable
	}

	return user, nil
}

// SignIn delegates credential verification to the store. Lookup and
// verification failures are indistinguishable to the caller so account
// existence cannot be probed.
func (r *IdentityResolver) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := r.store.VerifyCredentials(ctx, email, password)
	if err != nil {
		if IsAdapterCode(err, AdapterCodeUnavailable) {
			r.logger.Error("SignIn store failure", "error", err)
			return nil, ErrIdentityStoreUnavailable
		}
		r.logger.Debug("SignIn rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ResolveOAuthIdentity turns a federated profile into a canonical User,
// auto-provisioning an applicant account on first login. Resolution is
// idempotent by email: a second call with the same email returns the same
// record. Provisioned accounts receive a random opaque credential and can
// never sign in with a password.
func (r *IdentityResolver) ResolveOAuthIdentity(ctx context.Context, profile OAuthProfile) (*User, bool, error) {
	if profile.Email == "" {
		return nil, false, errors.New("oauth profile has no email", errors.CategoryBadInput)
	}

	existing, err := r.store.FindUserByEmail(ctx, profile.Email)
	if err == nil {
		// Records the OAuth flow provisioned carry a provider marker and no
		// usable password credential; returning one again is plain
		// resolution, not linking, so the linking policy does not apply.
		if !r.allowImplicitLinking && existing.Provider == "" {
			return nil, false, ErrEmailAlreadyLinked
		}
		return existing, false, nil
	}

	if !IsAdapterCode(err, AdapterCodeNotFound) {
		r.logger.Error("ResolveOAuthIdentity lookup failure", "error", err)
		return nil, false, ErrIdentityStoreUnavailable
	}

	provider := profile.Provider
	if provider == "" {
		provider = "oauth"
	}

	user, err := r.store.CreateUser(ctx, NewUserRecord{
		Name:     profile.Name,
		Email:    profile.Email,
		Role:     RoleApplicant,
		Provider: provider,
	})
	if err != nil {
		// A concurrent first login for the same email loses the insert race;
		// the store's uniqueness constraint serializes it, we re-read.
		if IsAdapterCode(err, AdapterCodeDuplicate) {
			existing, ferr := r.store.FindUserByEmail(ctx, profile.Email)
			if ferr != nil {
				return nil, false, ErrIdentityStoreUnavailable
			}
			return existing, false, nil
		}
		r.logger.Error("ResolveOAuthIdentity provisioning failure", "error", err)
		return nil, false, ErrIdentityStoreUnavailable
	}

	if profile.Picture != "" {
		if uerr := r.store.UpdateUserFields(ctx, user.ID.String(), map[string]any{
			"profile_image": profile.Picture,
		}); uerr != nil {
			r.logger.Warn("ResolveOAuthIdentity picture update failed", "error", uerr)
		} else {
			user.ProfileImage = profile.Picture
		}
	}

	return user, true, nil
}
