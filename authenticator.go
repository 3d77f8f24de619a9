package auth

import (
	"context"
)

// Auther composes the token service, identity resolver, state machine, and
// evaluator into the operations request handlers invoke.
type Auther struct {
	store        IdentityStore
	resolver     *IdentityResolver
	tokenService TokenService
	stateMachine *LeaderStateMachine
	evaluator    *Evaluator
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator wires the auth core. It fails on invalid configuration
// (missing signing secret) so broken deployments die at process start.
func NewAuthenticator(store IdentityStore, cfg Config) (*Auther, error) {
	tokenService, err := NewTokenService(cfg)
	if err != nil {
		return nil, err
	}

	return &Auther{
		store:        store,
		resolver:     NewIdentityResolver(store, WithImplicitLinking(cfg.GetAllowImplicitLinking())),
		tokenService: tokenService,
		stateMachine: NewLeaderStateMachine(),
		evaluator:    NewEvaluator(),
		logger:       defLogger{},
	}, nil
}

// WithLogger overrides the logger on the facade and its collaborators.
func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger == nil {
		return a
	}
	a.logger = logger
	a.resolver = NewIdentityResolver(a.store,
		WithResolverLogger(logger),
		WithImplicitLinking(a.resolver.allowImplicitLinking),
	)
	a.stateMachine = NewLeaderStateMachine(WithStateMachineLogger(logger))
	a.evaluator = NewEvaluator().WithLogger(logger)
	return a
}

// WithTokenService swaps the token service (useful to inject a test clock).
func (a *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		a.tokenService = ts
	}
	return a
}

// TokenService exposes the token service for middleware wiring.
func (a *Auther) TokenService() TokenService {
	return a.tokenService
}

// Evaluator exposes the authorization evaluator for middleware wiring.
func (a *Auther) Evaluator() *Evaluator {
	return a.evaluator
}

// SignUp creates an account and signs the caller in.
func (a *Auther) SignUp(ctx context.Context, input SignUpInput) (*TokenResponse, error) {
	user, err := a.resolver.SignUp(ctx, input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}

	a.logger.Info("user signed up", "user", user.ID.String(), "role", user.Role)

	return a.tokenResponse(user, false)
}

// SignIn verifies credentials and mints a token pair.
func (a *Auther) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := a.resolver.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return a.tokenResponse(user, false)
}

// Refresh rotates a token pair. The user is re-resolved by subject so role
// and approval changes since issuance are honored; tokens are not a cache
// of authorization state beyond their own expiration window.
func (a *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := a.tokenService.Validate(refreshToken)
	if err != nil {
		if IsTokenExpiredError(err) {
			a.logger.Debug("refresh token expired")
			return nil, ErrTokenExpired
		}
		a.logger.Debug("refresh token rejected", "error", err)
		return nil, ErrTokenMalformed
	}

	if claims.Use() != TokenUseRefresh {
		a.logger.Debug("refresh called with non-refresh token", "use", claims.Use())
		return nil, ErrTokenMalformed
	}

	user, err := a.store.FindUserByID(ctx, claims.UserID())
	if err != nil {
		if IsAdapterCode(err, AdapterCodeNotFound) {
			return nil, ErrTokenMalformed
		}
		a.logger.Error("refresh user lookup failed", "error", err)
		return nil, ErrIdentityStoreUnavailable
	}

	return a.tokenResponse(user, false)
}

// OAuthLogin resolves a federated profile, provisioning an applicant
// account on first login, and mints a token pair.
func (a *Auther) OAuthLogin(ctx context.Context, profile OAuthProfile) (*TokenResponse, error) {
	user, isNew, err := a.resolver.ResolveOAuthIdentity(ctx, profile)
	if err != nil {
		return nil, err
	}

	if isNew {
		a.logger.Info("oauth account provisioned", "user", user.ID.String())
	}

	return a.tokenResponse(user, isNew)
}

// Profile returns the sanitized user record for the given id.
func (a *Auther) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := a.store.FindUserByID(ctx, userID)
	if err != nil {
		if IsAdapterCode(err, AdapterCodeNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, ErrIdentityStoreUnavailable
	}

	return user.Sanitized(), nil
}

// ListUsers returns all sanitized user records. Authorization is declared
// at the route with AdminOnly; the facade does not re-check it.
func (a *Auther) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, ErrIdentityStoreUnavailable
	}

	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// SetRole assigns a role, driving the leader approval state machine:
// promoting to a leader variant resets status to pending, demoting clears it.
func (a *Auther) SetRole(ctx context.Context, actor ActorRef, userID string, role UserRole) error {
	user, err := a.store.FindUserByID(ctx, userID)
	if err != nil {
		if IsAdapterCode(err, AdapterCodeNotFound) {
			return ErrIdentityNotFound
		}
		return ErrIdentityStoreUnavailable
	}

	plan, err := a.stateMachine.PlanRoleChange(user, role)
	if err != nil {
		return err
	}

	if err := a.store.UpdateUserFields(ctx, userID, plan.Fields()); err != nil {
		a.logger.Error("SetRole update failed", "error", err)
		return ErrIdentityStoreUnavailable
	}

	a.logger.Info("role changed",
		"actor", actor.ID,
		"user", userID,
		"from", plan.From,
		"to", plan.To,
	)

	return nil
}

// SetLeaderStatus applies an explicit admin approval decision. The only
// legal transition is pending to approved.
func (a *Auther) SetLeaderStatus(ctx context.Context, actor ActorRef, userID string, status LeaderStatus) error {
	user, err := a.store.FindUserByID(ctx, userID)
	if err != nil {
		if IsAdapterCode(err, AdapterCodeNotFound) {
			return ErrIdentityNotFound
		}
		return ErrIdentityStoreUnavailable
	}

	plan, err := a.stateMachine.PlanStatusChange(user, status)
	if err != nil {
		return err
	}

	if plan.From == plan.To {
		return nil
	}

	if err := a.store.UpdateUserFields(ctx, userID, plan.Fields()); err != nil {
		a.logger.Error("SetLeaderStatus update failed", "error", err)
		return ErrIdentityStoreUnavailable
	}

	a.logger.Info("leader status changed",
		"actor", actor.ID,
		"user", userID,
		"from", plan.From,
		"to", plan.To,
	)

	return nil
}

func (a *Auther) tokenResponse(user *User, isNew bool) (*TokenResponse, error) {
	pair, err := a.tokenService.MintPair(user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		User:         user.Sanitized(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IsNewAccount: isNew,
	}, nil
}
