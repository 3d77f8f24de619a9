package auth

// AccessPolicy declares what a route requires. Handlers construct one per
// route and pass it explicitly; there is no metadata reflection.
type AccessPolicy struct {
	// Roles is the set of roles that satisfy the route. Empty means any
	// authenticated caller.
	Roles []UserRole
	// RequireApprovedLeader strengthens a leader requirement: the caller
	// must hold a leader-variant role whose status is approved, not merely
	// pending.
	RequireApprovedLeader bool
}

// AdminOnly is the policy for admin management routes.
func AdminOnly() AccessPolicy {
	return AccessPolicy{Roles: []UserRole{RoleAdmin}}
}

// AnyLeader admits any leader-variant caller regardless of approval.
func AnyLeader() AccessPolicy {
	return AccessPolicy{Roles: []UserRole{RoleUnitLeader, RoleRegionalLeader}}
}

// ApprovedLeader admits only leader-variant callers whose status is approved.
func ApprovedLeader() AccessPolicy {
	return AccessPolicy{
		Roles:                 []UserRole{RoleUnitLeader, RoleRegionalLeader},
		RequireApprovedLeader: true,
	}
}

// Evaluator decides allow/deny for a claim set against a declared policy.
type Evaluator struct {
	logger Logger
}

// NewEvaluator creates an authorization evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{logger: defLogger{}}
}

// WithLogger overrides the logger.
func (e *Evaluator) WithLogger(logger Logger) *Evaluator {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// CanAccess returns nil when the claims satisfy the policy,
// ErrUnauthenticated when no valid identity is present, and ErrForbidden
// when the identity lacks the required role or approval. The two failure
// kinds stay distinct all the way to the transport layer.
func (e *Evaluator) CanAccess(claims AuthClaims, policy AccessPolicy) error {
	if claims == nil || claims.UserID() == "" {
		return ErrUnauthenticated
	}

	if len(policy.Roles) == 0 {
		return nil
	}

	if !roleInSet(claims.Role(), policy.Roles) {
		e.logger.Debug("access denied: role not in policy", "role", claims.Role())
		return ErrForbidden
	}

	if policy.RequireApprovedLeader && IsLeaderRole(claims.Role()) && !claims.IsApprovedLeader() {
		e.logger.Debug("access denied: leader not approved", "user", claims.UserID())
		return ErrForbidden
	}

	return nil
}

// Allowed is the boolean form of CanAccess.
func (e *Evaluator) Allowed(claims AuthClaims, policy AccessPolicy) bool {
	return e.CanAccess(claims, policy) == nil
}

func roleInSet(role UserRole, set []UserRole) bool {
	for _, candidate := range set {
		if role == candidate {
			return true
		}
	}
	return false
}
