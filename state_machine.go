package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidTransition = "INVALID_LEADER_STATE_TRANSITION"
)

// ErrInvalidTransition is returned when a requested role/status change is
// not allowed by the leader approval graph.
var ErrInvalidTransition = goerrors.New("invalid leader state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// LeaderState is the combined (role, leaderStatus) authorization state.
type LeaderState string

const (
	StateApplicant      LeaderState = "applicant"
	StateAdmin          LeaderState = "admin"
	StateLeaderPending  LeaderState = "leader_pending"
	StateLeaderApproved LeaderState = "leader_approved"
)

// TransitionPlan is the persistable outcome of a planned transition. The
// machine is pure; the orchestrator applies the plan through the store.
type TransitionPlan struct {
	From         LeaderState
	To           LeaderState
	Role         UserRole
	LeaderStatus *LeaderStatus
}

// Fields returns the store columns the plan mutates.
func (p *TransitionPlan) Fields() map[string]any {
	fields := map[string]any{
		"user_role": p.Role,
	}
	if p.LeaderStatus != nil {
		fields["leader_status"] = *p.LeaderStatus
	} else {
		fields["leader_status"] = nil
	}
	return fields
}

// Apply mutates the user in memory to match the plan.
func (p *TransitionPlan) Apply(user *User) {
	if user == nil {
		return
	}
	user.Role = p.Role
	user.LeaderStatus = p.LeaderStatus
}

// LeaderStateMachine centralizes the (role, leaderStatus) transition graph:
// assigning a leader role initializes leader status to pending, demotion
// clears it, and pending moves to approved only through an explicit admin
// status change. There are no automatic transitions.
type LeaderStateMachine struct {
	statusTransitions map[LeaderState]map[LeaderState]struct{}
	logger            Logger
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*LeaderStateMachine)

// WithStateMachineLogger overrides the logger.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *LeaderStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewLeaderStateMachine returns the default transition graph.
func NewLeaderStateMachine(opts ...StateMachineOption) *LeaderStateMachine {
	sm := &LeaderStateMachine{
		statusTransitions: map[LeaderState]map[LeaderState]struct{}{
			StateLeaderPending: {
				StateLeaderApproved: {},
			},
		},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// CurrentState derives the authorization state from a user record.
func (sm *LeaderStateMachine) CurrentState(user *User) LeaderState {
	if user == nil {
		return ""
	}
	return StateOf(user.Role, user.LeaderStatus)
}

// StateOf maps a (role, leaderStatus) pair to its authorization state.
func StateOf(role UserRole, status *LeaderStatus) LeaderState {
	switch {
	case role == RoleAdmin:
		return StateAdmin
	case IsLeaderRole(role):
		if status != nil && *status == LeaderStatusApproved {
			return StateLeaderApproved
		}
		return StateLeaderPending
	default:
		return StateApplicant
	}
}

// PlanRoleChange computes the transition for an admin role assignment.
// Promoting to a leader variant resets leader status to pending; demoting a
// leader clears it; assigning the same role is a no-op plan.
func (sm *LeaderStateMachine) PlanRoleChange(user *User, target UserRole) (*TransitionPlan, error) {
	if user == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "user is nil",
		})
	}

	if !IsValidRole(target) {
		return nil, ErrInvalidRole.WithMetadata(map[string]any{"role": target})
	}

	plan := &TransitionPlan{
		From: sm.CurrentState(user),
		Role: target,
	}

	switch {
	case target == user.Role:
		// same role keeps the current approval state
		plan.LeaderStatus = user.LeaderStatus
	case IsLeaderRole(target):
		plan.LeaderStatus = leaderStatusPtr(LeaderStatusPending)
	default:
		plan.LeaderStatus = nil
	}

	plan.To = StateOf(plan.Role, plan.LeaderStatus)

	return plan, nil
}

// PlanStatusChange computes the transition for an explicit admin leader
// status change. Only leader-variant users carry a status, and the only
// legal move is pending to approved.
func (sm *LeaderStateMachine) PlanStatusChange(user *User, target LeaderStatus) (*TransitionPlan, error) {
	if user == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "user is nil",
		})
	}

	if _, ok := ParseLeaderStatus(target); !ok {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "unknown leader status",
			"status": target,
		})
	}

	from := sm.CurrentState(user)
	if !IsLeaderRole(user.Role) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"reason": "user holds no leader role",
		})
	}

	plan := &TransitionPlan{
		From:         from,
		Role:         user.Role,
		LeaderStatus: leaderStatusPtr(target),
	}
	plan.To = StateOf(plan.Role, plan.LeaderStatus)

	if plan.From == plan.To {
		return plan, nil
	}

	if !sm.canTransition(plan.From, plan.To) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from": plan.From,
			"to":   plan.To,
		})
	}

	return plan, nil
}

func (sm *LeaderStateMachine) canTransition(from, to LeaderState) bool {
	if allowed, ok := sm.statusTransitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
