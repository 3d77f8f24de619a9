// Package auth is the identity and access-control core of the membership
// application intake system: account creation, credential verification,
// token issuance and rotation, OAuth identity federation, and the
// role/approval gating that decides which operations a caller may perform.
//
// Leader approval:
//   - Leader-variant roles (see IsLeaderRole) carry a LeaderStatus that starts
//     as pending and moves to approved only through an explicit admin action.
//     LeaderStateMachine centralizes the transition graph so every caller
//     shares the same invariants.
//
// Tokens:
//   - TokenService mints short-lived access tokens and longer-lived refresh
//     tokens over the same claim set. Tokens are stateless; validity is
//     determined solely by signature and expiration, and Refresh re-resolves
//     the user so role changes are honored on rotation.
//
// The credential store is a port (IdentityStore); a bun-backed reference
// implementation ships in this package, but any adapter that satisfies the
// interface can back the Auther facade.
package auth
