// Package authz holds the pure authorization decisions over the privilege
// hierarchy. It performs no I/O; callers pass already-resolved records.
package authz

import (
	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
)

// Reason is the machine-readable cause of a denial.
type Reason string

const (
	ReasonInsufficientPrivilege           Reason = "insufficient_privilege"
	ReasonTargetProtected                 Reason = "target_protected"
	ReasonSelfTargetForbidden             Reason = "self_target_forbidden"
	ReasonInsufficientPrivilegeForGrant   Reason = "insufficient_privilege_for_grant"
	ReasonInsufficientPrivilegeOverTarget Reason = "insufficient_privilege_over_target"
)

// Service decides allow/deny for the account lifecycle operations.
type Service struct {
	ranking *privilege.Ranking
}

func NewService(ranking *privilege.Ranking) *Service {
	return &Service{ranking: ranking}
}

// CanCreateAccount allows issuers ranked admin or above.
func (s *Service) CanCreateAccount(issuer *models.Account) (bool, Reason) {
	if !s.ranking.AtLeast(issuer.Privilege, privilege.Admin) {
		return false, ReasonInsufficientPrivilege
	}
	return true, ""
}

// CanDeleteAccount allows issuers ranked admin or above, except against
// an account at the protected top level, which is never deletable.
func (s *Service) CanDeleteAccount(issuer, target *models.Account) (bool, Reason) {
	if !s.ranking.AtLeast(issuer.Privilege, privilege.Admin) {
		return false, ReasonInsufficientPrivilege
	}
	if prot, ok := s.ranking.Protected(); ok && target.Privilege == prot {
		return false, ReasonTargetProtected
	}
	return true, ""
}

// CanChangePrivilege allows a privilege change when the issuer is not the
// target, outranks the requested level, and outranks the target's current
// level. Both rank checks are strict: equal rank never authorizes a change.
// The checks run in this order and stop at the first failure so the
// reported reason is deterministic.
func (s *Service) CanChangePrivilege(issuer, target *models.Account, requested privilege.Level) (bool, Reason) {
	if issuer.ID == target.ID {
		return false, ReasonSelfTargetForbidden
	}
	if !s.ranking.StrictlyHigher(issuer.Privilege, requested) {
		return false, ReasonInsufficientPrivilegeForGrant
	}
	if !s.ranking.StrictlyHigher(issuer.Privilege, target.Privilege) {
		return false, ReasonInsufficientPrivilegeOverTarget
	}
	return true, ""
}
