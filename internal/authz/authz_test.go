package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
)

func newService(t *testing.T) *Service {
	t.Helper()
	r, err := privilege.NewRanking([]privilege.Level{privilege.User, privilege.Mod, privilege.Admin, privilege.Owner})
	if err != nil {
		t.Fatalf("NewRanking: %v", err)
	}
	return NewService(r)
}

func account(l privilege.Level) *models.Account {
	return &models.Account{ID: uuid.New(), Privilege: l}
}

func TestCanCreateAccount(t *testing.T) {
	s := newService(t)

	cases := []struct {
		issuer privilege.Level
		allow  bool
	}{
		{privilege.User, false},
		{privilege.Mod, false},
		{privilege.Admin, true},
		{privilege.Owner, true},
	}
	for _, tc := range cases {
		ok, reason := s.CanCreateAccount(account(tc.issuer))
		if ok != tc.allow {
			t.Errorf("CanCreateAccount(%s) = %v, want %v", tc.issuer, ok, tc.allow)
		}
		if !ok && reason != ReasonInsufficientPrivilege {
			t.Errorf("CanCreateAccount(%s) reason = %s, want insufficient_privilege", tc.issuer, reason)
		}
	}
}

func TestCanDeleteAccount(t *testing.T) {
	s := newService(t)

	cases := []struct {
		name       string
		issuer     privilege.Level
		target     privilege.Level
		allow      bool
		wantReason Reason
	}{
		{"admin deletes user", privilege.Admin, privilege.User, true, ""},
		{"owner deletes admin", privilege.Owner, privilege.Admin, true, ""},
		{"mod denied", privilege.Mod, privilege.User, false, ReasonInsufficientPrivilege},
		{"admin cannot delete owner", privilege.Admin, privilege.Owner, false, ReasonTargetProtected},
		{"owner cannot delete owner", privilege.Owner, privilege.Owner, false, ReasonTargetProtected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := s.CanDeleteAccount(account(tc.issuer), account(tc.target))
			if ok != tc.allow || reason != tc.wantReason {
				t.Errorf("got (%v, %s), want (%v, %s)", ok, reason, tc.allow, tc.wantReason)
			}
		})
	}
}

// In the three-level variant there is no protected level, so admins may
// delete other admins.
func TestCanDeleteAccount_ThreeLevelVariant(t *testing.T) {
	r, err := privilege.NewRanking([]privilege.Level{privilege.User, privilege.Mod, privilege.Admin})
	if err != nil {
		t.Fatalf("NewRanking: %v", err)
	}
	s := NewService(r)

	if ok, reason := s.CanDeleteAccount(account(privilege.Admin), account(privilege.Admin)); !ok {
		t.Errorf("expected allow, got deny (%s)", reason)
	}
}

func TestCanChangePrivilege(t *testing.T) {
	s := newService(t)

	cases := []struct {
		name       string
		issuer     privilege.Level
		target     privilege.Level
		requested  privilege.Level
		allow      bool
		wantReason Reason
	}{
		{"admin promotes user to mod", privilege.Admin, privilege.User, privilege.Mod, true, ""},
		{"owner promotes user to admin", privilege.Owner, privilege.User, privilege.Admin, true, ""},
		{"owner demotes admin to user", privilege.Owner, privilege.Admin, privilege.User, true, ""},
		{"admin cannot grant admin", privilege.Admin, privilege.User, privilege.Admin, false, ReasonInsufficientPrivilegeForGrant},
		{"admin cannot grant owner", privilege.Admin, privilege.User, privilege.Owner, false, ReasonInsufficientPrivilegeForGrant},
		{"owner cannot grant owner", privilege.Owner, privilege.User, privilege.Owner, false, ReasonInsufficientPrivilegeForGrant},
		{"admin cannot touch peer admin", privilege.Admin, privilege.Admin, privilege.User, false, ReasonInsufficientPrivilegeOverTarget},
		{"admin cannot touch owner", privilege.Admin, privilege.Owner, privilege.User, false, ReasonInsufficientPrivilegeOverTarget},
		{"mod cannot grant anything", privilege.Mod, privilege.User, privilege.Mod, false, ReasonInsufficientPrivilegeForGrant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := s.CanChangePrivilege(account(tc.issuer), account(tc.target), tc.requested)
			if ok != tc.allow || reason != tc.wantReason {
				t.Errorf("got (%v, %s), want (%v, %s)", ok, reason, tc.allow, tc.wantReason)
			}
		})
	}
}

// Self-targeting is checked first, so it wins even when the issuer would
// also fail the rank checks.
func TestCanChangePrivilege_SelfAlwaysDenied(t *testing.T) {
	s := newService(t)

	for _, l := range []privilege.Level{privilege.User, privilege.Mod, privilege.Admin, privilege.Owner} {
		issuer := account(l)
		ok, reason := s.CanChangePrivilege(issuer, issuer, privilege.Owner)
		if ok || reason != ReasonSelfTargetForbidden {
			t.Errorf("self change as %s: got (%v, %s), want (false, self_target_forbidden)", l, ok, reason)
		}
	}
}
