// Package accounts orchestrates the account lifecycle operations: create,
// delete, and change-privilege. Authorization decisions are delegated to
// the authz package; persistence goes through the Store adapter.
package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/staffportal/backend/internal/authz"
	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
	"github.com/staffportal/backend/internal/repository"
)

// Status is the machine-readable outcome code carried by every Result.
type Status string

const (
	StatusCreated        Status = "created"
	StatusUpdated        Status = "updated"
	StatusDeleted        Status = "deleted"
	StatusIssuerNotFound Status = "issuer_not_found"
	StatusTargetNotFound Status = "target_not_found"
	StatusDuplicate      Status = "duplicate_account"
	StatusInternal       Status = "internal_error"
)

// Result is the uniform outcome of a lifecycle operation. Denials and
// not-found outcomes are routine results, not errors; only unexpected
// store/hash failures surface as StatusInternal, with detail going to the
// log rather than the caller.
type Result struct {
	OK      bool
	Status  Status
	Account *models.PublicAccount
}

func denied(reason authz.Reason) Result {
	return Result{Status: Status(reason)}
}

// Store is the persistence adapter consumed by the service. Absent rows
// are reported as (nil, nil); Create returns repository.ErrDuplicate on a
// uniqueness violation.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error)
	Create(ctx context.Context, a *models.Account) error
	UpdatePrivilege(ctx context.Context, id uuid.UUID, l privilege.Level) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Hasher turns a plaintext secret into its storable form.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

type Service interface {
	CreateAccount(ctx context.Context, issuerID uuid.UUID, email, username, password string) Result
	ChangePrivilege(ctx context.Context, issuerID, targetID uuid.UUID, requested privilege.Level) Result
	DeleteAccount(ctx context.Context, issuerID, targetID uuid.UUID) Result
}

// Config carries the deployment policy knobs.
type Config struct {
	// StrictIssuerCheck reports a missing issuer row as issuer_not_found.
	// When false the condition folds into an insufficient_privilege denial.
	StrictIssuerCheck bool
	Projection        models.Projection
}

type service struct {
	store  Store
	authz  *authz.Service
	hasher Hasher
	rank   *privilege.Ranking
	cfg    Config
	log    *slog.Logger
}

func NewService(store Store, az *authz.Service, hasher Hasher, rank *privilege.Ranking, cfg Config, log *slog.Logger) *service {
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, authz: az, hasher: hasher, rank: rank, cfg: cfg, log: log}
}

var _ Service = (*service)(nil)

// resolveIssuer loads the issuer record. The second return value is a
// terminal Result when resolution failed.
func (s *service) resolveIssuer(ctx context.Context, issuerID uuid.UUID) (*models.Account, *Result) {
	issuer, err := s.store.FindByID(ctx, issuerID)
	if err != nil {
		s.log.Error("resolve issuer failed", "issuer_id", issuerID, "error", err)
		return nil, &Result{Status: StatusInternal}
	}
	if issuer == nil {
		// A valid token without an account row means the token and store
		// disagree; by default that is reported apart from a refusal.
		if s.cfg.StrictIssuerCheck {
			return nil, &Result{Status: StatusIssuerNotFound}
		}
		r := denied(authz.ReasonInsufficientPrivilege)
		return nil, &r
	}
	return issuer, nil
}

func (s *service) resolveTarget(ctx context.Context, targetID uuid.UUID) (*models.Account, *Result) {
	target, err := s.store.FindByID(ctx, targetID)
	if err != nil {
		s.log.Error("resolve target failed", "target_id", targetID, "error", err)
		return nil, &Result{Status: StatusInternal}
	}
	if target == nil {
		return nil, &Result{Status: StatusTargetNotFound}
	}
	return target, nil
}

func (s *service) public(a *models.Account) *models.PublicAccount {
	return models.Public(a, s.cfg.Projection)
}

// CreateAccount creates a new account at the lowest privilege level. The
// pre-insert uniqueness check is a fast path only: two concurrent creates
// can both pass it, and the store's unique indexes decide the race, so a
// duplicate surfacing at insert time is a conflict, not an internal error.
func (s *service) CreateAccount(ctx context.Context, issuerID uuid.UUID, email, username, password string) Result {
	issuer, fail := s.resolveIssuer(ctx, issuerID)
	if fail != nil {
		return *fail
	}
	if ok, reason := s.authz.CanCreateAccount(issuer); !ok {
		return denied(reason)
	}

	existing, err := s.store.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		s.log.Error("uniqueness check failed", "error", err)
		return Result{Status: StatusInternal}
	}
	if existing != nil {
		return Result{Status: StatusDuplicate}
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.log.Error("credential hash failed", "error", err)
		return Result{Status: StatusInternal}
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Privilege:    s.rank.Lowest(),
		Active:       true,
		Roles:        []string{},
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Result{Status: StatusDuplicate}
		}
		s.log.Error("create account failed", "error", err)
		return Result{Status: StatusInternal}
	}
	return Result{OK: true, Status: StatusCreated, Account: s.public(account)}
}

// ChangePrivilege sets the target's privilege level after the authorization
// checks pass, then re-reads the target and returns its projection. The
// read-update-read sequence is not transactional; a concurrent write to the
// same target is a benign last-write-wins race.
func (s *service) ChangePrivilege(ctx context.Context, issuerID, targetID uuid.UUID, requested privilege.Level) Result {
	issuer, fail := s.resolveIssuer(ctx, issuerID)
	if fail != nil {
		return *fail
	}
	target, fail := s.resolveTarget(ctx, targetID)
	if fail != nil {
		return *fail
	}
	if ok, reason := s.authz.CanChangePrivilege(issuer, target, requested); !ok {
		return denied(reason)
	}

	if err := s.store.UpdatePrivilege(ctx, targetID, requested); err != nil {
		s.log.Error("update privilege failed", "target_id", targetID, "error", err)
		return Result{Status: StatusInternal}
	}
	updated, err := s.store.FindByID(ctx, targetID)
	if err != nil || updated == nil {
		s.log.Error("re-read after privilege update failed", "target_id", targetID, "error", err)
		return Result{Status: StatusInternal}
	}
	return Result{OK: true, Status: StatusUpdated, Account: s.public(updated)}
}

// DeleteAccount permanently removes the target. Accounts at the protected
// top level are never deletable through this operation.
func (s *service) DeleteAccount(ctx context.Context, issuerID, targetID uuid.UUID) Result {
	issuer, fail := s.resolveIssuer(ctx, issuerID)
	if fail != nil {
		return *fail
	}
	target, fail := s.resolveTarget(ctx, targetID)
	if fail != nil {
		return *fail
	}
	if ok, reason := s.authz.CanDeleteAccount(issuer, target); !ok {
		return denied(reason)
	}

	if err := s.store.DeleteByID(ctx, targetID); err != nil {
		s.log.Error("delete account failed", "target_id", targetID, "error", err)
		return Result{Status: StatusInternal}
	}
	return Result{OK: true, Status: StatusDeleted, Account: s.public(target)}
}
