package accounts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/staffportal/backend/internal/authz"
	"github.com/staffportal/backend/internal/middleware"
	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
)

// Request/response structs use the same field names as the user records
// ("privileges", snake_case JSON).

type CreateRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePrivilegeRequest struct {
	Privileges string `json:"privileges"`
}

type ResultResponse struct {
	Status  Status                `json:"status"`
	Account *models.PublicAccount `json:"account,omitempty"`
}

type Handler struct {
	svc  Service
	rank *privilege.Ranking
	log  *slog.Logger
}

func NewHandler(svc Service, rank *privilege.Ranking, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, rank: rank, log: log}
}

// Create handles POST /api/v1/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	issuerID, ok := middleware.IssuerFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	res := h.svc.CreateAccount(r.Context(), issuerID, req.Email, req.Username, req.Password)
	writeResult(w, res)
}

// ChangePrivilege handles PATCH /api/v1/users/{id}/privileges. Unknown
// privilege labels are rejected here, before the policy core sees them.
func (h *Handler) ChangePrivilege(w http.ResponseWriter, r *http.Request) {
	issuerID, ok := middleware.IssuerFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req ChangePrivilegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	level, err := h.rank.Parse(req.Privileges)
	if err != nil {
		http.Error(w, "unknown privilege level", http.StatusBadRequest)
		return
	}
	res := h.svc.ChangePrivilege(r.Context(), issuerID, targetID, level)
	writeResult(w, res)
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	issuerID, ok := middleware.IssuerFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	res := h.svc.DeleteAccount(r.Context(), issuerID, targetID)
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(res))
	_ = json.NewEncoder(w).Encode(ResultResponse{Status: res.Status, Account: res.Account})
}

func httpStatus(res Result) int {
	switch res.Status {
	case StatusCreated:
		return http.StatusCreated
	case StatusUpdated, StatusDeleted:
		return http.StatusOK
	case StatusIssuerNotFound, StatusTargetNotFound:
		return http.StatusNotFound
	case StatusDuplicate:
		return http.StatusConflict
	case StatusInternal:
		return http.StatusInternalServerError
	}
	switch authz.Reason(res.Status) {
	case authz.ReasonInsufficientPrivilege,
		authz.ReasonTargetProtected,
		authz.ReasonSelfTargetForbidden,
		authz.ReasonInsufficientPrivilegeForGrant,
		authz.ReasonInsufficientPrivilegeOverTarget:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
