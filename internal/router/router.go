package router

import (
	"net/http"

	"github.com/staffportal/backend/internal/accounts"
	"github.com/staffportal/backend/internal/auth"
	"github.com/staffportal/backend/internal/middleware"
)

// New returns an http.Handler serving the API under /api/v1. Login is
// public; every user mutation requires a bearer token.
func New(authHandler *auth.Handler, usersHandler *accounts.Handler, validator middleware.TokenValidator) http.Handler {
	mux := http.NewServeMux()
	authed := middleware.TokenAuth(validator)

	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	mux.Handle("POST /api/v1/users", authed(http.HandlerFunc(usersHandler.Create)))
	mux.Handle("PATCH /api/v1/users/{id}/privileges", authed(http.HandlerFunc(usersHandler.ChangePrivilege)))
	mux.Handle("DELETE /api/v1/users/{id}", authed(http.HandlerFunc(usersHandler.Delete)))

	return mux
}
