// Package http provides the HTTP handlers and routing of the wallet API.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gusgusz/projeto14-mywallet-back/internal/middleware"
	"github.com/gusgusz/projeto14-mywallet-back/internal/service"
	"github.com/gusgusz/projeto14-mywallet-back/internal/validate"
	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the HTTP handlers.
type AuthService interface {
	// Register stores a new user; service.ErrEmailTaken on a taken email.
	Register(ctx context.Context, name, email, password string) error
	// SignIn returns the user's session token, reusing a live session.
	SignIn(ctx context.Context, email, password string) (*service.SignInResult, error)
	// SignOut ends the session holding token.
	SignOut(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for sign-up, sign-in and sign-out.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log records unexpected failures.
	Log *zap.Logger
}

func (h *AuthHandler) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// SignUp handles POST /sign-up. It validates the payload, registers the user
// and answers 201 with no body, 400 with field messages, or 409 when the
// email is taken.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req, err := validate.ParseSignUp(body)
	if err != nil {
		badPayload(h.log(), w, r, err)
		return
	}

	err = h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		internalError(h.log(), w, r, "register", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// SignIn handles POST /sign-in and answers {token, name}.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req, err := validate.ParseSignIn(body)
	if err != nil {
		badPayload(h.log(), w, r, err)
		return
	}

	res, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrUnauthorized) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		internalError(h.log(), w, r, "sign in", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// SignOut handles POST /sign-out. It must run behind middleware.BearerAuth.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.SignOut(r.Context(), token); err != nil {
		internalError(h.log(), w, r, "sign out", err)
		return
	}
	writeMessage(w, http.StatusOK, "signed out")
}
