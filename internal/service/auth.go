package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/gusgusz/projeto14-mywallet-back/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the credential persistence required by AuthService.
type UserRepository interface {
	// CreateUser stores a new user; repository.ErrDuplicate on a taken email.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns repository.ErrNotFound when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines the session persistence required by AuthService.
type SessionRepository interface {
	// GetOrCreateSession atomically returns the user's live session or
	// stores candidate. Sessions created before expiredBefore are replaced.
	GetOrCreateSession(ctx context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error)
	// FindSession returns repository.ErrNotFound when no session created at
	// or after validAfter holds token.
	FindSession(ctx context.Context, token string, validAfter time.Time) (*models.Session, error)
	// DeleteSession removes the session holding token, if any.
	DeleteSession(ctx context.Context, token string) error
}

// DefaultBcryptCost is the work factor used for new password hashes.
const DefaultBcryptCost = 10

// AuthService implements registration, sign-in and token resolution.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	log      *zap.Logger

	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
	newToken   func() string
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithSessionTTL makes sessions expire ttl after creation. Zero disables expiry.
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.ttl = ttl }
}

// WithBcryptCost overrides DefaultBcryptCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

// WithAuthLogger sets the logger; the default discards everything.
func WithAuthLogger(log *zap.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithTokenGenerator replaces the UUIDv4 token generator.
func WithTokenGenerator(gen func() string) AuthOption {
	return func(s *AuthService) { s.newToken = gen }
}

// NewAuthService constructs an AuthService over the given repositories.
func NewAuthService(users UserRepository, sessions SessionRepository, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		sessions:   sessions,
		log:        zap.NewNop(),
		bcryptCost: DefaultBcryptCost,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignInResult is returned by a successful SignIn.
type SignInResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Register hashes password and stores a new user. It returns ErrEmailTaken
// if the email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return nil
}

// Authenticate returns the user owning email if password matches its hash.
// Failures are ErrInvalidEmail or ErrInvalidPassword, both ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidEmail
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

// SignIn authenticates the user and returns its session token. A user that
// already holds a live session gets the same token back.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidate := models.Session{Token: s.newToken(), UserID: user.ID, CreatedAt: now}
	session, err := s.sessions.GetOrCreateSession(ctx, candidate, s.expiredBefore(now))
	if err != nil {
		return nil, err
	}

	s.log.Debug("signed in",
		zap.String("user_id", user.ID),
		zap.Bool("reused", session.Token != candidate.Token))
	return &SignInResult{Token: session.Token, Name: user.Name}, nil
}

// ResolveToken returns the id of the user owning token, or ErrInvalidToken.
// Existence is decided on the completed lookup only.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	session, err := s.sessions.FindSession(ctx, token, s.expiredBefore(s.now()))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// SignOut ends the session holding token. Signing out twice is not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// expiredBefore is the creation time before which a session is stale, or the
// zero time when sessions never expire.
func (s *AuthService) expiredBefore(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(-s.ttl)
}
