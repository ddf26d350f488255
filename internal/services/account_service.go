// Package services – AccountService
//
// This file implements AccountService: registration, login and profile
// edits. Passwords are hashed through a Hasher and sessions are bearer tokens
// minted by a TokenIssuer; both are injected so tests can run without bcrypt
// cost or real signing keys.
package services

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MinPasswordRunes is the shortest accepted password.
const MinPasswordRunes = 8

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints session tokens for a user ID.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// Session is an authenticated user plus its bearer token.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// AccountService manages users and sessions.
type AccountService struct {
	DB     *gorm.DB
	Hasher Hasher
	Tokens TokenIssuer
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB, h Hasher, t TokenIssuer) *AccountService {
	return &AccountService{DB: db, Hasher: h, Tokens: t}
}

// Register creates a user with default preferences and opens a session.
// A taken email yields ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	name = normalizeName(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordRunes {
		return nil, invalid("password", "must be at least %d characters", MinPasswordRunes)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateUser(ctx, tx, u); err != nil {
			return err
		}
		_, err := repo.EnsurePreferences(ctx, tx, domain.DefaultPreferences(u.ID))
		return err
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return s.session(u)
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalid("email", "email and password are required")
	}
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// Get returns the user behind a session.
func (s *AccountService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile rewrites name, email and avatar. Moving to an email that
// another account holds yields ErrEmailTaken.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "UpdateProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	name := normalizeName(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	err = repo.UpdateUserProfile(ctx, s.DB, userID, name, email, strings.TrimSpace(in.AvatarURL))
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrEmailTaken
	case isNotFound(err):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *AccountService) session(u *domain.User) (*Session, error) {
	tok, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok, ExpiresAt: exp}, nil
}

func normalizeEmail(s string) (string, error) {
	s = repo.NormalizeEmail(s)
	if s == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("email", "is not a valid address")
	}
	return s, nil
}

// normalizeName trims whitespace and collapses multiple spaces to one.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
