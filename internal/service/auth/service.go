package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate *time.Time
	Image     string
	// Staff is only set by the createsuperuser command, never from a request.
	Staff bool
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token  string
	UserID uuid.UUID
	Email  string
}

// Service implements registration, login, logout and token authentication.
type Service struct {
	users      store.UserStore
	tokens     store.TokenStore
	hasher     PasswordHasher
	tokenBytes int
	dummyHash  string
	logger     *slog.Logger
}

// NewService creates the authentication service. tokenBytes <= 0 selects
// DefaultTokenBytes; other values must lie in [MinTokenBytes, MaxTokenBytes].
func NewService(
	users store.UserStore,
	tokens store.TokenStore,
	hasher PasswordHasher,
	tokenBytes int,
	logger *slog.Logger,
) (*Service, error) {
	if users == nil || tokens == nil || hasher == nil {
		return nil, errors.New("auth service requires user store, token store and hasher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tokenBytes <= 0 {
		tokenBytes = DefaultTokenBytes
	}
	if tokenBytes < MinTokenBytes || tokenBytes > MaxTokenBytes {
		return nil, fmt.Errorf("token length %d bytes outside [%d, %d]", tokenBytes, MinTokenBytes, MaxTokenBytes)
	}

	// Compared against when the email is unknown so the response time does
	// not reveal whether an account exists.
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &Service{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		tokenBytes: tokenBytes,
		dummyHash:  dummy,
		logger:     logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register validates input, hashes the password and stores a new active user.
// Field problems, including a taken email, come back as *domain.ValidationError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Email, in.Password,
		domain.WithProfile(in.FirstName, in.LastName, in.BirthDate, in.Image),
		domain.WithStaff(in.Staff))
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domain.NewValidationError("email", MsgEmailExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Bool("staff", user.IsStaff))
	return user, nil
}

// Login checks credentials and returns the user's token, creating it on first
// login. Every credential failure produces the same error so callers cannot
// tell an unknown email from a wrong password or an inactive account.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, credentialsError(MsgMissingCredentials)
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		_ = s.hasher.Compare(s.dummyHash, password)
		log.Debug("login for unknown email")
		return nil, credentialsError(MsgInvalidCredentials)
	case err != nil:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, credentialsError(MsgInvalidCredentials)
	}
	if !user.IsActive {
		log.Debug("login for inactive user", slog.String("user_id", user.ID.String()))
		return nil, credentialsError(MsgInvalidCredentials)
	}

	key, err := GenerateKey(s.tokenBytes)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.GetOrCreate(ctx, &domain.Token{
		Key:       key,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{Token: tok.Key, UserID: user.ID, Email: user.Email}, nil
}

// Logout revokes the token with the given key.
func (s *Service) Logout(ctx context.Context, key string) error {
	if err := s.tokens.DeleteByKey(ctx, key); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("token revoked")
	return nil
}

// Authenticate resolves a token key to its active user.
func (s *Service) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	tok, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	user, err := s.users.GetByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func credentialsError(msg string) error {
	return domain.NewValidationError(domain.NonFieldErrors, msg, ErrAuthorization)
}
