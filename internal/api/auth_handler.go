package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service/auth"
)

// AuthService is the part of the authentication service the handlers use.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Logout(ctx context.Context, key string) error
	Authenticate(ctx context.Context, key string) (*domain.User, error)
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:   authService,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	if err := shared.ValidateRequest(&req); err != nil {
		var fieldErr *domain.ValidationError
		if errors.As(err, &fieldErr) {
			ve.Merge(fieldErr)
		} else {
			HandleAPIError(w, r, err, "Failed to register user")
			return
		}
	}
	birthDate := req.BirthDate.Parse("birth_date", ve)
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
		Image:     req.Image,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Token: nil,
		User:  userToResponse(user),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to log in")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:  result.Token,
		UserID: result.UserID,
		Email:  result.Email,
	})
}

// Logout handles GET /logout. The route is behind Authorize, so the request
// carries a valid token by the time it gets here.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	key, ok, err := auth.KeyFromRequest(r)
	if err != nil || !ok {
		HandleAPIError(w, r, auth.ErrMalformedHeader, "")
		return
	}

	if err := h.auth.Logout(r.Context(), key); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"detail": "Successfully logged out.",
	})
}
