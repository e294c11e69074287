package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service"
)

// DefaultMaxUploadBytes bounds a profile image upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 5 << 20

// ImageFormField is the multipart field carrying a profile image.
const ImageFormField = "image"

// UserHandler handles the /users resource.
type UserHandler struct {
	users          service.UserService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler. maxUploadBytes <= 0 selects
// DefaultMaxUploadBytes.
func NewUserHandler(users service.UserService, maxUploadBytes int64, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &UserHandler{
		users:          users,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userToResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PATCH /users/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	var req UserPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	patch := service.UserPatch{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Image:        req.Image,
		Password:     req.Password,
		SetBirthDate: req.BirthDate.Set,
		BirthDate:    req.BirthDate.Parse("birth_date", ve),
	}
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	user, err := h.users.UpdateUser(r.Context(), shared.CallerFromContext(r.Context()), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeactivateUser handles DELETE /users/{id}. The account is kept but marked
// inactive, and its token is revoked.
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeactivateUser(r.Context(), shared.CallerFromContext(r.Context()), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /users/{id}/image with a multipart "image" field.
func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(ImageFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			HandleAPIError(w, r, domain.NewValidationError(ImageFormField,
				"The uploaded file is too large.", err), "")
		case errors.Is(err, http.ErrMissingFile):
			HandleAPIError(w, r, domain.NewValidationError(ImageFormField,
				"No file was submitted.", err), "")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart request", err)
		}
		return
	}
	defer func() { _ = file.Close() }()

	user, err := h.users.UploadImage(r.Context(), shared.CallerFromContext(r.Context()), id, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload image")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
