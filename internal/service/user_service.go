package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/redact"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/phrazzld/shelf-api/internal/store"
)

// UserPatch lists the fields a PATCH may change. Nil pointers are left
// untouched. SetBirthDate distinguishes clearing the date from omitting it.
type UserPatch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Image        *string
	Password     *string
	BirthDate    *time.Time
	SetBirthDate bool
}

// ImageUpload is a profile image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UserService provides user-related operations. Mutations require the caller
// to be the target user or staff.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListUsers returns all users, including deactivated ones
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateUser applies patch to the user identified by id
	UpdateUser(ctx context.Context, caller *domain.User, id uuid.UUID, patch UserPatch) (*domain.User, error)

	// DeactivateUser marks the user inactive and revokes their token
	DeactivateUser(ctx context.Context, caller *domain.User, id uuid.UUID) error

	// UploadImage stores a profile image and records its reference on the user
	UploadImage(ctx context.Context, caller *domain.User, id uuid.UUID, img ImageUpload) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	tokens store.TokenStore
	tx     store.Transactor
	hasher auth.PasswordHasher
	images store.ImageStore
	logger *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService. images may be nil, in which case
// UploadImage returns store.ErrStorageNotConfigured.
func NewUserService(
	users store.UserStore,
	tokens store.TokenStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	images store.ImageStore,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:  users,
		tokens: tokens,
		tx:     tx,
		hasher: hasher,
		images: images,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ListUsers implements UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser implements UserService.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	caller *domain.User,
	id uuid.UUID,
	patch UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.modifiable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = domain.NormalizeEmail(*patch.Email)
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Image != nil {
		user.Image = *patch.Image
	}
	if patch.SetBirthDate {
		user.BirthDate = patch.BirthDate
	}
	if patch.Password != nil {
		user.Password = *patch.Password
		if user.Password == "" {
			return nil, domain.NewValidationError("password", "This field may not be blank.", domain.ErrInvalidPassword)
		}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if user.Password != "" {
		hashed, err := s.hasher.Hash(user.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
		user.Password = ""
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domain.NewValidationError("email", auth.MsgEmailExists, err)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.String("by", caller.ID.String()),
		slog.Bool("password_changed", patch.Password != nil))
	return user, nil
}

// DeactivateUser implements UserService. The user row is kept; is_active is
// cleared and the token deleted in one transaction.
func (s *UserServiceImpl) DeactivateUser(ctx context.Context, caller *domain.User, id uuid.UUID) error {
	user, err := s.modifiable(ctx, caller, id)
	if err != nil {
		return err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		user.IsActive = false
		if err := s.users.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.tokens.WithTx(tx).DeleteByUserID(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user deactivated",
		slog.String("user_id", user.ID.String()),
		slog.String("by", caller.ID.String()))
	return nil
}

// imageTypes lists the accepted upload formats and the extension each is
// stored under.
var imageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// sniffLen is how much of an upload is read to detect its format.
const sniffLen = 3072

// UploadImage implements UserService. The format is detected from the file
// content; the content type declared by the client is ignored.
func (s *UserServiceImpl) UploadImage(
	ctx context.Context,
	caller *domain.User,
	id uuid.UUID,
	img ImageUpload,
) (*domain.User, error) {
	if s.images == nil {
		return nil, store.ErrStorageNotConfigured
	}

	user, err := s.modifiable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(img.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	contentType, ext := "", ""
	for _, t := range imageTypes {
		if detected.Is(t.mime) {
			contentType, ext = t.mime, t.ext
			break
		}
	}
	if ext == "" {
		logger.FromContextOrDefault(ctx, s.logger).Debug("rejected image upload",
			slog.String("declared", img.ContentType),
			slog.String("detected", detected.String()))
		return nil, domain.NewValidationError("image",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
			ErrUnsupportedImage)
	}

	key := path.Join("users", user.ID.String(), uuid.NewString()+ext)
	body := io.MultiReader(bytes.NewReader(head), img.Body)
	ref, err := s.images.Put(ctx, key, contentType, body, img.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	user.Image = ref
	if err := user.Validate(); err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to update user image: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user image uploaded",
		slog.String("user_id", user.ID.String()),
		slog.String("key", key))
	return user, nil
}

// discardImage removes an uploaded object that never got attached to a user.
func (s *UserServiceImpl) discardImage(ctx context.Context, key string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete orphaned image",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
	}
}

// modifiable loads the target user and checks that caller may change it.
func (s *UserServiceImpl) modifiable(ctx context.Context, caller *domain.User, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if caller == nil || (caller.ID != user.ID && !caller.IsStaff) {
		return nil, ErrNotOwned
	}
	return user, nil
}
