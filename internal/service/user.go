package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quiverhq/accounts-api/internal/dto"
	"github.com/quiverhq/accounts-api/internal/entity"
	"github.com/quiverhq/accounts-api/internal/repository"
	"github.com/quiverhq/accounts-api/internal/storage"
)

// UserService implements the account operations exposed by the API. Caller
// identity is always passed in explicitly by the transport layer.
type UserService struct {
	repo        repository.UsersRepository
	files       storage.FileStore
	phoneRegion string
}

// Option configures optional service behavior.
type Option func(*UserService)

// WithPhoneRegion sets the default region used to parse phone numbers
// submitted without a country prefix.
func WithPhoneRegion(region string) Option {
	return func(s *UserService) {
		region = strings.ToUpper(strings.TrimSpace(region))
		if region != "" {
			s.phoneRegion = region
		}
	}
}

// NewUserService builds a new UserService instance.
func NewUserService(repo repository.UsersRepository, files storage.FileStore, opts ...Option) *UserService {
	s := &UserService{repo: repo, files: files, phoneRegion: defaultPhoneRegion}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseUserID(id string) (uuid.UUID, error) {
	userID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	return userID, nil
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

// GetUser retrieves a user by identifier.
func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// GetUserByEmail retrieves a user by its email, used to resolve the
// authenticated principal.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email must not be blank", ErrValidation)
	}
	return s.repo.FindByEmail(ctx, email)
}

// UpdateUser applies the present fields of the payload and leaves everything
// else untouched. An empty payload is a no-op returning the stored record.
func (s *UserService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*entity.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	params := repository.UpdateUserParams{
		Enabled: req.Enabled,
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		params.Email = &email
	}
	if req.FirstName != nil {
		trimmed := strings.TrimSpace(*req.FirstName)
		params.FirstName = &trimmed
	}
	if req.LastName != nil {
		trimmed := strings.TrimSpace(*req.LastName)
		params.LastName = &trimmed
	}
	if req.Timezone != nil {
		trimmed := strings.TrimSpace(*req.Timezone)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: timezone must not be blank", ErrValidation)
		}
		params.Timezone = &trimmed
	}
	if req.Phone != nil {
		phone, err := normalizePhone(*req.Phone, s.phoneRegion)
		if err != nil {
			return nil, err
		}
		params.Phone = &phone
	}
	if req.Avatar != nil {
		params.Avatar = req.Avatar
	}

	return s.repo.Update(ctx, userID, params)
}

// UpdatePassword replaces the user's password after verifying the current
// one. Nothing is persisted unless verification succeeds.
func (s *UserService) UpdatePassword(ctx context.Context, id string, req dto.UpdatePasswordRequest) (*entity.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CurrentPassword) == "" || strings.TrimSpace(req.NewPassword) == "" {
		return nil, fmt.Errorf("%w: current and new password are required", ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	hash := string(hashed)
	return s.repo.Update(ctx, userID, repository.UpdateUserParams{PasswordHash: &hash})
}

// UpdateAvatar stores the uploaded file and points the user's avatar
// reference at it. Only the avatar field changes; a replaced picture's file
// is removed best-effort once the record points at the new one.
func (s *UserService) UpdateAvatar(ctx context.Context, id string, filename string, content io.Reader) (*entity.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.files.Save(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	user, err := s.repo.Update(ctx, userID, repository.UpdateUserParams{Avatar: &ref})
	if err != nil {
		// The record was never updated; drop the orphaned file so the store
		// stays consistent with the user table.
		if removeErr := s.files.Remove(ctx, ref); removeErr != nil {
			log.Printf("orphaned avatar %s could not be removed: %v", ref, removeErr)
		}
		return nil, err
	}

	if current.Avatar != nil && *current.Avatar != ref {
		if removeErr := s.files.Remove(ctx, *current.Avatar); removeErr != nil {
			log.Printf("replaced avatar %s could not be removed: %v", *current.Avatar, removeErr)
		}
	}

	return user, nil
}

// RemoveAvatar deletes the user's stored picture and clears the reference.
// A user without an avatar is returned unchanged; the reference is only
// cleared after the file deletion succeeded.
func (s *UserService) RemoveAvatar(ctx context.Context, id string) (*entity.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Avatar == nil {
		return user, nil
	}

	if err := s.files.Remove(ctx, *user.Avatar); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return s.repo.Update(ctx, userID, repository.UpdateUserParams{ClearAvatar: true})
}

// OpenAvatar streams the user's stored picture.
func (s *UserService) OpenAvatar(ctx context.Context, id string) (io.ReadCloser, string, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.Avatar == nil {
		return nil, "", repository.ErrUserNotFound
	}

	content, err := s.files.Open(ctx, *user.Avatar)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", fmt.Errorf("%w: avatar file missing", ErrStorageFailure)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return content, *user.Avatar, nil
}

// DeleteUser removes a user by id. Missing ids report not found.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	userID, err := parseUserID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}
