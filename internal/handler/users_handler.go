package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/dto"
	"github.com/quiverhq/accounts-api/internal/entity"
	"github.com/quiverhq/accounts-api/internal/middleware"
	"github.com/quiverhq/accounts-api/internal/service"
)

// Picture actions: upload or delete. Anything else is rejected before any
// store or file side effect.
var actionPattern = regexp.MustCompile(`^[ud]$`)

const (
	actionUpload = "u"
	actionDelete = "d"
)

// UsersHandler exposes the user management endpoints.
type UsersHandler struct {
	users          *service.UserService
	maxUploadBytes int64
}

// NewUsersHandler constructs a handler instance.
func NewUsersHandler(users *service.UserService, maxUploadBytes int64) *UsersHandler {
	return &UsersHandler{users: users, maxUploadBytes: maxUploadBytes}
}

// List handles GET /users.
func (h *UsersHandler) List(c echo.Context) error {
	records, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, records)
}

// Me handles GET /users/me, returning the record matching the caller's email.
func (h *UsersHandler) Me(c echo.Context) error {
	caller := middleware.CallerFromContext(c)
	if caller == nil {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	user, err := h.users.GetUserByEmail(c.Request().Context(), caller.Email)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, user)
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, user)
}

// Update handles PUT /users/:id with a sparse payload.
func (h *UsersHandler) Update(c echo.Context) error {
	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusUnprocessableEntity, "invalid payload")
	}

	user, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, user)
}

// UpdatePassword handles PUT /users/:id/password.
func (h *UsersHandler) UpdatePassword(c echo.Context) error {
	var req dto.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusUnprocessableEntity, "invalid payload")
	}

	user, err := h.users.UpdatePassword(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c echo.Context) error {
	if err := h.users.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Picture handles POST /users/:id/picture, discriminated by the action form
// field: "u" uploads a new picture, "d" deletes the current one.
func (h *UsersHandler) Picture(c echo.Context) error {
	id := c.Param("id")

	caller := middleware.CallerFromContext(c)
	if caller == nil {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}
	if caller.Role != entity.RoleAdmin && !sameUser(caller.ID, id) {
		return Error(c, http.StatusForbidden, "cannot modify another user's picture")
	}

	action := c.FormValue("action")
	if !actionPattern.MatchString(action) {
		return Error(c, http.StatusUnprocessableEntity, `action must be "u" or "d"`)
	}

	switch action {
	case actionUpload:
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return Error(c, http.StatusUnprocessableEntity, "picture file is required")
		}
		if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
			return Error(c, http.StatusUnprocessableEntity, "picture file is too large")
		}

		src, err := fileHeader.Open()
		if err != nil {
			return Error(c, http.StatusBadRequest, "unable to open uploaded file")
		}
		defer src.Close()

		user, err := h.users.UpdateAvatar(c.Request().Context(), id, fileHeader.Filename, src)
		if err != nil {
			return writeServiceError(c, err)
		}
		return Success(c, http.StatusOK, user)

	case actionDelete:
		user, err := h.users.RemoveAvatar(c.Request().Context(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return Success(c, http.StatusOK, user)

	default:
		// Unreachable while the pattern above holds; kept so a validation
		// regression cannot silently mutate state.
		c.Logger().Warnf("request %s: unrecognized picture action %q", middleware.RequestIDFromContext(c), action)
		return Error(c, http.StatusUnprocessableEntity, `action must be "u" or "d"`)
	}
}

// sameUser compares two user id renderings by their parsed UUID value, so
// case or whitespace differences do not defeat the ownership check. Ids that
// do not parse never match.
func sameUser(callerID, targetID string) bool {
	a, err := uuid.Parse(strings.TrimSpace(callerID))
	if err != nil {
		return false
	}
	b, err := uuid.Parse(strings.TrimSpace(targetID))
	if err != nil {
		return false
	}
	return a == b
}

// Avatar handles GET /users/:id/picture, streaming the stored file.
func (h *UsersHandler) Avatar(c echo.Context) error {
	content, ref, err := h.users.OpenAvatar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(ref))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, contentType, io.Reader(content))
}
