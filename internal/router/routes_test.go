package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/auth"
	"github.com/quiverhq/accounts-api/internal/config"
	"github.com/quiverhq/accounts-api/internal/entity"
	"github.com/quiverhq/accounts-api/internal/handler"
	"github.com/quiverhq/accounts-api/internal/repository"
	"github.com/quiverhq/accounts-api/internal/service"
	"github.com/quiverhq/accounts-api/internal/storage"
)

// gateUsersRepo answers every store call successfully so route tests observe
// the authorization layer, not persistence behavior.
type gateUsersRepo struct{}

func (gateUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return &entity.User{ID: uuid.New(), Email: email, Role: entity.RoleUser}, nil
}

func (gateUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return &entity.User{ID: id, Email: "user@example.com", Role: entity.RoleUser}, nil
}

func (gateUsersRepo) List(ctx context.Context) ([]entity.User, error) {
	return []entity.User{}, nil
}

func (gateUsersRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateUserParams) (*entity.User, error) {
	return &entity.User{ID: id}, nil
}

func (gateUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type gateFileStore struct{}

func (gateFileStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	return "stored.png", nil
}

func (gateFileStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return nil, storage.ErrFileNotFound
}

func (gateFileStore) Remove(ctx context.Context, ref string) error {
	return nil
}

func newGateServer(t *testing.T) (*echo.Echo, *auth.JWTManager) {
	t.Helper()
	e := echo.New()
	manager := auth.NewJWTManager("test-secret", "accounts-api", time.Hour)
	users := handler.NewUsersHandler(service.NewUserService(gateUsersRepo{}, gateFileStore{}), 1<<20)
	Register(e, &config.Config{}, manager, Handlers{Users: users})
	return e, manager
}

func mintToken(t *testing.T, manager *auth.JWTManager, subject, role string) string {
	t.Helper()
	token, err := manager.GenerateToken(subject, role+"@example.com", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestRegister_RouteAuthorization(t *testing.T) {
	e, manager := newGateServer(t)

	targetID := uuid.MustParse("eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee")
	adminToken := mintToken(t, manager, uuid.NewString(), entity.RoleAdmin)
	userToken := mintToken(t, manager, targetID.String(), entity.RoleUser)

	routes := []struct {
		method      string
		path        string
		userAllowed bool
	}{
		{http.MethodGet, "/users", false},
		{http.MethodGet, "/users/me", true},
		{http.MethodGet, "/users/" + targetID.String(), true},
		{http.MethodPut, "/users/" + targetID.String(), true},
		{http.MethodPut, "/users/" + targetID.String() + "/password", true},
		{http.MethodDelete, "/users/" + targetID.String(), false},
		{http.MethodGet, "/users/" + targetID.String() + "/picture", true},
		{http.MethodPost, "/users/" + targetID.String() + "/picture", true},
	}

	do := func(method, path, token string) int {
		var body io.Reader
		if method == http.MethodPut {
			body = strings.NewReader("{}")
		}
		req := httptest.NewRequest(method, path, body)
		if method == http.MethodPut {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for _, r := range routes {
		name := r.method + " " + strings.Replace(r.path, targetID.String(), ":id", 1)

		t.Run(name+" without a token", func(t *testing.T) {
			if code := do(r.method, r.path, ""); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})

		t.Run(name+" with a garbage token", func(t *testing.T) {
			if code := do(r.method, r.path, "not.a.jwt"); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})

		t.Run(name+" as admin", func(t *testing.T) {
			code := do(r.method, r.path, adminToken)
			if code == http.StatusUnauthorized || code == http.StatusForbidden {
				t.Fatalf("admin must pass the gate, got %d", code)
			}
		})

		t.Run(name+" as user", func(t *testing.T) {
			code := do(r.method, r.path, userToken)
			if r.userAllowed {
				if code == http.StatusUnauthorized || code == http.StatusForbidden {
					t.Fatalf("user must pass the gate, got %d", code)
				}
			} else if code != http.StatusForbidden {
				t.Fatalf("expected 403 for the user role, got %d", code)
			}
		})
	}

	t.Run("admin list and delete succeed end to end", func(t *testing.T) {
		if code := do(http.MethodGet, "/users", adminToken); code != http.StatusOK {
			t.Fatalf("expected 200 for admin list, got %d", code)
		}
		if code := do(http.MethodDelete, "/users/"+targetID.String(), adminToken); code != http.StatusNoContent {
			t.Fatalf("expected 204 for admin delete, got %d", code)
		}
	})

	t.Run("user reads own record through the full stack", func(t *testing.T) {
		if code := do(http.MethodGet, "/users/me", userToken); code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
	})

	t.Run("unknown role is rejected on every role-gated route", func(t *testing.T) {
		viewerToken := mintToken(t, manager, uuid.NewString(), "viewer")
		for _, r := range routes {
			code := do(r.method, r.path, viewerToken)
			if r.path == "/users/me" {
				// /me only requires authentication, not a known role.
				if code != http.StatusOK {
					t.Fatalf("expected 200 on /me for any authenticated caller, got %d", code)
				}
				continue
			}
			if code != http.StatusForbidden {
				t.Fatalf("%s %s: expected 403 for an unknown role, got %d", r.method, r.path, code)
			}
		}
	})
}
