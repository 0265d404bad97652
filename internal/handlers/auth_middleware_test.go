package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/CampusQA-2025/qa-service/internal/auth"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

const testSigningKey = "test-signing-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func testHandlerLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})))
}

// stubUserDirectory backs the auth gate with a fixed set of users.
type stubUserDirectory struct {
	users map[string]*models.User
}

func (s *stubUserDirectory) FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	return user, false, nil
}

func (s *stubUserDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserDirectory) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, services.ErrUserNotFound
}

func (s *stubUserDirectory) Update(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserDirectory) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	return nil
}

func (s *stubUserDirectory) ToggleActive(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (s *stubUserDirectory) TouchLastLogin(ctx context.Context, id string) error { return nil }

func (s *stubUserDirectory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func newTestGate(users map[string]*models.User) (*AuthGate, *auth.TokenService) {
	tokens := auth.NewTokenService([]byte(testSigningKey), "qa-service-test")
	return NewAuthGate(tokens, &stubUserDirectory{users: users}, testHandlerLogger()), tokens
}

func protectedRouter(gate *AuthGate, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{gate.AuthMiddleware()}, extra...)
	handlers := append(chain, func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	student := &models.User{ID: "student-1", Email: "s1@example.edu", Role: models.RoleStudent, IsActive: true}
	suspended := &models.User{ID: "student-2", Email: "s2@example.edu", Role: models.RoleStudent, IsActive: false}
	users := map[string]*models.User{student.ID: student, suspended.ID: suspended}

	gate, tokens := newTestGate(users)
	router := protectedRouter(gate)

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(router, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(router, "not-a-token")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   student.ID,
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
			},
			Role: student.Role,
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		rec := doRequest(router, signed)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token for active user", func(t *testing.T) {
		token, err := tokens.Issue(student)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		rec := doRequest(router, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("suspended user", func(t *testing.T) {
		token, err := tokens.Issue(suspended)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		rec := doRequest(router, token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("token for deleted user", func(t *testing.T) {
		ghost := &models.User{ID: "ghost-1", Role: models.RoleStudent, IsActive: true}
		token, err := tokens.Issue(ghost)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		rec := doRequest(router, token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	student := &models.User{ID: "student-1", Email: "s1@example.edu", Role: models.RoleStudent, IsActive: true}
	teacher := &models.User{ID: "teacher-1", Email: "t1@example.edu", Role: models.RoleTeacher, IsActive: true}
	admin := &models.User{ID: "admin-1", Email: "a1@example.edu", Role: models.RoleAdmin, IsActive: true}
	users := map[string]*models.User{student.ID: student, teacher.ID: teacher, admin.ID: admin}

	gate, tokens := newTestGate(users)
	router := protectedRouter(gate, RequireRoleMiddleware(models.RoleTeacher))

	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"student denied", student, http.StatusForbidden},
		{"teacher allowed", teacher, http.StatusOK},
		{"admin passes any role check", admin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := tokens.Issue(tc.user)
			if err != nil {
				t.Fatalf("failed to issue token: %v", err)
			}
			rec := doRequest(router, token)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}

	t.Run("unauthenticated request", func(t *testing.T) {
		router := gin.New()
		router.GET("/admin-only", RequireRoleMiddleware(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
