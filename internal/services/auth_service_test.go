package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/CampusQA-2025/qa-service/internal/auth"
	"github.com/CampusQA-2025/qa-service/internal/events"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(repo repositories.Repository, identity repositories.IdentityProvider, publisher events.EventPublisher) (AuthService, *auth.TokenService) {
	tokens := auth.NewTokenService([]byte("test-signing-key"), "qa-service-test")
	return NewAuthService(repo, identity, tokens, publisher, testLogger(), validator.New()), tokens
}

func TestAuthService_HandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("first login creates student record", func(t *testing.T) {
		repo := newMockRepository()
		identity := &stubIdentityProvider{identity: &repositories.Identity{
			ExternalID: "ext-1",
			Email:      "alice@campus.edu",
			Name:       "Alice Nguyen",
		}}
		publisher := events.NewMockEventPublisher(testLogger())
		svc, tokens := newTestAuthService(repo, identity, publisher)

		resp, err := svc.HandleCallback(ctx, "code", "state")
		if err != nil {
			t.Fatalf("HandleCallback failed: %v", err)
		}
		if !resp.IsNew {
			t.Error("Expected IsNew for first login")
		}
		if resp.User.Role != models.RoleStudent {
			t.Errorf("Expected default role student, got %s", resp.User.Role)
		}
		if resp.User.LastLoginAt == nil {
			t.Error("Expected last login to be stamped")
		}

		claims, err := tokens.Verify(resp.Token)
		if err != nil {
			t.Fatalf("Issued token failed verification: %v", err)
		}
		if claims.Subject != "ext-1" {
			t.Errorf("Expected subject ext-1, got %s", claims.Subject)
		}
		if claims.Role != models.RoleStudent {
			t.Errorf("Expected role student in claims, got %s", claims.Role)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeUserLoggedIn {
			t.Errorf("Expected one login event, got %+v", published)
		}
	})

	t.Run("repeated login is idempotent per email", func(t *testing.T) {
		repo := newMockRepository()
		identity := &stubIdentityProvider{identity: &repositories.Identity{
			ExternalID: "ext-1",
			Email:      "alice@campus.edu",
			Name:       "Alice Nguyen",
		}}
		publisher := events.NewMockEventPublisher(testLogger())
		svc, _ := newTestAuthService(repo, identity, publisher)

		first, err := svc.HandleCallback(ctx, "code", "state")
		if err != nil {
			t.Fatalf("First login failed: %v", err)
		}
		second, err := svc.HandleCallback(ctx, "code", "state")
		if err != nil {
			t.Fatalf("Second login failed: %v", err)
		}

		if second.IsNew {
			t.Error("Second login must not create a new record")
		}
		if first.User.ID != second.User.ID {
			t.Errorf("Expected same user record, got %s and %s", first.User.ID, second.User.ID)
		}
	})

	t.Run("suspended account is rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.addUser(&models.User{
			ID:       "ext-2",
			Email:    "bob@campus.edu",
			FullName: "Bob Tran",
			Role:     models.RoleStudent,
			IsActive: false,
		})
		identity := &stubIdentityProvider{identity: &repositories.Identity{
			ExternalID: "ext-2",
			Email:      "bob@campus.edu",
			Name:       "Bob Tran",
		}}
		svc, _ := newTestAuthService(repo, identity, events.NewMockEventPublisher(testLogger()))

		_, err := svc.HandleCallback(ctx, "code", "state")
		if !errors.Is(err, ErrAccountSuspended) {
			t.Errorf("Expected ErrAccountSuspended, got %v", err)
		}
	})

	t.Run("provider rejection maps to invalid code", func(t *testing.T) {
		repo := newMockRepository()
		identity := &stubIdentityProvider{err: &repositories.AuthProviderError{
			Op:  "exchange token",
			Err: errors.New("code expired"),
		}}
		svc, _ := newTestAuthService(repo, identity, events.NewMockEventPublisher(testLogger()))

		_, err := svc.HandleCallback(ctx, "stale-code", "state")
		if !errors.Is(err, ErrInvalidAuthCode) {
			t.Errorf("Expected ErrInvalidAuthCode, got %v", err)
		}
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.addUser(&models.User{
		ID:       "u-1",
		Email:    "carol@campus.edu",
		FullName: "Carol Le",
		Role:     models.RoleStudent,
		IsActive: true,
	})
	svc, _ := newTestAuthService(repo, &stubIdentityProvider{}, events.NewMockEventPublisher(testLogger()))

	name := "Carol Le Updated"
	dept := "Computer Science"
	user, err := svc.UpdateProfile(ctx, "u-1", &UpdateProfileRequest{FullName: &name, Department: &dept})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.FullName != name {
		t.Errorf("Expected name %q, got %q", name, user.FullName)
	}
	if user.Department == nil || *user.Department != dept {
		t.Errorf("Expected department %q, got %v", dept, user.Department)
	}

	_, err = svc.UpdateProfile(ctx, "missing", &UpdateProfileRequest{FullName: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_CheckEmail(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.addUser(&models.User{ID: "u-1", Email: "dana@campus.edu", Role: models.RoleStudent, IsActive: true})
	svc, _ := newTestAuthService(repo, &stubIdentityProvider{}, events.NewMockEventPublisher(testLogger()))

	resp, err := svc.CheckEmail(ctx, "dana@campus.edu")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if !resp.Exists {
		t.Error("Expected existing email to be reported")
	}

	resp, err = svc.CheckEmail(ctx, "nobody@campus.edu")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if resp.Exists {
		t.Error("Expected unknown email to be reported missing")
	}
}
