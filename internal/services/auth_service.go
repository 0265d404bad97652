package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CampusQA-2025/qa-service/internal/auth"
	"github.com/CampusQA-2025/qa-service/internal/events"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

type authService struct {
	repo           repositories.Repository
	identity       repositories.IdentityProvider
	tokens         *auth.TokenService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewAuthService(repo repositories.Repository, identity repositories.IdentityProvider, tokens *auth.TokenService, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:           repo,
		identity:       identity,
		tokens:         tokens,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *authService) SigninURL(state string) string {
	return s.identity.SigninURL(state)
}

// HandleCallback exchanges the authorization code for a verified identity,
// finds or creates the directory record and issues the session token.
// Every login stamps last_login_at.
func (s *authService) HandleCallback(ctx context.Context, code, state string) (*LoginResponse, error) {
	identity, err := s.identity.VerifyCode(ctx, code, state)
	if err != nil {
		var provErr *repositories.AuthProviderError
		if errors.As(err, &provErr) {
			s.logger.Warn("Identity verification rejected", "op", provErr.Op, "error", provErr.Err)
			return nil, ErrInvalidAuthCode
		}
		return nil, fmt.Errorf("identity verification failed: %w", err)
	}

	candidate := &models.User{
		ID:       identity.ExternalID,
		FullName: identity.Name,
		Email:    identity.Email,
		Role:     models.RoleStudent,
		IsActive: true,
	}
	if identity.AvatarURL != "" {
		candidate.AvatarURL = &identity.AvatarURL
	}

	user, created, err := s.repo.User().FindOrCreate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("Suspended account attempted login", "user_id", user.ID)
		return nil, ErrAccountSuspended
	}

	if err := s.repo.User().TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to stamp last login", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role, "created", created)

	s.publishEvent(ctx, events.TypeUserLoggedIn, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"created": created,
	})

	return &LoginResponse{Token: token, User: user, IsNew: created}, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	s.logger.Info("User logged out", "user_id", userID)

	s.publishEvent(ctx, events.TypeUserLoggedOut, map[string]interface{}{
		"user_id": userID,
	})

	// Tokens are stateless; logout is an event for downstream consumers
	// and a client-side token discard.
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.StudentID != nil {
		user.StudentID = req.StudentID
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return user, nil
}

func (s *authService) CheckEmail(ctx context.Context, email string) (*EmailCheckResponse, error) {
	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	return &EmailCheckResponse{Email: email, Exists: exists}, nil
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.Event{Type: eventType, Data: data}); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}
