package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/events"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

type adminService struct {
	repo           repositories.Repository
	db             *gorm.DB
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewAdminService(repo repositories.Repository, db *gorm.DB, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AdminService {
	return &adminService{
		repo:           repo,
		db:             db,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

// ===== USER MODERATION =====

func (s *adminService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Size:  len(users),
	}, nil
}

// UpdateUserRole changes a user's role, notifies them and records the
// action in the audit trail.
func (s *adminService) UpdateUserRole(ctx context.Context, targetID string, req *UpdateRoleRequest, actorID string) (*models.User, error) {
	if errors := s.validator.GetBusinessValidator().ValidateRoleChange(req.Role); len(errors) > 0 {
		return nil, ErrInvalidRole
	}

	target, err := s.repo.User().GetByID(ctx, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	previousRole := target.Role
	if previousRole == req.Role {
		return target, nil
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().UpdateRole(ctx, targetID, req.Role); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		notification := &models.Notification{
			UserID:  targetID,
			Title:   "Your role has changed",
			Message: fmt.Sprintf("An administrator changed your role from %s to %s.", previousRole, req.Role),
		}
		if err := txRepo.Notification().Create(ctx, nil, notification); err != nil {
			return fmt.Errorf("failed to write notification: %w", err)
		}

		entry := &models.AuditLog{
			ActorID:    actorID,
			Action:     "user.role_changed",
			TargetType: "user",
			TargetID:   targetID,
			Detail:     fmt.Sprintf("%s -> %s", previousRole, req.Role),
		}
		return txRepo.AuditLog().Create(ctx, nil, entry)
	})
	if err != nil {
		return nil, err
	}

	target.Role = req.Role
	s.logger.Info("User role changed", "target_id", targetID, "actor_id", actorID,
		"previous_role", previousRole, "new_role", req.Role)

	s.publishEvent(ctx, events.TypeUserRoleChanged, map[string]interface{}{
		"user_id":       targetID,
		"actor_id":      actorID,
		"previous_role": string(previousRole),
		"new_role":      string(req.Role),
	})

	return target, nil
}

// ToggleUserStatus flips the active flag. Suspended users fail the
// authorization gate on their next request.
func (s *adminService) ToggleUserStatus(ctx context.Context, targetID string, actorID string) (*models.User, error) {
	target, err := s.repo.User().GetByID(ctx, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	active, err := s.repo.User().ToggleActive(ctx, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to toggle status: %w", err)
	}
	target.IsActive = active

	state := "suspended"
	if active {
		state = "reactivated"
	}

	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     "user.status_changed",
		TargetType: "user",
		TargetID:   targetID,
		Detail:     state,
	}
	if err := s.repo.AuditLog().Create(ctx, nil, entry); err != nil {
		s.logger.Warn("Failed to write audit log entry", "action", entry.Action, "error", err)
	}

	notification := &models.Notification{
		UserID:  targetID,
		Title:   "Account status changed",
		Message: fmt.Sprintf("An administrator %s your account.", state),
	}
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		s.logger.Warn("Failed to write status notification", "target_id", targetID, "error", err)
	}

	s.logger.Info("User status toggled", "target_id", targetID, "actor_id", actorID, "active", active)

	s.publishEvent(ctx, events.TypeUserStatusChanged, map[string]interface{}{
		"user_id":  targetID,
		"actor_id": actorID,
		"active":   active,
	})

	return target, nil
}

// ===== CONTENT MODERATION =====

// ArchiveQuestion hides the question from default listings and notifies
// its author. Unarchiving reverses the hide without a notification.
func (s *adminService) ArchiveQuestion(ctx context.Context, questionID uint, archived bool, actorID string) error {
	question, err := s.repo.Question().GetByID(ctx, nil, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Question().SetArchived(ctx, nil, questionID, archived); err != nil {
			return err
		}

		if archived {
			notification := &models.Notification{
				UserID:  question.AuthorID,
				Title:   "Your question was archived",
				Message: fmt.Sprintf("A moderator archived your question %q.", question.Title),
			}
			if err := txRepo.Notification().Create(ctx, nil, notification); err != nil {
				return fmt.Errorf("failed to write notification: %w", err)
			}
		}

		detail := "archived"
		if !archived {
			detail = "unarchived"
		}
		entry := &models.AuditLog{
			ActorID:    actorID,
			Action:     "question.archived",
			TargetType: "question",
			TargetID:   fmt.Sprint(questionID),
			Detail:     detail,
		}
		return txRepo.AuditLog().Create(ctx, nil, entry)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.logger.Info("Question archive state changed", "question_id", questionID, "archived", archived, "actor_id", actorID)

	s.publishEvent(ctx, events.TypeQuestionArchived, map[string]interface{}{
		"question_id": questionID,
		"actor_id":    actorID,
		"archived":    archived,
	})

	return nil
}

// DeleteQuestion removes the question with its full answer tree and
// notifies the author.
func (s *adminService) DeleteQuestion(ctx context.Context, questionID uint, actorID string) error {
	question, err := s.repo.Question().GetByID(ctx, nil, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if err := s.repo.Question().Delete(ctx, nil, questionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	if question.AuthorID != actorID {
		notification := &models.Notification{
			UserID:  question.AuthorID,
			Title:   "Your question was removed",
			Message: fmt.Sprintf("A moderator removed your question %q.", question.Title),
		}
		if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
			s.logger.Warn("Failed to write delete notification", "question_id", questionID, "error", err)
		}
	}

	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     "question.deleted",
		TargetType: "question",
		TargetID:   fmt.Sprint(questionID),
		Detail:     question.Title,
	}
	if err := s.repo.AuditLog().Create(ctx, nil, entry); err != nil {
		s.logger.Warn("Failed to write audit log entry", "action", entry.Action, "error", err)
	}

	s.logger.Info("Question deleted by moderator", "question_id", questionID, "actor_id", actorID)

	s.publishEvent(ctx, events.TypeQuestionDeleted, map[string]interface{}{
		"question_id": questionID,
		"actor_id":    actorID,
		"author_id":   question.AuthorID,
	})

	return nil
}

// DeleteAnswer removes an answer as a moderation action and notifies
// its author.
func (s *adminService) DeleteAnswer(ctx context.Context, answerID uint, actorID string) error {
	answer, err := s.repo.Answer().GetByID(ctx, nil, answerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to get answer: %w", err)
	}

	if err := s.repo.Answer().Delete(ctx, nil, answerID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	if answer.AuthorID != actorID {
		notification := &models.Notification{
			UserID:  answer.AuthorID,
			Title:   "Your answer was removed",
			Message: "A moderator removed one of your answers.",
		}
		if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
			s.logger.Warn("Failed to write delete notification", "answer_id", answerID, "error", err)
		}
	}

	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     "answer.deleted",
		TargetType: "answer",
		TargetID:   fmt.Sprint(answerID),
	}
	if err := s.repo.AuditLog().Create(ctx, nil, entry); err != nil {
		s.logger.Warn("Failed to write audit log entry", "action", entry.Action, "error", err)
	}

	s.logger.Info("Answer deleted by moderator", "answer_id", answerID, "actor_id", actorID)

	s.publishEvent(ctx, events.TypeAnswerDeleted, map[string]interface{}{
		"answer_id": answerID,
		"actor_id":  actorID,
		"author_id": answer.AuthorID,
	})

	return nil
}

// ===== DASHBOARD =====

func (s *adminService) GetStats(ctx context.Context) (*repositories.PlatformStats, error) {
	stats, err := s.repo.Stats().GetPlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return stats, nil
}

func (s *adminService) GetAuditLogs(ctx context.Context, limit, offset int) (*AuditLogListResponse, error) {
	entries, total, err := s.repo.AuditLog().List(ctx, nil, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}

	return &AuditLogListResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		Size:    len(entries),
	}, nil
}

func (s *adminService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.Event{Type: eventType, Data: data}); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}
