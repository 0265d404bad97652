package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

type answerService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAnswerService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AnswerService {
	return &answerService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *answerService) Create(ctx context.Context, req *CreateAnswerRequest, authorID string) (*AnswerResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	question, err := s.repo.Question().GetByID(ctx, nil, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question.IsArchived {
		return nil, NewPermissionError(authorID, req.QuestionID, "question", "answer", "question is archived")
	}

	answer := &models.Answer{
		Content:    req.Content,
		QuestionID: req.QuestionID,
		AuthorID:   authorID,
	}

	if err := s.repo.Answer().Create(ctx, nil, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	s.logger.Info("Answer created", "answer_id", answer.ID, "question_id", req.QuestionID, "author_id", authorID)

	// Answering your own question does not generate a notification.
	if question.AuthorID != authorID {
		notification := &models.Notification{
			UserID:  question.AuthorID,
			Title:   "New answer on your question",
			Message: fmt.Sprintf("Your question %q received a new answer.", question.Title),
		}
		if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
			s.logger.Warn("Failed to write answer notification", "question_id", question.ID, "error", err)
		}
	}

	return s.buildAnswerResponse(ctx, answer, authorID), nil
}

func (s *answerService) GetByQuestion(ctx context.Context, questionID uint) ([]*AnswerResponse, error) {
	answers, err := s.repo.Answer().GetByQuestion(ctx, nil, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	responses := make([]*AnswerResponse, len(answers))
	for i, a := range answers {
		responses[i] = &AnswerResponse{Answer: a, LikeCount: len(a.Likes)}
	}
	return responses, nil
}

func (s *answerService) Update(ctx context.Context, id uint, req *UpdateAnswerRequest, userID string) (*AnswerResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	answer, err := s.repo.Answer().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	canEdit, err := s.canEditAnswer(ctx, answer, userID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, NewPermissionError(userID, id, "answer", "update", "not owner or insufficient permissions")
	}

	answer.Content = req.Content
	if err := s.repo.Answer().Update(ctx, nil, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}

	s.logger.Info("Answer updated", "answer_id", id, "user_id", userID)
	return s.buildAnswerResponse(ctx, answer, userID), nil
}

func (s *answerService) Delete(ctx context.Context, id uint, userID string) error {
	answer, err := s.repo.Answer().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to get answer: %w", err)
	}

	canDelete, err := s.canDeleteAnswer(ctx, answer, userID)
	if err != nil {
		return err
	}
	if !canDelete {
		return NewPermissionError(userID, id, "answer", "delete", "not owner or insufficient permissions")
	}

	if err := s.repo.Answer().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	s.logger.Info("Answer deleted", "answer_id", id, "user_id", userID)
	return nil
}

// Like records a like; repeated likes by the same user report false.
func (s *answerService) Like(ctx context.Context, id uint, userID string) (bool, error) {
	added, err := s.repo.Answer().AddLike(ctx, nil, id, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrAnswerNotFound
		}
		return false, fmt.Errorf("failed to like answer: %w", err)
	}
	return added, nil
}

// Accept marks the answer as accepted. Only the question author and
// moderators may accept.
func (s *answerService) Accept(ctx context.Context, id uint, userID string) error {
	answer, err := s.repo.Answer().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to get answer: %w", err)
	}

	question, err := s.repo.Question().GetByID(ctx, nil, answer.QuestionID)
	if err != nil {
		return fmt.Errorf("failed to get question: %w", err)
	}

	if question.AuthorID != userID {
		canModerate, err := s.canModerate(ctx, userID)
		if err != nil {
			return err
		}
		if !canModerate {
			return NewPermissionError(userID, id, "answer", "accept", "only the question author may accept")
		}
	}

	if err := s.repo.Answer().SetAccepted(ctx, nil, id, true); err != nil {
		return fmt.Errorf("failed to accept answer: %w", err)
	}

	// An accepted answer resolves the question.
	if err := s.repo.Question().SetResolved(ctx, nil, question.ID, true); err != nil {
		s.logger.Warn("Failed to mark question resolved", "question_id", question.ID, "error", err)
	}

	s.logger.Info("Answer accepted", "answer_id", id, "question_id", question.ID, "user_id", userID)

	if answer.AuthorID != userID {
		notification := &models.Notification{
			UserID:  answer.AuthorID,
			Title:   "Your answer was accepted",
			Message: fmt.Sprintf("Your answer on %q was accepted.", question.Title),
		}
		if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
			s.logger.Warn("Failed to write accept notification", "answer_id", id, "error", err)
		}
	}

	return nil
}

// Verify marks an answer as teacher-verified. Teachers and admins only.
func (s *answerService) Verify(ctx context.Context, id uint, verified bool, userID string) error {
	canModerate, err := s.canModerate(ctx, userID)
	if err != nil {
		return err
	}
	if !canModerate {
		return NewPermissionError(userID, id, "answer", "verify", "insufficient role permissions")
	}

	if err := s.repo.Answer().SetVerified(ctx, nil, id, verified); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to set verified: %w", err)
	}

	s.logger.Info("Answer verified state changed", "answer_id", id, "verified", verified, "user_id", userID)
	return nil
}

// ===== COMMENTS =====

func (s *answerService) AddComment(ctx context.Context, answerID uint, req *CreateCommentRequest, authorID string) (*models.Comment, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	answer, err := s.repo.Answer().GetByID(ctx, nil, answerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	comment := &models.Comment{
		AnswerID: answerID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.repo.Answer().AddComment(ctx, nil, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("Comment created", "comment_id", comment.ID, "answer_id", answerID, "author_id", authorID)

	if answer.AuthorID != authorID {
		notification := &models.Notification{
			UserID:  answer.AuthorID,
			Title:   "New comment on your answer",
			Message: "Your answer received a new comment.",
		}
		if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
			s.logger.Warn("Failed to write comment notification", "answer_id", answerID, "error", err)
		}
	}

	return comment, nil
}

func (s *answerService) DeleteComment(ctx context.Context, commentID uint, userID string) error {
	comment, err := s.repo.Answer().GetComment(ctx, nil, commentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	if comment.AuthorID != userID {
		canModerate, err := s.canModerate(ctx, userID)
		if err != nil {
			return err
		}
		if !canModerate {
			return NewPermissionError(userID, commentID, "comment", "delete", "not owner or insufficient permissions")
		}
	}

	if err := s.repo.Answer().DeleteComment(ctx, nil, commentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.logger.Info("Comment deleted", "comment_id", commentID, "user_id", userID)
	return nil
}

func (s *answerService) LikeComment(ctx context.Context, commentID uint, userID string) (bool, error) {
	added, err := s.repo.Answer().AddCommentLike(ctx, nil, commentID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrCommentNotFound
		}
		return false, fmt.Errorf("failed to like comment: %w", err)
	}
	return added, nil
}

// ===== HELPERS =====

func (s *answerService) canModerate(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.IsModerator(), nil
}

func (s *answerService) canEditAnswer(ctx context.Context, answer *models.Answer, userID string) (bool, error) {
	if answer.AuthorID == userID {
		return true, nil
	}
	return s.canModerate(ctx, userID)
}

func (s *answerService) canDeleteAnswer(ctx context.Context, answer *models.Answer, userID string) (bool, error) {
	if answer.AuthorID == userID {
		return true, nil
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Role == models.RoleAdmin, nil
}

func (s *answerService) buildAnswerResponse(ctx context.Context, answer *models.Answer, userID string) *AnswerResponse {
	resp := &AnswerResponse{
		Answer:    answer,
		LikeCount: len(answer.Likes),
	}

	if answer.AuthorID == userID {
		resp.CanEdit = true
		resp.CanDelete = true
		return resp
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return resp
	}
	resp.CanEdit = user.IsModerator()
	resp.CanDelete = user.Role == models.RoleAdmin
	return resp
}
