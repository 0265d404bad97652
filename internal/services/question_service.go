package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, authorID string) (*QuestionResponse, error) {
	s.logger.Info("Creating question", "author_id", authorID, "category", req.Category)

	if errors := s.validator.GetBusinessValidator().ValidateQuestionCreate(req); len(errors) > 0 {
		return nil, errors
	}

	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	if req.Tags == nil {
		req.Tags = []string{}
	}
	tagsBytes, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	question := &models.Question{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Priority: req.Priority,
		Tags:     datatypes.JSON(tagsBytes),
		AuthorID: authorID,
	}

	if err = s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created successfully", "question_id", question.ID)

	return s.buildQuestionResponse(ctx, question, authorID), nil
}

// GetByID returns the question with answers and comments preloaded and
// counts the read as a view.
func (s *questionService) GetByID(ctx context.Context, id uint, userID string) (*QuestionResponse, error) {
	question, err := s.repo.Question().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	// Archived questions stay readable by their author and moderators only.
	if question.IsArchived {
		canSee, err := s.canModerate(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !canSee && question.AuthorID != userID {
			return nil, ErrQuestionNotFound
		}
	}

	if err := s.repo.Question().IncrementViews(ctx, nil, id); err != nil {
		s.logger.Warn("Failed to increment views", "question_id", id, "error", err)
	} else {
		question.Views++
	}

	return s.buildQuestionResponse(ctx, question, userID), nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	canEdit, err := s.CanEdit(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, NewPermissionError(userID, id, "question", "update", "not owner or insufficient permissions")
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Content != nil {
		question.Content = *req.Content
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.Priority != nil {
		question.Priority = *req.Priority
	}
	if req.Tags != nil {
		tagsBytes, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		question.Tags = datatypes.JSON(tagsBytes)
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", id, "user_id", userID)

	return s.buildQuestionResponse(ctx, question, userID), nil
}

func (s *questionService) Delete(ctx context.Context, id uint, userID string) error {
	canDelete, err := s.CanDelete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !canDelete {
		return NewPermissionError(userID, id, "question", "delete", "not owner or insufficient permissions")
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", id, "user_id", userID)
	return nil
}

// ===== LIST OPERATIONS =====

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error) {
	// Only moderators may browse archived questions.
	if filters.IncludeArchived {
		canSee, err := s.canModerate(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !canSee {
			filters.IncludeArchived = false
		}
	}

	questions, total, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	return s.buildListResponse(ctx, questions, total, filters, userID), nil
}

func (s *questionService) GetByAuthor(ctx context.Context, authorID string, filters repositories.QuestionFilters, requesterID string) (*QuestionListResponse, error) {
	// Archived questions show up only for the author's own page and for
	// moderators, matching GetByID.
	includeArchived := authorID == requesterID
	if !includeArchived {
		canSee, err := s.canModerate(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		includeArchived = canSee
	}
	filters.IncludeArchived = includeArchived

	questions, total, err := s.repo.Question().GetByAuthor(ctx, nil, authorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions by author: %w", err)
	}

	return s.buildListResponse(ctx, questions, total, filters, requesterID), nil
}

// ===== ENGAGEMENT =====

// Like records a like; liking twice is a no-op and the second call
// reports false without erroring.
func (s *questionService) Like(ctx context.Context, id uint, userID string) (bool, error) {
	added, err := s.repo.Question().AddLike(ctx, nil, id, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuestionNotFound
		}
		return false, fmt.Errorf("failed to like question: %w", err)
	}

	if added {
		s.logger.Info("Question liked", "question_id", id, "user_id", userID)
	}
	return added, nil
}

// Resolve toggles the resolved flag. Allowed for the question author and
// moderators.
func (s *questionService) Resolve(ctx context.Context, id uint, resolved bool, userID string) error {
	canEdit, err := s.CanEdit(ctx, id, userID)
	if err != nil {
		return err
	}
	if !canEdit {
		return NewPermissionError(userID, id, "question", "resolve", "not owner or insufficient permissions")
	}

	if err := s.repo.Question().SetResolved(ctx, nil, id, resolved); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to set resolved: %w", err)
	}

	s.logger.Info("Question resolved state changed", "question_id", id, "resolved", resolved, "user_id", userID)
	return nil
}

// ===== PERMISSION CHECKS =====

// CanEdit allows the author and moderators (teacher, admin).
func (s *questionService) CanEdit(ctx context.Context, questionID uint, userID string) (bool, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuestionNotFound
		}
		return false, fmt.Errorf("failed to get question: %w", err)
	}

	if question.AuthorID == userID {
		return true, nil
	}
	return s.canModerate(ctx, userID)
}

// CanDelete allows the author and admins only.
func (s *questionService) CanDelete(ctx context.Context, questionID uint, userID string) (bool, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuestionNotFound
		}
		return false, fmt.Errorf("failed to get question: %w", err)
	}

	if question.AuthorID == userID {
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

// ===== HELPERS =====

func (s *questionService) canModerate(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.IsModerator(), nil
}

func (s *questionService) buildQuestionResponse(ctx context.Context, question *models.Question, userID string) *QuestionResponse {
	resp := &QuestionResponse{
		Question:  question,
		LikeCount: len(question.Likes),
	}

	if question.AuthorID == userID {
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

func (s *questionService) buildListResponse(ctx context.Context, questions []*models.Question, total int64, filters repositories.QuestionFilters, userID string) *QuestionListResponse {
	responses := make([]*QuestionResponse, len(questions))
	for i, q := range questions {
		responses[i] = s.buildQuestionResponse(ctx, q, userID)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &QuestionListResponse{
		Questions: responses,
		Total:     total,
		Page:      page,
		Size:      len(responses),
	}
}
