package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type CreateAnswerRequest = validator.AnswerCreateRequest
type UpdateAnswerRequest = validator.AnswerUpdateRequest
type CreateCommentRequest = validator.CommentCreateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type UpdateRoleRequest = validator.UpdateRoleRequest
type CreateNotificationRequest = validator.NotificationCreateRequest

type QuestionResponse struct {
	*models.Question
	LikeCount int  `json:"like_count"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

type AnswerResponse struct {
	*models.Answer
	LikeCount int  `json:"like_count"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
	IsNew bool         `json:"is_new"`
}

type EmailCheckResponse struct {
	Email  string `json:"email"`
	Exists bool   `json:"exists"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

type AuditLogListResponse struct {
	Entries []*models.AuditLog `json:"entries"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Size    int                `json:"size"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// SigninURL builds the external provider's login redirect target.
	SigninURL(state string) string

	// HandleCallback exchanges the provider code for a verified identity,
	// finds or creates the directory record and issues a session token.
	HandleCallback(ctx context.Context, code, state string) (*LoginResponse, error)

	Logout(ctx context.Context, userID string) error

	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error)

	CheckEmail(ctx context.Context, email string) (*EmailCheckResponse, error)
}

type QuestionService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateQuestionRequest, authorID string) (*QuestionResponse, error)
	GetByID(ctx context.Context, id uint, userID string) (*QuestionResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// List and search operations
	List(ctx context.Context, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error)
	GetByAuthor(ctx context.Context, authorID string, filters repositories.QuestionFilters, requesterID string) (*QuestionListResponse, error)

	// Engagement
	Like(ctx context.Context, id uint, userID string) (bool, error)
	Resolve(ctx context.Context, id uint, resolved bool, userID string) error

	// Permission checks
	CanEdit(ctx context.Context, questionID uint, userID string) (bool, error)
	CanDelete(ctx context.Context, questionID uint, userID string) (bool, error)
}

type AnswerService interface {
	Create(ctx context.Context, req *CreateAnswerRequest, authorID string) (*AnswerResponse, error)
	GetByQuestion(ctx context.Context, questionID uint) ([]*AnswerResponse, error)
	Update(ctx context.Context, id uint, req *UpdateAnswerRequest, userID string) (*AnswerResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// Engagement
	Like(ctx context.Context, id uint, userID string) (bool, error)

	// Accept marks the answer as the question author's accepted one.
	Accept(ctx context.Context, id uint, userID string) error

	// Verify marks the answer as teacher-verified.
	Verify(ctx context.Context, id uint, verified bool, userID string) error

	// Comments
	AddComment(ctx context.Context, answerID uint, req *CreateCommentRequest, authorID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID uint, userID string) error
	LikeComment(ctx context.Context, commentID uint, userID string) (bool, error)
}

type AdminService interface {
	// User moderation
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	UpdateUserRole(ctx context.Context, targetID string, req *UpdateRoleRequest, actorID string) (*models.User, error)
	ToggleUserStatus(ctx context.Context, targetID string, actorID string) (*models.User, error)

	// Content moderation
	ArchiveQuestion(ctx context.Context, questionID uint, archived bool, actorID string) error
	DeleteQuestion(ctx context.Context, questionID uint, actorID string) error
	DeleteAnswer(ctx context.Context, answerID uint, actorID string) error

	// Dashboard
	GetStats(ctx context.Context) (*repositories.PlatformStats, error)
	GetAuditLogs(ctx context.Context, limit, offset int) (*AuditLogListResponse, error)
}

type NotificationService interface {
	// ListForUser returns the recipient's ledger, newest first. Admins may
	// read any user's ledger; everyone else only their own.
	ListForUser(ctx context.Context, targetID string, requesterID string, limit int) (*NotificationListResponse, error)

	Create(ctx context.Context, req *CreateNotificationRequest) (*models.Notification, error)

	MarkRead(ctx context.Context, id uint, requesterID string) error
	MarkAllRead(ctx context.Context, requesterID string) error
	Delete(ctx context.Context, id uint, requesterID string) error
}

type ExportService interface {
	// ExportPlatformReport builds an xlsx workbook with the user directory
	// and question statistics for the admin download endpoint.
	ExportPlatformReport(ctx context.Context) (*excelize.File, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Auth() AuthService
	Question() QuestionService
	Answer() AnswerService
	Admin() AdminService
	Notification() NotificationService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
