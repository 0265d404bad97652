package validator

import (
	"github.com/CampusQA-2025/qa-service/internal/models"
)

// QuestionCreateRequest is the payload for posting a new question.
type QuestionCreateRequest struct {
	Title    string                  `json:"title" validate:"required,min=5,max=200"`
	Content  string                  `json:"content" validate:"required,min=10"`
	Category models.QuestionCategory `json:"category" validate:"required,question_category"`
	Priority models.QuestionPriority `json:"priority" validate:"omitempty,question_priority"`
	Tags     []string                `json:"tags" validate:"omitempty,max=5,dive,min=1,max=30"`
}

// QuestionUpdateRequest is the payload for editing an existing question.
// Nil fields are left untouched.
type QuestionUpdateRequest struct {
	Title    *string                  `json:"title" validate:"omitempty,min=5,max=200"`
	Content  *string                  `json:"content" validate:"omitempty,min=10"`
	Category *models.QuestionCategory `json:"category" validate:"omitempty,question_category"`
	Priority *models.QuestionPriority `json:"priority" validate:"omitempty,question_priority"`
	Tags     []string                 `json:"tags" validate:"omitempty,max=5,dive,min=1,max=30"`
}

// AnswerCreateRequest is the payload for answering a question.
type AnswerCreateRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=10"`
}

// AnswerUpdateRequest is the payload for editing an answer.
type AnswerUpdateRequest struct {
	Content string `json:"content" validate:"required,min=10"`
}

// CommentCreateRequest is the payload for commenting on an answer.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// ProfileUpdateRequest is the payload for self-service profile edits.
type ProfileUpdateRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	StudentID  *string `json:"student_id" validate:"omitempty,max=50"`
	AvatarURL  *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// UpdateRoleRequest is the admin payload for changing a user's role.
type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

// NotificationCreateRequest is the internal payload for ledger writes.
type NotificationCreateRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=1000"`
}
