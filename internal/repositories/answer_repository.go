package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
)

// AnswerRepository is the content store for answers and their comments.
type AnswerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Answer, error)
	GetByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Answer, error)
	Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error

	// Delete permanently removes the answer with its comments and likes.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// DeleteByQuestion removes every answer of a question; used by the
	// question cascade.
	DeleteByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) error

	// AddLike records a like; repeated likes by the same user are no-ops.
	AddLike(ctx context.Context, tx *gorm.DB, answerID uint, userID string) (bool, error)

	SetAccepted(ctx context.Context, tx *gorm.DB, id uint, accepted bool) error
	SetVerified(ctx context.Context, tx *gorm.DB, id uint, verified bool) error

	// Comment sub-resources
	AddComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error
	GetComment(ctx context.Context, tx *gorm.DB, id uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, tx *gorm.DB, id uint) error
	AddCommentLike(ctx context.Context, tx *gorm.DB, commentID uint, userID string) (bool, error)
}
