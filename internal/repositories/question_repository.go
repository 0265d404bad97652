package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
)

// QuestionFilters defines filters for question queries.
type QuestionFilters struct {
	Category   *models.QuestionCategory
	Priority   *models.QuestionPriority
	IsResolved *bool
	AuthorID   *string
	Search     string // Matches title or content

	// Archived questions are excluded unless explicitly requested.
	IncludeArchived bool

	Limit  int
	Offset int
	SortBy string // "newest" (default), "oldest", "views", "likes"
}

// QuestionRepository is the content store for questions.
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)

	// GetByIDWithDetails preloads author, likes and answers with their
	// comments.
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)

	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error

	// Delete permanently removes the question and cascades to its
	// answers, comments and like rows in one transaction.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters QuestionFilters) ([]*models.Question, int64, error)

	// IncrementViews bumps the view counter without touching updated_at.
	IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error

	// AddLike records a like; repeated likes by the same user are no-ops.
	// Returns whether a new like row was written.
	AddLike(ctx context.Context, tx *gorm.DB, questionID uint, userID string) (bool, error)

	SetResolved(ctx context.Context, tx *gorm.DB, id uint, resolved bool) error
	SetArchived(ctx context.Context, tx *gorm.DB, id uint, archived bool) error
}
