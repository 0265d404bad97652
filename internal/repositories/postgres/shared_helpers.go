package postgres

import (
	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

// SharedHelpers contains common database query building
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyQuestionFilters applies common filters to question queries
func (h *SharedHelpers) ApplyQuestionFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.IsResolved != nil {
		query = query.Where("is_resolved = ?", *filters.IsResolved)
	}
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}
	if !filters.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}
	return query
}

// ApplyQuestionSort maps the sort key to an ORDER BY clause.
func (h *SharedHelpers) ApplyQuestionSort(query *gorm.DB, sortBy string) *gorm.DB {
	switch sortBy {
	case "oldest":
		return query.Order("created_at ASC")
	case "views":
		return query.Order("views DESC, created_at DESC")
	case "likes":
		return query.Order("(SELECT COUNT(*) FROM question_likes WHERE question_likes.question_id = questions.id) DESC, created_at DESC")
	default:
		return query.Order("created_at DESC")
	}
}

// NormalizePagination clamps limit/offset to sane bounds.
func NormalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
