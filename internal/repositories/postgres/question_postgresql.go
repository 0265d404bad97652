package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CampusQA-2025/qa-service/internal/cache"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// Create creates a new question and invalidates list caches
func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, q.cacheManager.Question, fmt.Sprintf("author:%s:*", question.AuthorID))
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Question, "list:*")
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Stats, "platform:*")

	return nil
}

// GetByID retrieves a question by ID with caching
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var question models.Question

	err := q.cacheManager.Question.CacheOrExecute(ctx, cacheKey, &question, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestion models.Question
		if err := db.WithContext(ctx).First(&dbQuestion, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.NewNotFoundError("question", fmt.Sprint(id))
			}
			return nil, fmt.Errorf("failed to get question: %w", err)
		}
		return &dbQuestion, nil
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

// GetByIDWithDetails retrieves a question with author, likes and answers
func (q *QuestionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	var question models.Question
	if err := db.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, role, avatar_url")
		}).
		Preload("Likes").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC")
		}).
		Preload("Answers.Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, role, avatar_url")
		}).
		Preload("Answers.Likes").
		Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Answers.Comments.Likes").
		First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("question", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to get question with details: %w", err)
	}
	return &question, nil
}

// Update updates a question
func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	cache.InvalidateQuestionCache(ctx, q.cacheManager, question.ID, question.AuthorID)
	return nil
}

// Delete permanently removes a question and cascades to dependents.
// Like rows, comments and answers go in one transaction so no orphans
// survive a partial failure.
func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)

	var question models.Question
	if err := db.WithContext(ctx).Select("id, author_id").First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.NewNotFoundError("question", fmt.Sprint(id))
		}
		return fmt.Errorf("failed to get question before delete: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM comment_likes WHERE comment_id IN (
				SELECT id FROM comments WHERE answer_id IN (
					SELECT id FROM answers WHERE question_id = ?))`, id).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Exec(`DELETE FROM comments WHERE answer_id IN (
				SELECT id FROM answers WHERE question_id = ?)`, id).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Exec(`DELETE FROM answer_likes WHERE answer_id IN (
				SELECT id FROM answers WHERE question_id = ?)`, id).Error; err != nil {
			return fmt.Errorf("failed to delete answer likes: %w", err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete question likes: %w", err)
		}
		if err := tx.Delete(&models.Question{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateQuestionCache(ctx, q.cacheManager, id, question.AuthorID)
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Answer, fmt.Sprintf("question:%d:*", id))

	return nil
}

// List retrieves questions matching the filters with a total count
func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	db := q.getDB(tx)
	filters.Limit, filters.Offset = NormalizePagination(filters.Limit, filters.Offset)

	query := q.helpers.ApplyQuestionFilters(db.WithContext(ctx).Model(&models.Question{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	var questions []*models.Question
	if err := q.helpers.ApplyQuestionSort(query, filters.SortBy).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, role, avatar_url")
		}).
		Preload("Likes").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	return questions, total, nil
}

// GetByAuthor lists one user's questions; archived visibility follows the
// caller-supplied filters
func (q *QuestionPostgreSQL) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.AuthorID = &authorID
	return q.List(ctx, tx, filters)
}

// IncrementViews bumps the counter without touching updated_at
func (q *QuestionPostgreSQL) IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, fmt.Sprintf("id:%d", id))
	return nil
}

// AddLike inserts a like row; the composite primary key plus ON CONFLICT
// DO NOTHING makes repeated likes by the same user no-ops.
func (q *QuestionPostgreSQL) AddLike(ctx context.Context, tx *gorm.DB, questionID uint, userID string) (bool, error) {
	db := q.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", questionID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check question: %w", err)
	}
	if count == 0 {
		return false, repositories.NewNotFoundError("question", fmt.Sprint(questionID))
	}

	like := models.QuestionLike{QuestionID: questionID, UserID: userID}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add like: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.SafeDelete(ctx, q.cacheManager.Question, fmt.Sprintf("id:%d", questionID))
	}

	return result.RowsAffected > 0, nil
}

// SetResolved flips the resolved flag; archived state is untouched
func (q *QuestionPostgreSQL) SetResolved(ctx context.Context, tx *gorm.DB, id uint, resolved bool) error {
	return q.setFlag(ctx, tx, id, "is_resolved", resolved)
}

// SetArchived flips the archived flag; resolved state is untouched
func (q *QuestionPostgreSQL) SetArchived(ctx context.Context, tx *gorm.DB, id uint, archived bool) error {
	return q.setFlag(ctx, tx, id, "is_archived", archived)
}

func (q *QuestionPostgreSQL) setFlag(ctx context.Context, tx *gorm.DB, id uint, column string, value bool) error {
	db := q.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, fmt.Sprintf("id:%d", id))
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Question, "list:*")
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Stats, "platform:*")

	return nil
}
