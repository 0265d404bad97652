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

type AnswerPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAnswerPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AnswerRepository {
	return &AnswerPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AnswerPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create creates a new answer on a question
func (a *AnswerPostgreSQL) Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}

	cache.InvalidateAnswerCache(ctx, a.cacheManager, answer.ID, answer.QuestionID)
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Stats, "platform:*")

	return nil
}

// GetByID retrieves an answer by ID with caching
func (a *AnswerPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Answer, error) {
	db := a.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var answer models.Answer

	err := a.cacheManager.Answer.CacheOrExecute(ctx, cacheKey, &answer, cache.AnswerCacheConfig.TTL, func() (interface{}, error) {
		var dbAnswer models.Answer
		if err := db.WithContext(ctx).First(&dbAnswer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.NewNotFoundError("answer", fmt.Sprint(id))
			}
			return nil, fmt.Errorf("failed to get answer: %w", err)
		}
		return &dbAnswer, nil
	})
	if err != nil {
		return nil, err
	}

	return &answer, nil
}

// GetByQuestion lists the answers of a question, oldest first
func (a *AnswerPostgreSQL) GetByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Answer, error) {
	db := a.getDB(tx)
	var answers []*models.Answer
	if err := db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, role, avatar_url")
		}).
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Likes").
		Order("created_at ASC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// Update updates an answer
func (a *AnswerPostgreSQL) Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Save(answer).Error; err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}

	cache.InvalidateAnswerCache(ctx, a.cacheManager, answer.ID, answer.QuestionID)
	return nil
}

// Delete removes an answer and its comments and like rows
func (a *AnswerPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := a.getDB(tx)

	var answer models.Answer
	if err := db.WithContext(ctx).Select("id, question_id").First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.NewNotFoundError("answer", fmt.Sprint(id))
		}
		return fmt.Errorf("failed to get answer before delete: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM comment_likes WHERE comment_id IN (
				SELECT id FROM comments WHERE answer_id = ?)`, id).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Where("answer_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("answer_id = ?", id).Delete(&models.AnswerLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete answer likes: %w", err)
		}
		if err := tx.Delete(&models.Answer{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateAnswerCache(ctx, a.cacheManager, id, answer.QuestionID)
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Stats, "platform:*")

	return nil
}

// DeleteByQuestion removes every answer under a question. Used by the
// question cascade when the caller already runs inside a transaction.
func (a *AnswerPostgreSQL) DeleteByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) error {
	db := a.getDB(tx)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM comment_likes WHERE comment_id IN (
				SELECT id FROM comments WHERE answer_id IN (
					SELECT id FROM answers WHERE question_id = ?))`, questionID).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Exec(`DELETE FROM comments WHERE answer_id IN (
				SELECT id FROM answers WHERE question_id = ?)`, questionID).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Exec(`DELETE FROM answer_likes WHERE answer_id IN (
				SELECT id FROM answers WHERE question_id = ?)`, questionID).Error; err != nil {
			return fmt.Errorf("failed to delete answer likes: %w", err)
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.SafeInvalidatePattern(ctx, a.cacheManager.Answer, fmt.Sprintf("question:%d:*", questionID))
	return nil
}

// AddLike inserts a like row, idempotent on repeated calls
func (a *AnswerPostgreSQL) AddLike(ctx context.Context, tx *gorm.DB, answerID uint, userID string) (bool, error) {
	db := a.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).Model(&models.Answer{}).Where("id = ?", answerID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check answer: %w", err)
	}
	if count == 0 {
		return false, repositories.NewNotFoundError("answer", fmt.Sprint(answerID))
	}

	like := models.AnswerLike{AnswerID: answerID, UserID: userID}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add like: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.SafeDelete(ctx, a.cacheManager.Answer, fmt.Sprintf("id:%d", answerID))
	}

	return result.RowsAffected > 0, nil
}

// SetAccepted flips the accepted flag on an answer
func (a *AnswerPostgreSQL) SetAccepted(ctx context.Context, tx *gorm.DB, id uint, accepted bool) error {
	return a.setFlag(ctx, tx, id, "is_accepted", accepted)
}

// SetVerified flips the verified flag on an answer
func (a *AnswerPostgreSQL) SetVerified(ctx context.Context, tx *gorm.DB, id uint, verified bool) error {
	return a.setFlag(ctx, tx, id, "is_verified", verified)
}

func (a *AnswerPostgreSQL) setFlag(ctx context.Context, tx *gorm.DB, id uint, column string, value bool) error {
	db := a.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Answer{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("answer", fmt.Sprint(id))
	}

	cache.SafeDelete(ctx, a.cacheManager.Answer, fmt.Sprintf("id:%d", id))
	return nil
}

// AddComment creates a comment on an answer
func (a *AnswerPostgreSQL) AddComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	cache.SafeDelete(ctx, a.cacheManager.Answer, fmt.Sprintf("id:%d", comment.AnswerID))
	return nil
}

// GetComment retrieves a single comment
func (a *AnswerPostgreSQL) GetComment(ctx context.Context, tx *gorm.DB, id uint) (*models.Comment, error) {
	db := a.getDB(tx)
	var comment models.Comment
	if err := db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("comment", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// AddCommentLike inserts a comment like row, idempotent on repeated calls
func (a *AnswerPostgreSQL) AddCommentLike(ctx context.Context, tx *gorm.DB, commentID uint, userID string) (bool, error) {
	db := a.getDB(tx)

	var comment models.Comment
	if err := db.WithContext(ctx).Select("id, answer_id").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, repositories.NewNotFoundError("comment", fmt.Sprint(commentID))
		}
		return false, fmt.Errorf("failed to check comment: %w", err)
	}

	like := models.CommentLike{CommentID: commentID, UserID: userID}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add comment like: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.SafeDelete(ctx, a.cacheManager.Answer, fmt.Sprintf("id:%d", comment.AnswerID))
	}

	return result.RowsAffected > 0, nil
}

// DeleteComment removes a comment and its like rows
func (a *AnswerPostgreSQL) DeleteComment(ctx context.Context, tx *gorm.DB, id uint) error {
	db := a.getDB(tx)

	var comment models.Comment
	if err := db.WithContext(ctx).Select("id, answer_id").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.NewNotFoundError("comment", fmt.Sprint(id))
		}
		return fmt.Errorf("failed to get comment before delete: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.SafeDelete(ctx, a.cacheManager.Answer, fmt.Sprintf("id:%d", comment.AnswerID))
	return nil
}
