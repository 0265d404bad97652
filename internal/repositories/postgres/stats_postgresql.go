package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/cache"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

type StatsPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStatsPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StatsRepository {
	return &StatsPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// GetPlatformStats computes the dashboard aggregates. The result is cached
// briefly since the counts only feed an admin overview.
func (s *StatsPostgreSQL) GetPlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	var stats repositories.PlatformStats

	err := s.cacheManager.Stats.CacheOrExecute(ctx, "platform:overview", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computePlatformStats(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *StatsPostgreSQL) computePlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	stats := &repositories.PlatformStats{
		UsersByRole: make(map[string]int64),
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	var roleCounts []struct {
		Role  string
		Count int64
	}
	if err := db.Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&roleCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, rc := range roleCounts {
		stats.UsersByRole[rc.Role] = rc.Count
	}

	if err := db.Model(&models.Question{}).Count(&stats.TotalQuestions).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if err := db.Model(&models.Question{}).Where("is_resolved = ?", true).Count(&stats.ResolvedQuestions).Error; err != nil {
		return nil, fmt.Errorf("failed to count resolved questions: %w", err)
	}
	stats.UnresolvedQuestions = stats.TotalQuestions - stats.ResolvedQuestions
	if err := db.Model(&models.Question{}).Where("is_archived = ?", true).Count(&stats.ArchivedQuestions).Error; err != nil {
		return nil, fmt.Errorf("failed to count archived questions: %w", err)
	}

	if err := db.Model(&models.Answer{}).Count(&stats.TotalAnswers).Error; err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}
	if err := db.Model(&models.Answer{}).Where("is_verified = ?", true).Count(&stats.VerifiedAnswers).Error; err != nil {
		return nil, fmt.Errorf("failed to count verified answers: %w", err)
	}

	return stats, nil
}
