package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CampusQA-2025/qa-service/internal/cache"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

// UserPostgreSQL owns the user directory with a Redis read-through cache;
// directory lookups happen on every authenticated request.
type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// FindOrCreate looks up by email and inserts with defaults when absent.
// ON CONFLICT keeps concurrent first logins from creating duplicates.
func (u *UserPostgreSQL) FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	var existing models.User
	err := u.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	user.IsActive = true

	result := u.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Lost the race to a concurrent login with the same email.
		if err := u.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("failed to reload user after conflict: %w", err)
		}
		return &existing, false, nil
	}

	return user, true, nil
}

// GetByID retrieves a user, cache first.
func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := u.db.WithContext(ctx).First(&dbUser, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.NewNotFoundError("user", id)
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, cache first.
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", strings.ToLower(email))
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := u.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.NewNotFoundError("user", email)
			}
			return nil, fmt.Errorf("failed to get user by email: %w", err)
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update persists the record and drops stale cache entries.
func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID, user.Email)
	return nil
}

func (u *UserPostgreSQL) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	result := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("user", id)
	}

	u.invalidateByID(ctx, id)
	return nil
}

// ToggleActive flips the active flag and returns the new value.
func (u *UserPostgreSQL) ToggleActive(ctx context.Context, id string) (bool, error) {
	var user models.User
	err := u.db.WithContext(ctx).Select("id, email, is_active").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, repositories.NewNotFoundError("user", id)
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	newValue := !user.IsActive
	if err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", newValue).Error; err != nil {
		return false, fmt.Errorf("failed to toggle active flag: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID, user.Email)
	return newValue, nil
}

func (u *UserPostgreSQL) TouchLastLogin(ctx context.Context, id string) error {
	if err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error; err != nil {
		return fmt.Errorf("failed to stamp last login: %w", err)
	}

	u.invalidateByID(ctx, id)
	return nil
}

// List retrieves a paginated list of users with optional filters.
func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	query := u.db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Active != nil {
		query = query.Where("is_active = ?", *filters.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if err := query.
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// ExistsByEmail checks for a directory record, short cache on top.
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	cacheKey := fmt.Sprintf("email:%s", strings.ToLower(email))
	if cached, err := u.cacheManager.Exists.GetString(ctx, cacheKey); err == nil {
		return cached == "true", nil
	}

	var count int64
	if err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	exists := count > 0
	_ = u.cacheManager.Exists.SetString(ctx, cacheKey, fmt.Sprintf("%t", exists), cache.ExistsCacheConfig.TTL)

	return exists, nil
}

func (u *UserPostgreSQL) invalidateByID(ctx context.Context, id string) {
	var user models.User
	if err := u.db.WithContext(ctx).Select("id, email").First(&user, "id = ?", id).Error; err == nil {
		cache.InvalidateUserCache(ctx, u.cacheManager, user.ID, user.Email)
		return
	}
	cache.SafeDelete(ctx, u.cacheManager.User, fmt.Sprintf("id:%s", id))
}
