package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateQuestionCache invalidates all question-related caches
func InvalidateQuestionCache(ctx context.Context, cm *CacheManager, questionID uint, authorID string) {
	SafeDelete(ctx, cm.Question, fmt.Sprintf("id:%d", questionID))
	SafeInvalidatePattern(ctx, cm.Question, fmt.Sprintf("author:%s:*", authorID))
	SafeInvalidatePattern(ctx, cm.Question, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "platform:*")
}

// InvalidateAnswerCache invalidates answer caches plus the question they
// belong to (answer counts are shown on questions).
func InvalidateAnswerCache(ctx context.Context, cm *CacheManager, answerID, questionID uint) {
	SafeDelete(ctx, cm.Answer, fmt.Sprintf("id:%d", answerID))
	SafeInvalidatePattern(ctx, cm.Answer, fmt.Sprintf("question:%d:*", questionID))
	SafeDelete(ctx, cm.Question, fmt.Sprintf("id:%d", questionID))
	SafeInvalidatePattern(ctx, cm.Stats, "platform:*")
}

// InvalidateUserCache drops the directory cache entries for one user.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID, email string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%s", userID), fmt.Sprintf("email:%s", email))
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("*%s*", email))
}
