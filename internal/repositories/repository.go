package repositories

import "context"

// Repository aggregates all per-domain repository interfaces.
type Repository interface {
	// User directory
	User() UserRepository

	// Content store
	Question() QuestionRepository
	Answer() AnswerRepository

	// Notification ledger
	Notification() NotificationRepository

	// Moderation audit trail
	AuditLog() AuditLogRepository

	// Admin dashboard aggregates
	Stats() StatsRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
