package repositories

import (
	"context"

	"github.com/CampusQA-2025/qa-service/internal/models"
)

// UserFilters defines filters for user directory queries.
type UserFilters struct {
	Query  string           // Search query for name or email
	Role   *models.UserRole // Filter by role
	Active *bool            // Filter by active flag
	Limit  int              // Page size
	Offset int              // Offset for pagination
}

// UserRepository is the user directory: the service owns these records,
// keyed by the identity provider's user id.
type UserRepository interface {
	// FindOrCreate looks a user up by email and creates the record with
	// defaults (role student, active) when absent. Idempotent per email.
	FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists profile field changes.
	Update(ctx context.Context, user *models.User) error

	// UpdateRole sets the role; callers validate it against the enum.
	UpdateRole(ctx context.Context, id string, role models.UserRole) error

	// ToggleActive flips the active flag and returns the new value.
	ToggleActive(ctx context.Context, id string) (bool, error)

	// TouchLastLogin stamps last_login_at.
	TouchLastLogin(ctx context.Context, id string) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
