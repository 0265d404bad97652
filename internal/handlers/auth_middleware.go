package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/auth"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// AuthGate authenticates requests with application bearer tokens and
// loads the directory record for downstream handlers.
type AuthGate struct {
	tokens *auth.TokenService
	users  repositories.UserRepository
	logger utils.Logger
}

func NewAuthGate(tokens *auth.TokenService, users repositories.UserRepository, logger utils.Logger) *AuthGate {
	return &AuthGate{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// AuthMiddleware validates the Authorization header, verifies the token
// and resolves the current user. The role set on the context comes from
// the directory record, not the token, so role changes apply on the
// next request without re-login.
func (g *AuthGate) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := g.tokens.Verify(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token expired"
			}
			g.logger.Warn("Token verification failed", "error", err, "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
			c.Abort()
			return
		}

		user, err := g.users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			g.logger.Warn("Token subject not found in directory", "user_id", claims.Subject)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Account is suspended"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Set("user_email", user.Email)

		c.Next()
	}
}

// RequireRoleMiddleware restricts access to the given roles. Admins
// pass every role check.
func RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetUserRoleFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			c.Abort()
			return
		}

		if role == models.RoleAdmin {
			c.Next()
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		c.Abort()
	}
}

// GetUserFromContext retrieves the authenticated user from the context.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetUserIDFromContext retrieves the authenticated user's id.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

// GetUserRoleFromContext retrieves the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get("user_role")
	if !exists {
		return "", false
	}
	role, ok := value.(models.UserRole)
	return role, ok
}
