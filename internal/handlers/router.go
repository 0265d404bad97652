package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// HandlerManager wires the HTTP handlers to the service layer.
type HandlerManager struct {
	auth         *AuthHandler
	question     *QuestionHandler
	answer       *AnswerHandler
	admin        *AdminHandler
	notification *NotificationHandler

	authGate    *AuthGate
	services    services.ServiceManager
	logger      utils.Logger
	environment string
}

func NewHandlerManager(serviceManager services.ServiceManager, authGate *AuthGate, logger utils.Logger, environment string) *HandlerManager {
	return &HandlerManager{
		auth:         NewAuthHandler(serviceManager.Auth(), logger),
		question:     NewQuestionHandler(serviceManager.Question(), logger),
		answer:       NewAnswerHandler(serviceManager.Answer(), logger),
		admin:        NewAdminHandler(serviceManager.Admin(), serviceManager.Export(), serviceManager.Question(), logger),
		notification: NewNotificationHandler(serviceManager.Notification(), logger),
		authGate:     authGate,
		services:     serviceManager,
		logger:       logger,
		environment:  environment,
	}
}

// SetupRoutes registers every route on the router.
func (m *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", m.healthCheck)

	api := router.Group("/api")

	// Login flow; no token yet.
	authPublic := api.Group("/auth")
	{
		authPublic.GET("/google", m.auth.GoogleRedirect)
		authPublic.GET("/google/callback", m.auth.HandleCallback)
		authPublic.GET("/signin-url", m.auth.GetSigninURL)
		authPublic.POST("/callback", m.auth.HandleCallback)
		authPublic.GET("/check-email/:email", m.auth.CheckEmail)
	}

	authed := api.Group("")
	authed.Use(m.authGate.AuthMiddleware())
	{
		authed.POST("/auth/logout", m.auth.Logout)
		authed.GET("/auth/me", m.auth.GetProfile)
		authed.PUT("/auth/profile", m.auth.UpdateProfile)

		questions := authed.Group("/questions")
		{
			questions.POST("", m.question.Create)
			questions.GET("", m.question.List)
			questions.GET("/user/:id", m.question.GetByAuthor)
			questions.GET("/:id", m.question.GetByID)
			questions.PUT("/:id", m.question.Update)
			questions.DELETE("/:id", m.question.Delete)
			questions.POST("/:id/like", m.question.Like)
			questions.PATCH("/:id/resolve", m.question.Resolve)
		}

		answers := authed.Group("/answers")
		{
			answers.POST("", m.answer.Create)
			answers.GET("/question/:questionId", m.answer.GetByQuestion)
			answers.PUT("/:id", m.answer.Update)
			answers.DELETE("/:id", m.answer.Delete)
			answers.POST("/:id/like", m.answer.Like)
			answers.PATCH("/:id/accept", m.answer.Accept)
			answers.PATCH("/:id/verify", RequireRoleMiddleware(models.RoleTeacher), m.answer.Verify)
			answers.POST("/:id/comments", m.answer.AddComment)
			answers.DELETE("/:id/comments/:commentId", m.answer.DeleteComment)
			answers.POST("/:id/comments/:commentId/like", m.answer.LikeComment)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", m.notification.List)
			notifications.GET("/unread-count", m.notification.UnreadCount)
			notifications.PUT("/read-all", m.notification.MarkAllRead)
			notifications.PUT("/:id/read", m.notification.MarkRead)
			notifications.DELETE("/:id", m.notification.Delete)
		}

		// Moderation surface: teachers and admins.
		admin := authed.Group("/admin")
		admin.Use(RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			admin.GET("/stats", m.admin.GetStats)
			admin.GET("/users", m.admin.ListUsers)
			admin.PATCH("/users/:id/role", m.admin.UpdateUserRole)
			admin.PATCH("/users/:id/status", m.admin.ToggleUserStatus)
			admin.GET("/questions", m.admin.ListQuestions)
			admin.PATCH("/questions/:id/archive", m.admin.ArchiveQuestion)
			admin.DELETE("/questions/:id", m.admin.DeleteQuestion)
			admin.DELETE("/answers/:id", m.admin.DeleteAnswer)
			admin.GET("/logs", m.admin.GetAuditLogs)
			admin.GET("/export", m.admin.ExportReport)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Route not found"})
	})
}

// healthCheck always answers 200; a failing dependency downgrades the
// reported status instead of the response code.
func (m *HandlerManager) healthCheck(c *gin.Context) {
	status := "ok"
	if err := m.services.HealthCheck(c.Request.Context()); err != nil {
		m.logger.Error("Health check failed", "error", err)
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"service":     "qa-service",
		"environment": m.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
