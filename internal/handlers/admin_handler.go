package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// AdminHandler serves the moderation and dashboard routes. All routes
// sit behind the admin role gate.
type AdminHandler struct {
	BaseHandler
	adminService    services.AdminService
	exportService   services.ExportService
	questionService services.QuestionService
}

func NewAdminHandler(adminService services.AdminService, exportService services.ExportService, questionService services.QuestionService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:     NewBaseHandler(logger),
		adminService:    adminService,
		exportService:   exportService,
		questionService: questionService,
	}
}

// ListUsers returns the filtered user directory.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	_, _, limit, offset := parsePagination(c)

	filters := repositories.UserFilters{
		Query:  c.Query("search"),
		Active: parseBoolQuery(c, "active"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		filters.Role = &role
	}

	result, err := h.adminService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateUserRole changes a user's role and notifies them.
// PATCH /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	targetID := c.Param("id")
	actorID, _ := GetUserIDFromContext(c)

	var req services.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.adminService.UpdateUserRole(c.Request.Context(), targetID, &req, actorID)
	if err != nil {
		h.RespondError(c, err, "Failed to update user role")
		return
	}

	h.LogRequest(c, "User role updated", "target_id", targetID, "role", req.Role, "actor_id", actorID)
	c.JSON(http.StatusOK, user)
}

// ToggleUserStatus flips a user's active flag.
// PATCH /api/admin/users/:id/status
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	targetID := c.Param("id")
	actorID, _ := GetUserIDFromContext(c)

	user, err := h.adminService.ToggleUserStatus(c.Request.Context(), targetID, actorID)
	if err != nil {
		h.RespondError(c, err, "Failed to update user status")
		return
	}

	h.LogRequest(c, "User status toggled", "target_id", targetID, "active", user.IsActive, "actor_id", actorID)
	c.JSON(http.StatusOK, user)
}

// ListQuestions returns the moderation view of the question store,
// archived questions included.
// GET /api/admin/questions
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)
	_, _, limit, offset := parsePagination(c)

	filters := repositories.QuestionFilters{
		Search:          c.Query("search"),
		SortBy:          c.DefaultQuery("sort", "newest"),
		IncludeArchived: true,
		Limit:           limit,
		Offset:          offset,
	}
	if raw := c.Query("category"); raw != "" {
		category := models.QuestionCategory(raw)
		filters.Category = &category
	}
	filters.IsResolved = parseBoolQuery(c, "resolved")

	result, err := h.questionService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to list questions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ArchiveQuestion hides or restores a question.
// PATCH /api/admin/questions/:id/archive
func (h *AdminHandler) ArchiveQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := GetUserIDFromContext(c)

	archived := parseFlagBody(c, "archived")

	if err := h.adminService.ArchiveQuestion(c.Request.Context(), id, archived, actorID); err != nil {
		h.RespondError(c, err, "Failed to update archive status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": archived})
}

// DeleteQuestion removes a question on behalf of moderation.
// DELETE /api/admin/questions/:id
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := GetUserIDFromContext(c)

	if err := h.adminService.DeleteQuestion(c.Request.Context(), id, actorID); err != nil {
		h.RespondError(c, err, "Failed to delete question")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// DeleteAnswer removes an answer on behalf of moderation.
// DELETE /api/admin/answers/:id
func (h *AdminHandler) DeleteAnswer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := GetUserIDFromContext(c)

	if err := h.adminService.DeleteAnswer(c.Request.Context(), id, actorID); err != nil {
		h.RespondError(c, err, "Failed to delete answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// GetStats returns the platform dashboard counters.
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		h.RespondError(c, err, "Failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAuditLogs returns the moderation audit trail, newest first.
// GET /api/admin/logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	_, _, limit, offset := parsePagination(c)

	result, err := h.adminService.GetAuditLogs(c.Request.Context(), limit, offset)
	if err != nil {
		h.RespondError(c, err, "Failed to load audit logs")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportReport streams the platform report workbook.
// GET /api/admin/export
func (h *AdminHandler) ExportReport(c *gin.Context) {
	file, err := h.exportService.ExportPlatformReport(c.Request.Context())
	if err != nil {
		h.RespondError(c, err, "Failed to build export")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("platform-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := file.Write(c.Writer); err != nil {
		h.LogError(c, err, "Failed to stream export")
	}
}
