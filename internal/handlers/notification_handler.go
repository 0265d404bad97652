package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// NotificationHandler serves the per-user notification ledger.
type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// List returns the caller's notifications, newest first. Admins may
// pass ?user_id= to read another user's ledger.
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	requesterID, _ := GetUserIDFromContext(c)

	targetID := c.Query("user_id")
	if targetID == "" {
		targetID = requesterID
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.notificationService.ListForUser(c.Request.Context(), targetID, requesterID, limit)
	if err != nil {
		h.RespondError(c, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnreadCount returns the caller's unread notification count.
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	requesterID, _ := GetUserIDFromContext(c)

	result, err := h.notificationService.ListForUser(c.Request.Context(), requesterID, requesterID, 1)
	if err != nil {
		h.RespondError(c, err, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": result.UnreadCount})
}

// MarkRead marks a single notification as read.
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	requesterID, _ := GetUserIDFromContext(c)

	if err := h.notificationService.MarkRead(c.Request.Context(), id, requesterID); err != nil {
		h.RespondError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks the caller's entire ledger as read.
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	requesterID, _ := GetUserIDFromContext(c)

	if err := h.notificationService.MarkAllRead(c.Request.Context(), requesterID); err != nil {
		h.RespondError(c, err, "Failed to mark notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// Delete removes a notification from the ledger.
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	requesterID, _ := GetUserIDFromContext(c)

	if err := h.notificationService.Delete(c.Request.Context(), id, requesterID); err != nil {
		h.RespondError(c, err, "Failed to delete notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
