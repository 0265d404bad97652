package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// AuthHandler serves the login flow and self-service profile routes.
type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// GetSigninURL returns the external provider's login redirect target.
// GET /api/auth/signin-url?state=...
func (h *AuthHandler) GetSigninURL(c *gin.Context) {
	state := c.Query("state")
	c.JSON(http.StatusOK, gin.H{"signin_url": h.authService.SigninURL(state)})
}

// GoogleRedirect sends the browser to the provider's login page.
// GET /api/auth/google
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.authService.SigninURL(c.Query("state")))
}

// HandleCallback exchanges the provider code for a session token.
// POST /api/auth/callback
func (h *AuthHandler) HandleCallback(c *gin.Context) {
	var req struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	// The provider may redirect with query parameters instead of a body.
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		req.Code = c.Query("code")
		req.State = c.Query("state")
	}
	if req.Code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Authorization code required"})
		return
	}

	h.LogRequest(c, "Processing login callback")

	login, err := h.authService.HandleCallback(c.Request.Context(), req.Code, req.State)
	if err != nil {
		h.RespondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, login)
}

// Logout records the end of the session; tokens are stateless so the
// client simply discards its copy.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.RespondError(c, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the authenticated user's directory record.
// GET /api/auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies self-service profile edits.
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err, "Failed to update profile")
		return
	}

	h.LogRequest(c, "Profile updated", "user_id", userID)
	c.JSON(http.StatusOK, user)
}

// CheckEmail reports whether an email already has a directory record.
// GET /api/auth/check-email/:email
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Email parameter required"})
		return
	}

	result, err := h.authService.CheckEmail(c.Request.Context(), email)
	if err != nil {
		h.RespondError(c, err, "Failed to check email")
		return
	}

	c.JSON(http.StatusOK, result)
}
