package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// AnswerHandler serves answer and comment routes.
type AnswerHandler struct {
	BaseHandler
	answerService services.AnswerService
}

func NewAnswerHandler(answerService services.AnswerService, logger utils.Logger) *AnswerHandler {
	return &AnswerHandler{
		BaseHandler:   NewBaseHandler(logger),
		answerService: answerService,
	}
}

// Create posts an answer to a question.
// POST /api/answers
func (h *AnswerHandler) Create(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	var req services.CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	answer, err := h.answerService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to create answer")
		return
	}

	h.LogRequest(c, "Answer created", "answer_id", answer.ID, "question_id", req.QuestionID)
	c.JSON(http.StatusCreated, answer)
}

// GetByQuestion returns a question's answers in posting order.
// GET /api/answers/question/:questionId
func (h *AnswerHandler) GetByQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	answers, err := h.answerService.GetByQuestion(c.Request.Context(), questionID)
	if err != nil {
		h.RespondError(c, err, "Failed to list answers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// Update edits an answer's content.
// PUT /api/answers/:id
func (h *AnswerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	var req services.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	answer, err := h.answerService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to update answer")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Delete removes an answer and its comments.
// DELETE /api/answers/:id
func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	if err := h.answerService.Delete(c.Request.Context(), id, userID); err != nil {
		h.RespondError(c, err, "Failed to delete answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// Like records a like on an answer.
// POST /api/answers/:id/like
func (h *AnswerHandler) Like(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	liked, err := h.answerService.Like(c.Request.Context(), id, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to like answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// Accept marks the answer as accepted and resolves its question.
// PATCH /api/answers/:id/accept
func (h *AnswerHandler) Accept(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	if err := h.answerService.Accept(c.Request.Context(), id, userID); err != nil {
		h.RespondError(c, err, "Failed to accept answer")
		return
	}

	h.LogRequest(c, "Answer accepted", "answer_id", id, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted"})
}

// Verify toggles the teacher-verified flag.
// PATCH /api/answers/:id/verify
func (h *AnswerHandler) Verify(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	verified := parseFlagBody(c, "verified")

	if err := h.answerService.Verify(c.Request.Context(), id, verified, userID); err != nil {
		h.RespondError(c, err, "Failed to update verification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

// AddComment posts a comment under an answer.
// POST /api/answers/:id/comments
func (h *AnswerHandler) AddComment(c *gin.Context) {
	answerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	comment, err := h.answerService.AddComment(c.Request.Context(), answerID, &req, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment.
// DELETE /api/answers/:id/comments/:commentId
func (h *AnswerHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	if err := h.answerService.DeleteComment(c.Request.Context(), id, userID); err != nil {
		h.RespondError(c, err, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// LikeComment records a like on a comment.
// POST /api/answers/:id/comments/:commentId/like
func (h *AnswerHandler) LikeComment(c *gin.Context) {
	id, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	liked, err := h.answerService.LikeComment(c.Request.Context(), id, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to like comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
