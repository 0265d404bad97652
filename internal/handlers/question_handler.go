package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/services"
	"github.com/CampusQA-2025/qa-service/internal/utils"
)

// QuestionHandler serves the question content store routes.
type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// Create posts a new question.
// POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to create question")
		return
	}

	h.LogRequest(c, "Question created", "question_id", question.ID, "author_id", userID)
	c.JSON(http.StatusCreated, question)
}

// GetByID returns one question with its answers and comments.
// GET /api/questions/:id
func (h *QuestionHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	question, err := h.questionService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to load question")
		return
	}

	c.JSON(http.StatusOK, question)
}

// Update edits a question's fields.
// PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to update question")
		return
	}

	c.JSON(http.StatusOK, question)
}

// Delete removes a question and everything under it.
// DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	if err := h.questionService.Delete(c.Request.Context(), id, userID); err != nil {
		h.RespondError(c, err, "Failed to delete question")
		return
	}

	h.LogRequest(c, "Question deleted", "question_id", id, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// List returns a filtered, paginated question listing.
// GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)
	filters := h.parseFilters(c)

	result, err := h.questionService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to list questions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByAuthor returns one author's questions. Archived questions appear
// only when the caller is the author or a moderator.
// GET /api/questions/user/:id
func (h *QuestionHandler) GetByAuthor(c *gin.Context) {
	authorID := c.Param("id")
	if authorID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid id parameter"})
		return
	}
	requesterID, _ := GetUserIDFromContext(c)
	filters := h.parseFilters(c)

	result, err := h.questionService.GetByAuthor(c.Request.Context(), authorID, filters, requesterID)
	if err != nil {
		h.RespondError(c, err, "Failed to list questions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Like records a like; repeats are no-ops.
// POST /api/questions/:id/like
func (h *QuestionHandler) Like(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	liked, err := h.questionService.Like(c.Request.Context(), id, userID)
	if err != nil {
		h.RespondError(c, err, "Failed to like question")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// Resolve toggles the resolved flag.
// PATCH /api/questions/:id/resolve
func (h *QuestionHandler) Resolve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserIDFromContext(c)

	// A bare PATCH marks the question resolved; the flag is only needed
	// to undo.
	resolved := parseFlagBody(c, "resolved")

	if err := h.questionService.Resolve(c.Request.Context(), id, resolved, userID); err != nil {
		h.RespondError(c, err, "Failed to update question status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": resolved})
}

func (h *QuestionHandler) parseFilters(c *gin.Context) repositories.QuestionFilters {
	_, _, limit, offset := parsePagination(c)

	filters := repositories.QuestionFilters{
		Search: c.Query("search"),
		SortBy: c.DefaultQuery("sort", "newest"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("category"); raw != "" {
		category := models.QuestionCategory(raw)
		filters.Category = &category
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.QuestionPriority(raw)
		filters.Priority = &priority
	}
	filters.IsResolved = parseBoolQuery(c, "isResolved")
	if filters.IsResolved == nil {
		filters.IsResolved = parseBoolQuery(c, "resolved")
	}
	if include := parseBoolQuery(c, "include_archived"); include != nil {
		filters.IncludeArchived = *include
	}

	return filters
}
