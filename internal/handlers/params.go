package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseIDParam reads a numeric path parameter and writes a 400 response
// when it is missing or malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads ?page= and ?size= with sane defaults and caps.
func parsePagination(c *gin.Context) (page, size, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, size, (page - 1) * size
}

// parseFlagBody reads an optional {"<name>": bool} PATCH body. A bare
// request, an empty object or an absent field all mean true; the flag
// only has to be spelled out to turn the state off.
func parseFlagBody(c *gin.Context, name string) bool {
	var body map[string]bool
	if err := c.ShouldBindJSON(&body); err != nil {
		return true
	}
	if value, ok := body[name]; ok {
		return value
	}
	return true
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
