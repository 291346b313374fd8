package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetPaginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

// ParseID reads a UUID path parameter. ok is false when the value is not a UUID.
func ParseID(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
