package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"KanbanGo/config"
	"KanbanGo/services"
)

// respondError 将服务层错误分类映射为HTTP状态码
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		config.Logger.Errorw("请求处理失败",
			"error", err,
			"path", c.Request.URL.Path,
			"requestID", c.GetString("requestID"),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}
