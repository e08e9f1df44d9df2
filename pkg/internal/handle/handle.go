// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkEntity 提取并校验路径中的实体类型与实体 ID.
func checkEntity(c *gin.Context) (entityType, entityID string, err error) {
	entityType = strings.TrimSpace(c.Param("entityType"))
	entityID = strings.TrimSpace(c.Param("entityId"))

	if err = rule.ValidateVar(entityType, "required,max=32"); err != nil {
		return "", "", err
	}

	if err = rule.ValidateVar(entityID, "required,max=64"); err != nil {
		return "", "", err
	}

	return entityType, entityID, nil
}

// statusForError 将 service 层错误映射为 HTTP 状态码.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, service.ErrCorruptImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrInvalidEntityType),
		errors.Is(err, service.ErrInvalidPurpose),
		errors.Is(err, service.ErrTTLOutOfRange),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrMissingTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 按错误类型返回统一的错误响应.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
