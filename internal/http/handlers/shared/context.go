package shared

import (
	"strconv"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid user id", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid user id", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "invalid user id type", nil)
		return 0, false
	}
}

// GetUserID 读取已鉴权用户 ID。
func GetUserID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, constants.ContextKeyUserID)
}

// OptionalUserID 可选鉴权时读取用户 ID，未登录返回 nil。
func OptionalUserID(c *gin.Context) *uint {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok && id > 0 {
		return &id
	}
	return nil
}

// GetUserRole 读取已鉴权用户角色。
func GetUserRole(c *gin.Context) string {
	if value, ok := c.Get(constants.ContextKeyUserRole); ok {
		if role, ok := value.(string); ok {
			return role
		}
	}
	return ""
}

// ParseIDParam 解析路径中的数字 ID，失败时返回 400。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
