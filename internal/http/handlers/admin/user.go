package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetUsers 用户列表
func (h *Handler) GetUsers(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	users, total, err := h.AuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load users", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}
