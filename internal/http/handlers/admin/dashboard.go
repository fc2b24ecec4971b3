package admin

import (
	"strconv"

	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	forceRefresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	data, err := h.DashboardService.Overview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load dashboard", err)
		return
	}
	response.Success(c, data)
}

// GetMyPermissions 当前后台账号的角色与策略，用于前端菜单控制
func (h *Handler) GetMyPermissions(c *gin.Context) {
	role := handlershared.GetUserRole(c)
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load permissions", err)
		return
	}
	response.Success(c, gin.H{
		"role":     role,
		"policies": policies,
	})
}
