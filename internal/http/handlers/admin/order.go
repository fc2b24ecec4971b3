package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var orderErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderStatusUnsupported, Code: response.CodeBadRequest},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict},
}

// GetOrders 订单列表（附带各状态数量与营收）
func (h *Handler) GetOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListAdmin(service.OrderListQuery{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to load orders")
		return
	}
	summary, err := h.OrderService.StatusSummary()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"orders":  orders,
		"summary": summary,
	}, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, gin.H{
		"order":         order,
		"next_statuses": service.NextOrderStatuses(order.Status),
	})
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to update order status")
		return
	}
	requestLog(c).Infow("admin_order_status_updated",
		"order_id", order.ID,
		"status", order.Status,
		"operator_id", handlershared.OptionalUserID(c),
	)
	response.Success(c, order)
}
