package public

import (
	"errors"
	"strings"

	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetOrderByNo 订单确认页：按订单号查询
func (h *Handler) GetOrderByNo(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeNotFound, service.ErrOrderNotFound.Error(), nil)
		return
	}
	order, err := h.OrderService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load order", err)
		return
	}
	response.Success(c, order)
}
