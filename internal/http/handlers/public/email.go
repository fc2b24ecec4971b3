package public

import (
	"net/http"

	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// SendOrderConfirmationEmail 浏览器在下单成功后请求发送确认邮件
// 该接口沿用前端约定：失败返回 HTTP 500 与 {"error": ...}
func (h *Handler) SendOrderConfirmationEmail(c *gin.Context) {
	var req service.OrderConfirmationEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLog(c).Warnw("order_confirmation_email_bind_failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})
		return
	}
	if err := h.OrderEmailService.SendOrderConfirmation(req); err != nil {
		requestLog(c).Errorw("order_confirmation_email_failed",
			"order_id", req.OrderID,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
