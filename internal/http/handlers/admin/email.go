package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestEmailRequest 测试邮件请求
type TestEmailRequest struct {
	TestEmail string `json:"testEmail"`
}

// SendTestEmail 发送测试邮件，未指定收件人时发往 test@example.com
// 该接口沿用前端约定：失败返回 HTTP 500 与 {"error", "details"}
func (h *Handler) SendTestEmail(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
		return
	}
	to, err := h.OrderEmailService.SendTestEmail(req.TestEmail)
	if err != nil {
		requestLog(c).Errorw("admin_test_email_failed", "to", to, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test email sent successfully to " + to,
	})
}
