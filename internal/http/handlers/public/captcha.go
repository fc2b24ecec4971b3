package public

import (
	"github.com/saya-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取游客下单图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if !h.CaptchaService.GuestCheckoutEnabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to generate captcha", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
