package shared

import (
	"errors"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Fail(c, appErr)
}

// ErrorRule 业务错误到接口错误响应的映射。
// Msg 为空时直接使用业务错误文本。
type ErrorRule struct {
	Target error
	Code   int
	Msg    string
}

// RespondMappedError 按规则映射业务错误，未命中时按兜底码记录并返回。
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			msg := rule.Msg
			if msg == "" {
				msg = err.Error()
			}
			RespondError(c, rule.Code, msg, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackMsg, err)
}
