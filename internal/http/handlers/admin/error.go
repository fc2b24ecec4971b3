package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.ErrorRule, fallbackCode int, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackMsg)
}
