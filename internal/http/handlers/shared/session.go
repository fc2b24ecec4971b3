package shared

import (
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// CommitSession 提交会话修改并写回 Cookie。
// 需在写响应体之前调用。
func CommitSession(c *gin.Context, manager *scs.SessionManager) error {
	if manager == nil {
		return nil
	}
	ctx := c.Request.Context()
	switch manager.Status(ctx) {
	case scs.Modified:
		token, expiry, err := manager.Commit(ctx)
		if err != nil {
			return err
		}
		manager.WriteSessionCookie(ctx, c.Writer, token, expiry)
	case scs.Destroyed:
		manager.WriteSessionCookie(ctx, c.Writer, "", time.Time{})
	}
	return nil
}
