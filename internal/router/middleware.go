package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/saya-shop/internal/authz"
	"github.com/saya-shop/internal/cache"
	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/repository"
	"github.com/saya-shop/internal/service"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"Idempotency-Key",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(constants.ContextKeyRequestID)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionMiddleware 从 Cookie 加载 scs 会话到请求上下文
// 会话写回由处理器在响应前通过 CommitSession 完成
func SessionMiddleware(manager *scs.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}
		var token string
		if cookie, err := c.Request.Cookie(manager.Cookie.Name); err == nil {
			token = cookie.Value
		}
		ctx, err := manager.Load(c.Request.Context(), token)
		if err != nil {
			logger.Warnw("session_load_failed", "error", err)
			ctx, err = manager.Load(c.Request.Context(), "")
			if err != nil {
				response.Error(c, response.CodeInternal, "session unavailable")
				c.Abort()
				return
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Add("Vary", "Cookie")
		c.Next()
	}
}

// authenticate 解析 Bearer Token 并校验 token 版本
// 缓存命中时不查库，未命中时回源数据库并回填缓存
func authenticate(c *gin.Context, secretKey string, userRepo repository.UserRepository) (*cache.UserAuthState, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "authorization header is missing"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, "authorization header is invalid"
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.JWTClaims{}
	token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, "token is invalid"
	}

	if cached, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
		if claims.TokenVersion != cached.TokenVersion {
			return nil, "token has been revoked"
		}
		return cached, ""
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return nil, "token is invalid"
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, "token has been revoked"
	}
	state := cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(c.Request.Context(), state)
	return state, ""
}

func setAuthContext(c *gin.Context, state *cache.UserAuthState) {
	c.Set(constants.ContextKeyUserID, state.UserID)
	c.Set(constants.ContextKeyUserEmail, state.Email)
	c.Set(constants.ContextKeyUserRole, state.Role)
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || userRepo == nil {
			response.Unauthorized(c, "authentication is not configured")
			c.Abort()
			return
		}
		state, reason := authenticate(c, secretKey, userRepo)
		if state == nil {
			response.Unauthorized(c, reason)
			c.Abort()
			return
		}
		setAuthContext(c, state)
		c.Next()
	}
}

// OptionalUserAuthMiddleware 可选鉴权：携带有效 Token 时写入用户信息，否则按游客处理
func OptionalUserAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || userRepo == nil || c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if state, _ := authenticate(c, secretKey, userRepo); state != nil {
			setAuthContext(c, state)
		}
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件
// 仅 staff/admin 角色可进入，具体路由权限由 casbin 策略决定
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		role := c.GetString(constants.ContextKeyUserRole)
		if !authz.IsBackofficeRole(role) {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, "permission denied")
			c.Abort()
			return
		}

		c.Next()
	}
}
