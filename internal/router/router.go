package router

import (
	"sort"
	"strings"

	"github.com/saya-shop/internal/authz"
	"github.com/saya-shop/internal/cache"
	"github.com/saya-shop/internal/config"
	adminhandlers "github.com/saya-shop/internal/http/handlers/admin"
	publichandlers "github.com/saya-shop/internal/http/handlers/public"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/provider"
	"github.com/saya-shop/internal/storage"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "saya"
	}
	redisClient := cache.Client()
	loginRule := newRateLimitRule(redisPrefix, "login", cfg.Security.LoginRateLimit, "too many login attempts")
	checkoutRule := newRateLimitRule(redisPrefix, "checkout", cfg.Security.CheckoutRateLimit, "too many checkout attempts")
	emailRule := newRateLimitRule(redisPrefix, "email", cfg.Security.EmailRateLimit, "too many email requests")

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 本地存储的图片与凭证
	if local, ok := c.Storage.(*storage.LocalStorage); ok {
		r.Static("/uploads", local.Root())
	}

	optionalAuth := OptionalUserAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo)
	requireUser := UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/featured", publicHandler.GetFeaturedProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/advertisements", publicHandler.GetAdvertisements)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/orders/:order_no", publicHandler.GetOrderByNo)
			public.POST("/emails/order-confirmation", RateLimitMiddleware(redisClient, emailRule, KeyByIP), publicHandler.SendOrderConfirmationEmail)
		}

		// 购物车与下单（会话）
		shop := apiV1.Group("")
		shop.Use(SessionMiddleware(c.SessionManager), optionalAuth)
		{
			shop.GET("/cart", publicHandler.GetCart)
			shop.POST("/cart/items", publicHandler.AddCartItem)
			shop.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			shop.DELETE("/cart/items/:product_id", publicHandler.DeleteCartItem)
			shop.DELETE("/cart", publicHandler.ClearCart)
			shop.PUT("/cart/display", publicHandler.SetCartDisplay)
			shop.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.Checkout)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(requireUser)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.GET("/me/orders", publicHandler.ListMyOrders)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(requireUser, AdminRBACMiddleware(c.AuthzService))
		{
			// 仪表盘与权限
			admin.GET("/dashboard", adminHandler.GetDashboardOverview)
			admin.GET("/permissions", adminHandler.GetMyPermissions)
			admin.GET("/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})

			// 订单管理
			admin.GET("/orders", adminHandler.GetOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

			// 分类管理
			admin.GET("/categories", adminHandler.GetCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 商品管理
			admin.GET("/products", adminHandler.GetProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			// 广告管理
			admin.GET("/advertisements", adminHandler.GetAdvertisements)
			admin.POST("/advertisements", adminHandler.CreateAdvertisement)
			admin.PUT("/advertisements/:id", adminHandler.UpdateAdvertisement)
			admin.PATCH("/advertisements/:id/toggle", adminHandler.ToggleAdvertisement)
			admin.DELETE("/advertisements/:id", adminHandler.DeleteAdvertisement)

			// 文件上传与存储
			admin.POST("/uploads/:scene", adminHandler.UploadFile)
			admin.GET("/storage/probe", adminHandler.ProbeStorage)

			// 用户与邮件
			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/emails/test", RateLimitMiddleware(redisClient, emailRule, KeyByIP), adminHandler.SendTestEmail)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
