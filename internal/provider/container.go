package provider

import (
	"net/http"
	"time"

	"github.com/saya-shop/internal/authz"
	"github.com/saya-shop/internal/cache"
	"github.com/saya-shop/internal/cart"
	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/queue"
	"github.com/saya-shop/internal/repository"
	"github.com/saya-shop/internal/service"
	"github.com/saya-shop/internal/storage"

	"github.com/alexedwards/scs/v2"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	SessionManager *scs.SessionManager
	CartSessions   *cart.SessionStore
	Storage        storage.Storage

	// Repositories
	UserRepo          repository.UserRepository
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	CategoryRepo      repository.CategoryRepository
	AdvertisementRepo repository.AdvertisementRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	EmailService         *service.EmailService
	OrderEmailService    *service.OrderEmailService
	OrderNotifier        service.OrderNotifier
	CaptchaService       *service.CaptchaService
	UploadService        *service.UploadService
	CatalogService       *service.CatalogService
	ProductService       *service.ProductService
	CategoryService      *service.CategoryService
	AdvertisementService *service.AdvertisementService
	CheckoutService      *service.CheckoutService
	OrderService         *service.OrderService
	DashboardService     *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "driver", cfg.Storage.Driver, "error", err)
		panic(err)
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		SessionManager: newSessionManager(cfg.Session),
		Storage:        store,
	}
	c.CartSessions = cart.NewSessionStore(c.SessionManager)

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// newSessionManager 购物车会话（内存存储，按浏览器 Cookie 隔离）
func newSessionManager(cfg config.SessionConfig) *scs.SessionManager {
	manager := scs.New()
	if cfg.CookieName != "" {
		manager.Cookie.Name = cfg.CookieName
	}
	lifetime := time.Duration(cfg.LifetimeHours) * time.Hour
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	manager.Lifetime = lifetime
	manager.Cookie.HttpOnly = true
	manager.Cookie.Secure = cfg.Secure
	manager.Cookie.SameSite = http.SameSiteLaxMode
	manager.Cookie.Persist = true
	return manager
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.AdvertisementRepo = repository.NewAdvertisementRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	notifyTimeout := time.Duration(c.Config.Checkout.NotifyTimeoutSecs) * time.Second
	if notifyTimeout <= 0 {
		notifyTimeout = 15 * time.Second
	}
	catalogTTL := time.Duration(c.Config.Catalog.CacheTTLSeconds) * time.Second

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.OrderEmailService = service.NewOrderEmailService(c.EmailService, c.OrderRepo)
	c.OrderNotifier = service.NewAsyncOrderNotifier(c.QueueClient, c.OrderEmailService, notifyTimeout)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload, c.Storage)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo, catalogTTL)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ProductRepo)
	c.AdvertisementService = service.NewAdvertisementService(c.AdvertisementRepo)
	c.CheckoutService = service.NewCheckoutService(c.OrderRepo, c.UserRepo, c.Storage, c.OrderNotifier, c.Config.Checkout)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.DashboardRepo, c.Storage, c.OrderNotifier)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)

	if err := c.AuthService.EnsureDefaultAdmin(); err != nil {
		logger.Warnw("provider_ensure_default_admin_failed", "error", err)
	}
}
