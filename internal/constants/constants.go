package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 支付方式常量
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
)

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleStaff = "staff"
	UserRoleAdmin = "admin"
)

// 对象存储桶
const (
	BucketPaymentProofs       = "payment-proofs"
	BucketProductImages       = "product-images"
	BucketAdvertisementImages = "advertisement-images"
)

// 上传场景
const (
	UploadSceneProduct       = "product"
	UploadSceneAdvertisement = "advertisement"
)

// 商品目录排序键
const (
	CatalogSortDefault   = "default"
	CatalogSortPriceAsc  = "price_asc"
	CatalogSortPriceDesc = "price_desc"
	CatalogSortNameAsc   = "name_asc"
	CatalogSortNameDesc  = "name_desc"
	CatalogSortNewest    = "newest"
)

// 商品目录分页
const (
	CatalogPageSize      = 12
	FeaturedProductLimit = 4
)

// 异步任务队列
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskOrderStatusEmail       = "order:status_email"
)

// 店铺信息
const (
	StoreName         = "SAYA"
	StoreTagline      = "Soft & Chic Fashion for Women"
	StoreWhatsApp     = "+92 314 936 3244"
	DefaultSenderName = "SAYA Fashion"
)

// 会话键
const (
	SessionKeyCart = "cart"
)

// 上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)
