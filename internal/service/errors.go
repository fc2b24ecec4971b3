package service

import "errors"

// 通用错误
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// 认证与用户
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidToken       = errors.New("invalid token")
)

// 结算
var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrCheckoutValidation   = errors.New("checkout validation failed")
	ErrPaymentMethodInvalid = errors.New("unsupported payment method")
	ErrPaymentProofRequired = errors.New("payment proof is required for bank transfer")
	ErrPaymentProofInvalid  = errors.New("payment proof file is not allowed")
	ErrPaymentProofUpload   = errors.New("failed to upload payment proof")
	ErrOrderCreateFailed    = errors.New("failed to place order, please try again")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrProductNotAvailable  = errors.New("product is not available")
)

// 订单
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusInvalid     = errors.New("invalid order status transition")
	ErrOrderStatusConflict    = errors.New("order status changed concurrently")
	ErrOrderStatusUnsupported = errors.New("unsupported order status")
)

// 商品与分类
var (
	ErrSKUExists           = errors.New("sku already exists")
	ErrCategoryNameExists  = errors.New("category name already exists")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProductPriceInvalid = errors.New("product price must not be negative")
	ErrInventoryInvalid    = errors.New("inventory count must not be negative")
)

// 上传与存储
var (
	ErrUploadSceneInvalid = errors.New("unsupported upload scene")
	ErrFileTooLarge       = errors.New("file exceeds size limit")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// 邮件
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 验证码
var (
	ErrCaptchaRequired = errors.New("captcha is required")
	ErrCaptchaInvalid  = errors.New("captcha is invalid")
)
