package public

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	FullName        *string                 `json:"full_name"`
	PhoneNumber     *string                 `json:"phone_number"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

var authErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest},
	{Target: service.ErrEmailExists, Code: response.CodeConflict},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "user not found"},
}

// Register 顾客注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	user, token, expiresAt, err := h.AuthService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		respondMappedError(c, err, authErrorRules, response.CodeInternal, "registration failed")
		return
	}
	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Login 顾客/后台登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondMappedError(c, err, authErrorRules, response.CodeInternal, "login failed")
		return
	}
	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUserByID(userID)
	if err != nil {
		respondMappedError(c, err, authErrorRules, response.CodeInternal, "failed to load user")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	user, err := h.AuthService.UpdateProfile(userID, service.ProfileInput{
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondMappedError(c, err, authErrorRules, response.CodeInternal, "failed to update profile")
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	if err := h.AuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondMappedError(c, err, authErrorRules, response.CodeInternal, "failed to change password")
		return
	}
	response.Success(c, nil)
}

// ListMyOrders 我的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}
