package public

import (
	"errors"
	"net/http"
	"strings"

	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader 客户端可显式传入的幂等键
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutRequest 下单请求（JSON 或 multipart 表单）
type CheckoutRequest struct {
	GuestName       string                 `json:"guest_name" form:"guest_name"`
	GuestEmail      string                 `json:"guest_email" form:"guest_email"`
	GuestPhone      string                 `json:"guest_phone" form:"guest_phone"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" form:"-"`
	Line1           string                 `json:"-" form:"line1"`
	Line2           string                 `json:"-" form:"line2"`
	City            string                 `json:"-" form:"city"`
	State           string                 `json:"-" form:"state"`
	PostalCode      string                 `json:"-" form:"postal_code"`
	Country         string                 `json:"-" form:"country"`
	PaymentMethod   string                 `json:"payment_method" form:"payment_method"`
	CaptchaID       string                 `json:"captcha_id" form:"captcha_id"`
	CaptchaCode     string                 `json:"captcha_code" form:"captcha_code"`
}

var checkoutErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrPaymentProofUpload, Code: response.CodeInternal},
	{Target: service.ErrOrderCreateFailed, Code: response.CodeInternal, Msg: service.ErrOrderCreateFailed.Error()},
	{Target: service.ErrCheckoutValidation, Code: response.CodeBadRequest},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrPaymentProofRequired, Code: response.CodeBadRequest},
	{Target: service.ErrPaymentProofInvalid, Code: response.CodeBadRequest},
}

// Checkout 提交订单：会话购物车 + 联系人 + 地址 + 支付方式（+ 转账凭证）
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	multipartBody := strings.HasPrefix(c.ContentType(), "multipart/")
	if multipartBody {
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, response.CodeBadRequest, "invalid request", err)
			return
		}
		req.ShippingAddress = models.ShippingAddress{
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	// 空购物车在进入验证码与下单流程前即被拦截
	store := h.loadCart(c)
	if store.IsEmpty() {
		response.Redirect(c, response.CodeBadRequest, service.ErrCartEmpty.Error(), "/products")
		return
	}

	userID := handlershared.OptionalUserID(c)
	if userID == nil {
		if err := h.CaptchaService.VerifyGuestCheckout(service.CaptchaVerifyPayload{
			CaptchaID:   req.CaptchaID,
			CaptchaCode: req.CaptchaCode,
		}); err != nil {
			respondMappedError(c, err, []handlershared.ErrorRule{
				{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest},
				{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest},
			}, response.CodeInternal, "captcha verification failed")
			return
		}
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" {
		key = store.EnsureCheckoutKey()
		if err := h.CartSessions.Save(c.Request.Context(), store); err != nil {
			requestLog(c).Warnw("checkout_key_persist_failed", "error", err)
		}
	}

	input := service.CheckoutInput{
		UserID:          userID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  key,
		Items:           store.Items(),
	}

	if multipartBody {
		fileHeader, err := c.FormFile("payment_proof")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			respondError(c, response.CodeBadRequest, "invalid payment proof", err)
			return
		}
		if fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				respondError(c, response.CodeBadRequest, "invalid payment proof", err)
				return
			}
			defer file.Close()
			input.Proof = &service.ProofFile{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
				Reader:      file,
			}
		}
	}

	result, err := h.CheckoutService.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrCartEmpty) {
			response.Redirect(c, response.CodeBadRequest, err.Error(), "/products")
			return
		}
		// 失败时保留购物车与幂等键，便于用户重试
		handlershared.CommitSession(c, h.SessionManager)
		respondMappedError(c, err, checkoutErrorRules, response.CodeInternal, service.ErrOrderCreateFailed.Error())
		return
	}

	store.Clear()
	if err := h.CartSessions.Save(c.Request.Context(), store); err != nil {
		requestLog(c).Warnw("checkout_cart_clear_failed", "order_no", result.Order.OrderNo, "error", err)
	}
	if err := handlershared.CommitSession(c, h.SessionManager); err != nil {
		requestLog(c).Warnw("checkout_session_commit_failed", "order_no", result.Order.OrderNo, "error", err)
	}
	response.Success(c, result)
}
