package public

import (
	"errors"

	"github.com/saya-shop/internal/cart"
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartDisplayRequest 购物车展开/收起
type CartDisplayRequest struct {
	Open bool `json:"open"`
}

// CartView 购物车响应
type CartView struct {
	Items      []cart.Item  `json:"items"`
	TotalItems int          `json:"total_items"`
	TotalPrice models.Money `json:"total_price"`
	IsOpen     bool         `json:"is_open"`
}

func buildCartView(store *cart.Store) CartView {
	state := store.State()
	items := state.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartView{
		Items:      items,
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
		IsOpen:     state.IsOpen,
	}
}

// loadCart 读取会话购物车，损坏的会话数据直接丢弃
func (h *Handler) loadCart(c *gin.Context) *cart.Store {
	store, err := h.CartSessions.Load(c.Request.Context())
	if err != nil {
		requestLog(c).Warnw("cart_session_decode_failed", "error", err)
		h.CartSessions.Reset(c.Request.Context())
		return cart.NewStore(cart.State{})
	}
	return store
}

// saveCart 写回会话并响应购物车
func (h *Handler) saveCart(c *gin.Context, store *cart.Store) {
	if err := h.CartSessions.Save(c.Request.Context(), store); err != nil {
		respondError(c, response.CodeInternal, "failed to save cart", err)
		return
	}
	if err := handlershared.CommitSession(c, h.SessionManager); err != nil {
		respondError(c, response.CodeInternal, "failed to save cart", err)
		return
	}
	response.Success(c, buildCartView(store))
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	store := h.loadCart(c)
	response.Success(c, buildCartView(store))
}

// AddCartItem 加入购物车（数量 +1），超过库存时拒绝
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	store := h.loadCart(c)
	product, ok := h.lookupCartProduct(c, req.ProductID)
	if !ok {
		return
	}
	if !product.InStock() {
		respondError(c, response.CodeBadRequest, service.ErrProductNotAvailable.Error(), nil)
		return
	}
	if store.QuantityOf(product.ID)+1 > product.InventoryCount {
		respondError(c, response.CodeBadRequest, service.ErrInsufficientStock.Error(), nil)
		return
	}
	store.AddItem(cart.SnapshotOf(product))
	h.saveCart(c, store)
}

// UpdateCartItem 设置条目数量，<=0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseIDParam(c, "product_id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	store := h.loadCart(c)
	quantity := *req.Quantity
	if quantity > 0 {
		product, ok := h.lookupCartProduct(c, productID)
		if !ok {
			return
		}
		if quantity > product.InventoryCount {
			respondError(c, response.CodeBadRequest, service.ErrInsufficientStock.Error(), nil)
			return
		}
	}
	store.UpdateQuantity(productID, quantity)
	h.saveCart(c, store)
}

// DeleteCartItem 移除条目
func (h *Handler) DeleteCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseIDParam(c, "product_id")
	if !ok {
		return
	}
	store := h.loadCart(c)
	store.RemoveItem(productID)
	h.saveCart(c, store)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	store := h.loadCart(c)
	store.Clear()
	h.saveCart(c, store)
}

// SetCartDisplay 展开/收起购物车
func (h *Handler) SetCartDisplay(c *gin.Context) {
	var req CartDisplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	store := h.loadCart(c)
	store.SetOpen(req.Open)
	h.saveCart(c, store)
}

func (h *Handler) lookupCartProduct(c *gin.Context, productID uint) (*models.Product, bool) {
	product, err := h.CatalogService.Product(productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return nil, false
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return nil, false
	}
	return product, true
}
