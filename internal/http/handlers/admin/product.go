package admin

import (
	"strconv"

	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID     *uint               `json:"category_id"`
	Name           string              `json:"name" binding:"required"`
	Description    string              `json:"description"`
	SKU            string              `json:"sku" binding:"required"`
	Price          models.Money        `json:"price"`
	Weight         decimal.NullDecimal `json:"weight"`
	InventoryCount int                 `json:"inventory_count"`
	Images         []string            `json:"images"`
	Tags           []string            `json:"tags"`
	Featured       bool                `json:"featured"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		Description:    r.Description,
		SKU:            r.SKU,
		Price:          r.Price,
		Weight:         r.Weight,
		InventoryCount: r.InventoryCount,
		Images:         r.Images,
		Tags:           r.Tags,
		Featured:       r.Featured,
	}
}

var productErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "product not found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest},
	{Target: service.ErrProductPriceInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrInventoryInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest},
	{Target: service.ErrSKUExists, Code: response.CodeConflict},
}

// GetProducts 后台商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	query := service.ProductAdminQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			categoryID := uint(id)
			query.CategoryID = &categoryID
		}
	}
	products, total, err := h.ProductService.ListAdmin(query)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondMappedError(c, err, productErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondMappedError(c, err, productErrorRules, response.CodeInternal, "failed to create product")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondMappedError(c, err, productErrorRules, response.CodeInternal, "failed to update product")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), id); err != nil {
		respondMappedError(c, err, productErrorRules, response.CodeInternal, "failed to delete product")
		return
	}
	response.Success(c, nil)
}
