package public

import (
	"errors"
	"strconv"

	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 商品目录：分类、搜索、推荐、排序、分页
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	featured, _ := strconv.ParseBool(c.DefaultQuery("featured", "false"))

	result, err := h.CatalogService.Search(c.Request.Context(), service.CatalogQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: featured,
		Sort:     c.Query("sort"),
		Page:     page,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.Success(c, result)
}

// GetFeaturedProducts 首页推荐商品
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.CatalogService.Featured()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}
	product, err := h.CatalogService.Product(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	response.Success(c, product)
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, categories)
}

// GetAdvertisements 首页轮播广告
func (h *Handler) GetAdvertisements(c *gin.Context) {
	ads, err := h.AdvertisementService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load advertisements", err)
		return
	}
	response.Success(c, ads)
}
