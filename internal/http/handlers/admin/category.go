package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

var categoryErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "category not found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest},
	{Target: service.ErrCategoryNameExists, Code: response.CodeConflict},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict},
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondMappedError(c, err, categoryErrorRules, response.CodeInternal, "failed to create category")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondMappedError(c, err, categoryErrorRules, response.CodeInternal, "failed to update category")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（仍有商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(c.Request.Context(), id); err != nil {
		respondMappedError(c, err, categoryErrorRules, response.CodeInternal, "failed to delete category")
		return
	}
	response.Success(c, nil)
}
