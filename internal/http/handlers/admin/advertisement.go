package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdvertisementRequest 广告请求
type AdvertisementRequest struct {
	Title       string `json:"title" binding:"required"`
	ImageURL    string `json:"image_url" binding:"required"`
	LinkURL     string `json:"link_url"`
	OverlayText string `json:"overlay_text"`
	Active      bool   `json:"active"`
	SortOrder   int    `json:"sort_order"`
}

func (r AdvertisementRequest) toInput() service.AdvertisementInput {
	return service.AdvertisementInput{
		Title:       r.Title,
		ImageURL:    r.ImageURL,
		LinkURL:     r.LinkURL,
		OverlayText: r.OverlayText,
		Active:      r.Active,
		SortOrder:   r.SortOrder,
	}
}

var advertisementErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "advertisement not found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest},
}

// GetAdvertisements 广告列表（含停用）
func (h *Handler) GetAdvertisements(c *gin.Context) {
	ads, err := h.AdvertisementService.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load advertisements", err)
		return
	}
	response.Success(c, ads)
}

// CreateAdvertisement 创建广告
func (h *Handler) CreateAdvertisement(c *gin.Context) {
	var req AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ad, err := h.AdvertisementService.Create(req.toInput())
	if err != nil {
		respondMappedError(c, err, advertisementErrorRules, response.CodeInternal, "failed to create advertisement")
		return
	}
	response.Success(c, ad)
}

// UpdateAdvertisement 更新广告
func (h *Handler) UpdateAdvertisement(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ad, err := h.AdvertisementService.Update(id, req.toInput())
	if err != nil {
		respondMappedError(c, err, advertisementErrorRules, response.CodeInternal, "failed to update advertisement")
		return
	}
	response.Success(c, ad)
}

// ToggleAdvertisement 启用/停用广告
func (h *Handler) ToggleAdvertisement(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	ad, err := h.AdvertisementService.Toggle(id)
	if err != nil {
		respondMappedError(c, err, advertisementErrorRules, response.CodeInternal, "failed to update advertisement")
		return
	}
	response.Success(c, ad)
}

// DeleteAdvertisement 删除广告
func (h *Handler) DeleteAdvertisement(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AdvertisementService.Delete(id); err != nil {
		respondMappedError(c, err, advertisementErrorRules, response.CodeInternal, "failed to delete advertisement")
		return
	}
	response.Success(c, nil)
}
