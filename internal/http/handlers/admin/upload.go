package admin

import (
	handlershared "github.com/saya-shop/internal/http/handlers/shared"
	"github.com/saya-shop/internal/http/response"
	"github.com/saya-shop/internal/service"

	"github.com/gin-gonic/gin"
)

var uploadErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrUploadSceneInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrFileTooLarge, Code: response.CodeBadRequest},
	{Target: service.ErrFileTypeNotAllowed, Code: response.CodeBadRequest},
}

// UploadFile 上传商品/广告图片
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file is required", err)
		return
	}
	result, err := h.UploadService.SaveFile(c.Request.Context(), file, c.Param("scene"))
	if err != nil {
		respondMappedError(c, err, uploadErrorRules, response.CodeInternal, "failed to upload file")
		return
	}
	response.Success(c, result)
}

// ProbeStorage 检查各存储桶是否可访问
func (h *Handler) ProbeStorage(c *gin.Context) {
	response.Success(c, h.UploadService.ProbeStorage(c.Request.Context()))
}
