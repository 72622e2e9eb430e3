package public

import (
	"errors"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadImage 上传商品图片；支持本地目录与 S3 兼容存储
func (h *Handler) UploadImage(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UploadService.SaveImage(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			respondError(c, response.CodeBadRequest, "error.upload_too_large", nil)
		case errors.Is(err, service.ErrUploadInvalidType):
			respondError(c, response.CodeBadRequest, "error.upload_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.upload_failed", err)
		}
		return
	}

	requestLog(c).Infow("image_uploaded", "user_id", uid, "key", result.Key, "size", result.Size)
	response.Success(c, result)
}
