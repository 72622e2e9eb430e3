package admin

import (
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminListFeedback 管理端站点反馈列表
func (h *Handler) AdminListFeedback(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	feedback, total, err := h.FeedbackService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, feedback, pagination)
}
