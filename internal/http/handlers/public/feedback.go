package public

import (
	"errors"
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateFeedbackRequest 站点反馈请求
type CreateFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

// CreateFeedback 提交站点反馈
func (h *Handler) CreateFeedback(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	feedback, err := h.FeedbackService.Create(uid, req.Rating, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, response.CodeBadRequest, "error.rating_invalid", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.feedback_save_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"feedback": feedback})
}

// ListFeedback 获取站点反馈列表
func (h *Handler) ListFeedback(c *gin.Context) {
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
