package public

import (
	"errors"
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 提交评价请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// GetProductReviews 获取商品评价列表及平均分
func (h *Handler) GetProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	reviews, err := h.ReviewService.ListByProduct(uint(productID))
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, reviews)
}

// CreateReview 提交商品评价；同一商品每人仅一条
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Create(uid, uint(productID), req.Rating, req.Comment)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_save_failed")
		return
	}

	response.Success(c, gin.H{"review": review})
}

// DeleteReview 删除评价；作者或管理员可删
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ReviewService.Delete(uint(reviewID), uid, getUserRole(c)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
