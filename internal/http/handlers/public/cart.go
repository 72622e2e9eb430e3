package public

import (
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 修改购物车数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.ListItems(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}

	response.Success(c, summary)
}

// AddCartItem 加入购物车；同商品重复加入时累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	line, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}

	response.Success(c, line)
}

// UpdateCartItem 修改购物车条目数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	line, err := h.CartService.UpdateItem(uid, uint(itemID), req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}

	response.Success(c, line)
}

// RemoveCartItem 删除购物车条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.CartService.RemoveItem(uid, uint(itemID)); err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}
