package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 基于购物车下单；库存不足或发生并发冲突时整单失败
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CreateOrder(uid)
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}

	response.Success(c, gin.H{"order": order})
}

// ListMyOrders 获取当前用户订单列表（按下单时间倒序）
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 订单详情，按角色分流视角：
// 管理员看全量，卖家优先看自己买的、否则过滤为自己商品的订单项，买家只看自己的订单
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var order *models.Order
	switch getUserRole(c) {
	case constants.RoleAdmin:
		order, err = h.OrderService.GetOrderForAdmin(uint(orderID))
	case constants.RoleSeller:
		order, err = h.OrderService.GetOrderForBuyer(uint(orderID), uid)
		if errors.Is(err, service.ErrOrderNotFound) {
			order, err = h.OrderService.GetOrderForSeller(uint(orderID), uid)
		}
	default:
		order, err = h.OrderService.GetOrderForBuyer(uint(orderID), uid)
	}
	if err != nil {
		respondWithMappedError(c, err, orderAccessErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}

	response.Success(c, gin.H{"order": order})
}

// CancelMyOrder 买家取消订单；仅待处理订单可取消，取消后回补库存
func (h *Handler) CancelMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), uid)
	if err != nil {
		rules := concatMappedHandlerErrors(orderAccessErrorRules, orderStatusErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.order_update_failed")
		return
	}

	response.Success(c, gin.H{"order": order})
}

// ListSellerOrders 获取包含当前卖家商品的订单列表
func (h *Handler) ListSellerOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orders, err := h.OrderService.ListSellerOrders(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSellerOrderStatus 卖家推进订单状态；流转规则为 pending→processing→shipped→delivered
func (h *Handler) UpdateSellerOrderStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(orderID), uid, getUserRole(c), req.Status)
	if err != nil {
		rules := concatMappedHandlerErrors(orderAccessErrorRules, orderStatusErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.order_update_failed")
		return
	}

	response.Success(c, gin.H{"order": order})
}
