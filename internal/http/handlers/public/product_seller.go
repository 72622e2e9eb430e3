package public

import (
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SellerProductRequest 卖家商品创建/更新请求
type SellerProductRequest struct {
	CategoryID    *uint           `json:"category_id"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Images        []string        `json:"images"`
	IsActive      *bool           `json:"is_active"`
}

func (r SellerProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Images:        r.Images,
		IsActive:      r.IsActive,
	}
}

// ListMyProducts 获取当前卖家的商品列表（含未上架）
func (h *Handler) ListMyProducts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListBySeller(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// CreateProduct 卖家创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SellerProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productWriteErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}

	requestLog(c).Infow("product_created", "product_id", product.ID, "seller_id", uid)
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 卖家更新商品；只能操作自己的商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req SellerProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Update(uint(productID), uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productWriteErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}

	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 卖家删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ProductService.Delete(uint(productID), uid); err != nil {
		respondWithMappedError(c, err, productWriteErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
