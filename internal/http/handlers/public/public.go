package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取在售商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
		if price, err := models.NewMoneyFromString(raw); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		if price, err := models.NewMoneyFromString(raw); err == nil {
			filter.MaxPrice = &price
		}
	}
	if raw := strings.TrimSpace(c.Query("in_stock")); raw == "1" || raw == "true" {
		filter.InStockOnly = true
	}

	products, total, err := h.ProductService.ListPublic(filter)
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

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.ProductService.GetPublicByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"product": product})
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// GetCategory 获取分类详情及其在售商品
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	category, err := h.CategoryService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	products, total, err := h.ProductService.ListPublic(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: category.ID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"category": category,
		"products": products,
		"pagination": response.Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
