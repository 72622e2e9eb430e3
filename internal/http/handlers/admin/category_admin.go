package admin

import (
	"errors"
	"strconv"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, response.CodeBadRequest, "error.category_exists", nil)
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondError(c, response.CodeBadRequest, "error.category_name_required", nil)
	default:
		respondError(c, response.CodeInternal, "error.category_save_failed", err)
	}
}

// AdminCreateCategory 创建商品分类
func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Create(service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, gin.H{"category": category})
}

// AdminUpdateCategory 更新商品分类
func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Update(uint(categoryID), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, gin.H{"category": category})
}

// AdminDeleteCategory 删除商品分类；该分类下的商品会解除分类关联
func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.CategoryService.Delete(uint(categoryID)); err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
