package admin

import (
	"strconv"
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminUserListItem 管理端用户列表返回
type AdminUserListItem struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Phone       string `json:"phone,omitempty"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toAdminUserListItem(user models.User) AdminUserListItem {
	item := AdminUserListItem{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if user.LastLoginAt != nil {
		item.LastLoginAt = user.LastLoginAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return item
}

// AdminListUsers 管理端用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]AdminUserListItem, 0, len(users))
	for _, user := range users {
		items = append(items, toAdminUserListItem(user))
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, items, pagination)
}
