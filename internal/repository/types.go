package repository

import (
	"time"

	"github.com/harvestmart/harvestmart-api/internal/models"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	SellerID     uint
	Search       string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	InStockOnly  bool
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
}

// ReportListFilter 查询工单列表的过滤条件
type ReportListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}
