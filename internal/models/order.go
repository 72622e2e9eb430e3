package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID      uint           `gorm:"index;not null" json:"user_id"`                             // 买家ID
	Status      string         `gorm:"index;not null" json:"status"`                              // 订单状态
	TotalAmount Money          `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"` // 实付金额
	OrderedAt   time.Time      `gorm:"index" json:"ordered_at"`                                   // 下单时间
	CancelledAt *time.Time     `gorm:"index" json:"cancelled_at"`                                 // 取消时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	Buyer *User       `gorm:"foreignKey:UserID" json:"buyer,omitempty"`  // 买家信息
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
