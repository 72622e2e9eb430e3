package models

import (
	"time"

	"gorm.io/gorm"
)

// Report 问题工单表
type Report struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                         // 主键
	UserID      uint           `gorm:"index;not null" json:"user_id"`                                // 提交用户ID
	OrderRef    string         `gorm:"type:varchar(64);index" json:"order_ref"`                      // 关联订单号（可选）
	IssueType   string         `gorm:"type:varchar(32);not null" json:"issue_type"`                  // 问题类型
	Subject     string         `gorm:"not null" json:"subject"`                                      // 工单标题
	Description string         `gorm:"type:text" json:"description"`                                 // 问题描述
	Status      string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"` // 工单状态（open/resolved/closed）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 提交用户
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}
