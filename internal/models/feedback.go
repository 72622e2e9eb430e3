package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback 站点反馈表
type Feedback struct {
	ID        uint           `gorm:"primarykey" json:"id"`          // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"` // 用户ID
	Username  string         `gorm:"not null" json:"username"`      // 用户名快照
	Email     string         `gorm:"not null" json:"email"`         // 邮箱快照
	Rating    int            `gorm:"not null" json:"rating"`        // 评分（1-5）
	Comments  string         `gorm:"type:text" json:"comments"`     // 反馈内容
	CreatedAt time.Time      `gorm:"index" json:"created_at"`       // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                // 软删除时间
}

// TableName 指定表名
func (Feedback) TableName() string {
	return "feedbacks"
}
