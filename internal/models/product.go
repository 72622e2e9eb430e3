package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// StringArray 字符串数组类型，用于存储商品图片等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                // 主键
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`                     // 卖家ID
	CategoryID    *uint          `gorm:"index" json:"category_id"`                            // 分类ID（分类删除后置空）
	Name          string         `gorm:"not null;index" json:"name"`                          // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                        // 商品描述
	Price         Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"`  // 单价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`            // 库存数量
	Images        StringArray    `gorm:"type:json" json:"images"`                             // 图片数组（最多 3 张）
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                 // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`     // 卖家信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
