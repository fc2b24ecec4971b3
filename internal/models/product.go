package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID             uint                `gorm:"primarykey" json:"id"`                                        // 主键
	CategoryID     *uint               `gorm:"index" json:"category_id"`                                    // 分类ID（可为空）
	Name           string              `gorm:"type:varchar(200);not null;index" json:"name"`                // 商品名称
	Description    string              `gorm:"type:text" json:"description"`                                // 商品描述
	SKU            string              `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"` // 库存编码
	Price          Money               `gorm:"type:decimal(20,2);not null;default:0;index" json:"price"`    // 单价
	Weight         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"weight"`                            // 重量（kg，可选）
	InventoryCount int                 `gorm:"not null;default:0" json:"inventory_count"`                   // 库存数量
	Images         StringArray         `gorm:"type:json" json:"images"`                                     // 图片地址列表（有序）
	Tags           StringArray         `gorm:"type:json" json:"tags"`                                       // 标签
	Featured       bool                `gorm:"not null;default:false;index" json:"featured"`                // 是否推荐
	CreatedAt      time.Time           `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt      time.Time           `json:"updated_at"`                                                  // 更新时间
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// InStock 是否还有库存
func (p *Product) InStock() bool {
	return p != nil && p.InventoryCount > 0
}
