package models

import (
	"time"
)

// Advertisement 首页轮播广告
type Advertisement struct {
	ID          uint      `gorm:"primarykey" json:"id"`                            // 主键
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`         // 标题
	ImageURL    string    `gorm:"type:varchar(500);not null" json:"image_url"`     // 图片地址
	LinkURL     string    `gorm:"type:varchar(1000)" json:"link_url,omitempty"`    // 跳转地址
	OverlayText string    `gorm:"type:varchar(500)" json:"overlay_text,omitempty"` // 覆盖文案
	Active      bool      `gorm:"not null;index" json:"active"`                    // 是否启用
	SortOrder   int       `gorm:"not null;default:0;index" json:"sort_order"`      // 排序
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (Advertisement) TableName() string {
	return "advertisements"
}
