package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`     // 对外订单编号
	IdempotencyKey  string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`            // 结算幂等键
	UserID          *uint           `gorm:"index" json:"user_id,omitempty"`                            // 用户ID（游客订单为空）
	GuestName       string          `gorm:"type:varchar(120)" json:"guest_name"`                       // 联系人姓名
	GuestEmail      string          `gorm:"type:varchar(255);index" json:"guest_email"`                // 联系邮箱
	GuestPhone      string          `gorm:"type:varchar(40)" json:"guest_phone"`                       // 联系电话
	ShippingAddress ShippingAddress `gorm:"type:json;not null" json:"shipping_address"`                // 收货地址
	TotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额
	Status          string          `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	PaymentMethod   string          `gorm:"type:varchar(20);not null" json:"payment_method"`           // 支付方式（cod/bank_transfer）
	PaymentProof    string          `gorm:"type:varchar(500)" json:"payment_proof,omitempty"`          // 转账凭证对象路径
	PaymentProofURL string          `gorm:"-" json:"payment_proof_url,omitempty"`                      // 转账凭证访问地址（不入库）
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ContactEmail 返回订单联系邮箱
func (o *Order) ContactEmail() string {
	if o == nil {
		return ""
	}
	return o.GuestEmail
}
