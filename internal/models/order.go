package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             string     `gorm:"primarykey;type:varchar(36)" json:"id"`                        // 主键
	MemberID       string     `gorm:"type:varchar(64);not null;index" json:"member_id"`             // 会员ID
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`                // 订单状态（pending/canceled）
	TotalAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 商品小计之和
	DiscountAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠券抵扣金额
	PaymentAmount  Money      `gorm:"type:decimal(20,2);not null;default:0" json:"payment_amount"`  // 应付金额
	UserCouponID   *string    `gorm:"type:varchar(36);index" json:"user_coupon_id,omitempty"`       // 使用的会员优惠券
	CanceledAt     *time.Time `gorm:"index" json:"canceled_at,omitempty"`                           // 取消时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                                   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项（创建后不可变）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate 生成 UUID
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
