package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponTemplate 优惠券模板表（发放配额的唯一真实来源）
type CouponTemplate struct {
	ID             string         `gorm:"primarykey;type:varchar(36)" json:"id"`                       // 主键
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`                      // 模板名称
	DiscountType   string         `gorm:"type:varchar(20);not null" json:"discount_type"`              // 折扣类型（fixed/rate）
	DiscountValue  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // 折扣值（固定金额或 0-100 百分比）
	MinOrderAmount *Money         `gorm:"type:decimal(20,2)" json:"min_order_amount,omitempty"`        // 最低订单金额（为空表示不限制）
	ExpiredAt      time.Time      `gorm:"not null;index" json:"expired_at"`                            // 过期时间
	TotalQuantity  int            `gorm:"not null;default:0" json:"total_quantity"`                    // 发放总量
	IssuedQuantity int            `gorm:"not null;default:0" json:"issued_quantity"`                   // 已发放数量
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (CouponTemplate) TableName() string {
	return "coupon_templates"
}

// BeforeCreate 生成 UUID
func (c *CouponTemplate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsExpired 判断模板在给定时间是否已过期
func (c *CouponTemplate) IsExpired(now time.Time) bool {
	return now.After(c.ExpiredAt)
}

// RemainingQuantity 剩余可发放数量
func (c *CouponTemplate) RemainingQuantity() int {
	remaining := c.TotalQuantity - c.IssuedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}
