package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserCoupon 会员持有的优惠券
type UserCoupon struct {
	ID         string     `gorm:"primarykey;type:varchar(36)" json:"id"`                                                          // 主键
	MemberID   string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_coupon_member_template" json:"member_id"`         // 会员ID
	TemplateID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_coupon_member_template;index" json:"template_id"` // 模板ID
	Status     string     `gorm:"type:varchar(20);not null;index" json:"status"`                                                  // 状态（available/used）
	Version    int64      `gorm:"not null;default:0" json:"version"`                                                              // 状态变更版本号
	UsedAt     *time.Time `json:"used_at,omitempty"`                                                                              // 使用时间
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`                                                                        // 发放时间
	UpdatedAt  time.Time  `json:"updated_at"`                                                                                     // 更新时间

	Template *CouponTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"` // 模板信息
}

// TableName 指定表名
func (UserCoupon) TableName() string {
	return "user_coupons"
}

// BeforeCreate 生成 UUID
func (u *UserCoupon) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
