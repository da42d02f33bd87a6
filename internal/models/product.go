package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`              // 主键（不透明字符串，缺省时生成 UUID）
	BrandID   string         `gorm:"type:varchar(64);index" json:"brand_id"`             // 品牌ID
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Stock     int            `gorm:"not null;default:0" json:"stock"`                    // 可售库存
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeCreate 缺省 ID 时生成 UUID
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
