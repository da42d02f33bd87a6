package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem 订单项表，保存下单时的商品快照
type OrderItem struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" json:"id"`                      // 主键
	OrderID      string    `gorm:"type:varchar(36);not null;index" json:"order_id"`            // 订单ID
	ProductID    string    `gorm:"type:varchar(64);not null;index" json:"product_id"`          // 商品ID快照
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`             // 商品名称快照
	ProductPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"product_price"` // 单价快照
	Quantity     int       `gorm:"not null" json:"quantity"`                                   // 数量
	Subtotal     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`      // 小计
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                    // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate 生成 UUID
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NewOrderItemSnapshot 以商品当前名称和价格生成订单项快照
func NewOrderItemSnapshot(product *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     quantity,
		Subtotal:     product.Price.Times(quantity),
	}
}
