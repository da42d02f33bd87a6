package models

import (
	"errors"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/logger"

	"gorm.io/gorm"
)

// DemoProducts 演示商品
func DemoProducts() []Product {
	return []Product{
		{ID: "sku-keyboard", BrandID: "brand-keys", Name: "Mechanical Keyboard", Price: MustMoney("399.00"), Stock: 50},
		{ID: "sku-mouse", BrandID: "brand-keys", Name: "Wireless Mouse", Price: MustMoney("129.90"), Stock: 120},
		{ID: "sku-monitor", BrandID: "brand-view", Name: "27in Monitor", Price: MustMoney("1599.00"), Stock: 10},
	}
}

// DemoCouponTemplates 演示优惠券模板
func DemoCouponTemplates(now time.Time) []CouponTemplate {
	minAmount := MustMoney("300.00")
	return []CouponTemplate{
		{
			Name:          "new-member-50",
			DiscountType:  constants.DiscountTypeFixed,
			DiscountValue: MustMoney("50.00"),
			ExpiredAt:     now.AddDate(0, 1, 0),
			TotalQuantity: 100,
		},
		{
			Name:           "weekend-15-percent",
			DiscountType:   constants.DiscountTypeRate,
			DiscountValue:  MustMoney("15"),
			MinOrderAmount: &minAmount,
			ExpiredAt:      now.AddDate(0, 0, 7),
			TotalQuantity:  20,
		},
	}
}

// SeedDemoData 写入演示数据，已存在的记录跳过
func SeedDemoData(db *gorm.DB, now time.Time) error {
	for _, product := range DemoProducts() {
		var existing Product
		err := db.Where("id = ?", product.ID).First(&existing).Error
		if err == nil {
			logger.Infow("seed_product_exists", "product_id", product.ID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		logger.Infow("seed_product_created", "product_id", product.ID, "stock", product.Stock)
	}

	for _, tpl := range DemoCouponTemplates(now) {
		var count int64
		if err := db.Model(&CouponTemplate{}).Where("name = ?", tpl.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Infow("seed_coupon_template_exists", "name", tpl.Name)
			continue
		}
		if err := db.Create(&tpl).Error; err != nil {
			return err
		}
		logger.Infow("seed_coupon_template_created", "template_id", tpl.ID, "name", tpl.Name, "total", tpl.TotalQuantity)
	}
	return nil
}
