package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page     int
	PageSize int
	BrandID  string
	Search   string
	InStock  bool
}

// CouponTemplateListFilter 查询优惠券模板列表的过滤条件
type CouponTemplateListFilter struct {
	Page        int
	PageSize    int
	Search      string
	OnlyIssuing bool      // 仅返回未过期且仍有余量的模板
	Now         time.Time // OnlyIssuing 时的判定时间
}

// UserCouponListFilter 查询会员优惠券的过滤条件
type UserCouponListFilter struct {
	Page     int
	PageSize int
	MemberID string
	Status   string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	MemberID    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
