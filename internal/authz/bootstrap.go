package authz

import "fmt"

// 预置角色
const (
	RoleSuperAdmin = "super_admin"
	RoleAuditor    = "readonly_auditor"
	RoleOperations = "operations"
	RoleSupport    = "support"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     RoleSuperAdmin,
			Policies: []Policy{{Object: "/admin/*", Action: "*"}},
		},
		{
			Role:     RoleAuditor,
			Policies: []Policy{{Object: "/admin/*", Action: "GET"}},
		},
		{
			// 商品、库存与优惠券运营
			Role:     RoleOperations,
			Inherits: []string{RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/products", Action: "POST"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/stock/increase", Action: "POST"},
				{Object: "/admin/coupon-templates", Action: "POST"},
				{Object: "/admin/coupon-templates/:id", Action: "*"},
			},
		},
		{
			// 客服：处理订单与会员优惠券
			Role:     RoleSupport,
			Inherits: []string{RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/orders/:id/status", Action: "PUT"},
				{Object: "/admin/coupons/:id/use", Action: "POST"},
				{Object: "/admin/coupons/:id/restore", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
