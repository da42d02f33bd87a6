package router

import (
	"fmt"
	"strings"

	"github.com/fulfillcore/internal/cache"
	"github.com/fulfillcore/internal/config"
	adminhandlers "github.com/fulfillcore/internal/http/handlers/admin"
	publichandlers "github.com/fulfillcore/internal/http/handlers/public"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const tracingServiceName = "fulfillcore"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fc"
	}
	couponIssueRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon_issue", redisPrefix),
		WindowSeconds: cfg.RateLimit.CouponIssue.WindowSeconds,
		MaxRequests:   cfg.RateLimit.CouponIssue.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracingServiceName))
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/coupon-templates", publicHandler.ListIssuingTemplates)
		}

		// 会员接口（需鉴权）
		member := apiV1.Group("")
		member.Use(MemberJWTMiddleware(cfg.Auth.Member.SecretKey))
		{
			member.POST("/coupons/:id/issue",
				RateLimitMiddleware(cache.Client(), couponIssueRule, KeyByMemberID),
				publicHandler.IssueCoupon,
			)
			member.GET("/coupons", publicHandler.ListMyCoupons)
			member.POST("/coupons/:id/discount", publicHandler.CalculateDiscount)
			member.POST("/orders", publicHandler.CreateOrder)
			member.GET("/orders", publicHandler.ListOrders)
			member.GET("/orders/:id", publicHandler.GetOrder)
			member.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTMiddleware(cfg.Auth.Admin.SecretKey), AdminRBACMiddleware(c.AuthzService))
		{
			// 商品与库存
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.GET("/products/:id", adminHandler.GetAdminProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/stock/increase", adminHandler.IncreaseProductStock)

			// 优惠券
			admin.GET("/coupon-templates", adminHandler.GetCouponTemplates)
			admin.GET("/coupon-templates/:id", adminHandler.GetCouponTemplate)
			admin.POST("/coupon-templates", adminHandler.CreateCouponTemplate)
			admin.PUT("/coupon-templates/:id", adminHandler.UpdateCouponTemplate)
			admin.DELETE("/coupon-templates/:id", adminHandler.DeleteCouponTemplate)
			admin.POST("/coupons/:id/use", adminHandler.UseUserCoupon)
			admin.POST("/coupons/:id/restore", adminHandler.RestoreUserCoupon)

			// 订单
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
