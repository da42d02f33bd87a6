package provider

import (
	"github.com/fulfillcore/internal/authz"
	"github.com/fulfillcore/internal/cache"
	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/queue"
	"github.com/fulfillcore/internal/repository"
	"github.com/fulfillcore/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo        repository.ProductRepository
	CouponTemplateRepo repository.CouponTemplateRepository
	UserCouponRepo     repository.UserCouponRepository
	OrderRepo          repository.OrderRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	StockService       *service.StockService
	ProductService     *service.ProductService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	OrderService       *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err, "fallback", "database_only")
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}
	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 使用指定数据库构建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()
	c.initAuthz(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ProductRepo = repository.NewProductRepository(db)
	c.CouponTemplateRepo = repository.NewCouponTemplateRepository(db)
	c.UserCouponRepo = repository.NewUserCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	policy := service.NewCancelStockPolicy(c.Config.Order.NormalizedCancelStockPolicy())
	logger.Infow("provider_cancel_stock_policy", "policy", policy.Name())

	c.AuthService = service.NewAuthService(c.Config.Auth)
	c.StockService = service.NewStockService(c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponTemplateRepo, c.UserCouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponTemplateRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CouponService, policy, c.QueueClient, c.Config.Order.PendingExpireMinutes)
}

// initAuthz 初始化管理端授权，失败时管理端接口全部拒绝
func (c *Container) initAuthz(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_authz_roles_failed", "error", err)
		return
	}
	c.AuthzService = authzService
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
