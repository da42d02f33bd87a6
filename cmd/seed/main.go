package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/fulfillcore/internal/authz"
	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/service"
)

func main() {
	var memberID, adminID string
	flag.StringVar(&memberID, "member", "demo-member", "演示会员 ID，用于签发会员令牌")
	flag.StringVar(&adminID, "admin", "demo-admin", "演示管理员 ID，用于签发管理端令牌")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDemoData(models.DB, time.Now()); err != nil {
		stdLog.Fatalf("Failed to seed demo data: %v", err)
	}

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if err := authzService.SetAdminRoles(adminID, []string{authz.RoleSuperAdmin}); err != nil {
		stdLog.Fatalf("Failed to assign admin role: %v", err)
	}

	// 演示令牌，便于直接调用 API
	auth := service.NewAuthService(cfg.Auth)
	memberToken, memberExp, err := auth.GenerateMemberToken(memberID)
	if err != nil {
		stdLog.Fatalf("Failed to sign member token: %v", err)
	}
	adminToken, adminExp, err := auth.GenerateAdminToken(adminID)
	if err != nil {
		stdLog.Fatalf("Failed to sign admin token: %v", err)
	}

	fmt.Println("Seed completed.")
	fmt.Printf("member %s token (expires %s):\n%s\n", memberID, memberExp.Format(time.RFC3339), memberToken)
	fmt.Printf("admin %s token (expires %s):\n%s\n", adminID, adminExp.Format(time.RFC3339), adminToken)
}
