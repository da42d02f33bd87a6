package app

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/provider"
	"github.com/fulfillcore/internal/router"
	"github.com/fulfillcore/internal/tracing"
	"github.com/fulfillcore/internal/worker"
)

// BuildRunner 构建服务运行器，返回的 cleanup 用于释放容器资源
func BuildRunner(cfg *config.Config, mode string) (*Runner, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	runner, err := buildRunnerWithContainer(cfg, container, mode)
	if err != nil {
		container.Close()
		return nil, nil, err
	}
	return runner, container.Close, nil
}

func buildRunnerWithContainer(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		svc, err := buildWorkerService(cfg, container)
		if err != nil {
			return nil, err
		}
		if svc != nil {
			services = append(services, svc)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// buildWorkerService 队列启用时运行 asynq 消费者，否则退化为仅扫描超时订单
func buildWorkerService(cfg *config.Config, container *provider.Container) (Service, error) {
	consumer := worker.NewConsumer(container)
	if cfg.Queue.Enabled {
		return worker.NewService(&cfg.Queue, consumer)
	}
	if cfg.Order.PendingExpireMinutes <= 0 {
		logger.Infow("app_worker_skipped", "reason", "queue_disabled_and_no_expiry")
		return nil, nil
	}
	logger.Infow("app_worker_sweep_only", "expire_minutes", cfg.Order.PendingExpireMinutes)
	return worker.NewSweepService(consumer)
}

func listenAddr(cfg *config.Config) string {
	return net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	shutdownTracing, err := tracing.Setup(opts.Config.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			opts.Logger.Warnw("app_tracing_shutdown_failed", "error", err)
		}
	}()

	if secs := opts.Config.Server.ShutdownTimeoutSeconds; secs > 0 {
		opts.ShutdownTimeout = time.Duration(secs) * time.Second
	}

	runner, cleanup, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer cleanup()

	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config),
		"mode", opts.Mode,
		"services", runner.Names(),
		"cancel_stock_policy", opts.Config.Order.NormalizedCancelStockPolicy(),
	)
	return RunWithOptions(runner, opts)
}
