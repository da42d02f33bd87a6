package worker

import (
	"context"
	"errors"
	"time"

	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/logger"
	"github.com/fulfillcore/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	expiredOrderSweepInterval = time.Minute
	expiredOrderSweepBatch    = 100
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.orders != nil {
		go s.consumer.runExpiredOrderSweep(ctx, expiredOrderSweepInterval)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runExpiredOrderSweep 兜底扫描超时订单，覆盖入队失败或任务丢失的情况
func (c *Consumer) runExpiredOrderSweep(ctx context.Context, interval time.Duration) {
	if c == nil || c.orders == nil {
		return
	}
	runOnce := func() {
		canceled, err := c.orders.CancelExpiredOrders(time.Now(), expiredOrderSweepBatch)
		if err != nil {
			logger.Warnw("worker_expired_order_sweep_failed", "error", err)
			return
		}
		if canceled > 0 {
			logger.Infow("worker_expired_order_sweep_done", "canceled", canceled)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// SweepService 未启用队列时仅运行超时订单扫描
type SweepService struct {
	consumer *Consumer
	interval time.Duration
}

// NewSweepService 创建扫描服务
func NewSweepService(consumer *Consumer) (*SweepService, error) {
	if consumer == nil || consumer.orders == nil {
		return nil, errors.New("order service is nil")
	}
	return &SweepService{consumer: consumer, interval: expiredOrderSweepInterval}, nil
}

// Name 服务名称
func (s *SweepService) Name() string {
	return "expired-order-sweep"
}

// Start 阻塞运行直到 ctx 结束
func (s *SweepService) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("sweep service not initialized")
	}
	s.consumer.runExpiredOrderSweep(ctx, s.interval)
	return nil
}

// Stop 由 Start 的 ctx 控制退出
func (s *SweepService) Stop(ctx context.Context) error {
	return nil
}
