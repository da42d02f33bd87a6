package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fulfillcore/internal/config"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/provider"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeService struct {
	name     string
	startErr error
	stopped  atomic.Int32
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.stopped.Add(1)
	return nil
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, " API ": ModeAPI, "worker": ModeWorker}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) want %s got %s err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("bind failed")}
	healthy := &fakeService{name: "healthy"}
	runner := NewRunner(healthy, failing)

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "failing: bind failed" {
		t.Fatalf("runner should surface start error, got %v", err)
	}
	if healthy.stopped.Load() != 1 || failing.stopped.Load() != 1 {
		t.Fatalf("every service should be stopped once")
	}
}

func TestRunnerReturnsNilOnContextCancel(t *testing.T) {
	svc := &fakeService{name: "svc"}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should be a clean exit, got %v", err)
	}
}

func TestBuildRunnerWithContainer(t *testing.T) {
	dsn := fmt.Sprintf("file:app_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"},
		Order:  config.OrderConfig{PendingExpireMinutes: 30},
	}
	container := provider.NewContainerWithDB(cfg, db, nil)

	runner, err := buildRunnerWithContainer(cfg, container, ModeAll)
	if err != nil {
		t.Fatalf("build runner failed: %v", err)
	}
	if len(runner.services) != 2 {
		t.Fatalf("all mode without queue should run http and sweep, got %d services", len(runner.services))
	}
	if runner.services[1].Name() != "expired-order-sweep" {
		t.Fatalf("worker without queue should fall back to sweep, got %s", runner.services[1].Name())
	}

	cfg.Order.PendingExpireMinutes = 0
	if _, err := buildRunnerWithContainer(cfg, container, ModeWorker); err == nil {
		t.Fatalf("worker mode with nothing to run should fail")
	}
}

func TestNewRunnerSkipsNilServices(t *testing.T) {
	runner := NewRunner(nil, &fakeService{name: "http"}, nil)
	names := runner.Names()
	if len(names) != 1 || names[0] != "http" {
		t.Fatalf("nil services should be dropped, got %v", names)
	}
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("runner without services should fail")
	}
}

func TestNewHTTPServiceUsesServerConfig(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "9090", ReadHeaderTimeoutSeconds: 5}, nil)
	if svc.Addr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", svc.Addr())
	}
	if svc.server.ReadHeaderTimeout != 5*time.Second || svc.server.WriteTimeout != 0 {
		t.Fatalf("unexpected timeouts: %v %v", svc.server.ReadHeaderTimeout, svc.server.WriteTimeout)
	}
}
