package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/queue"
	"github.com/fulfillcore/internal/service"

	"github.com/hibiken/asynq"
)

type fakeOrderCanceler struct {
	mu       sync.Mutex
	calls    []string
	sweeps   int
	err      error
	sweepErr error
}

func (f *fakeOrderCanceler) CancelExpiredOrder(orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{ID: orderID, Status: constants.OrderStatusCanceled}, nil
}

func (f *fakeOrderCanceler) CancelExpiredOrders(_ time.Time, _ int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return 0, f.sweepErr
}

func (f *fakeOrderCanceler) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func newTimeoutCancelTask(t *testing.T, orderID string) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: orderID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderTimeoutCancelCallsService(t *testing.T) {
	fake := &fakeOrderCanceler{}
	consumer := &Consumer{orders: fake}

	if err := consumer.handleOrderTimeoutCancel(context.Background(), newTimeoutCancelTask(t, "order-1")); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "order-1" {
		t.Fatalf("unexpected calls: %v", fake.calls)
	}
}

func TestHandleOrderTimeoutCancelSkipsMissingOrder(t *testing.T) {
	fake := &fakeOrderCanceler{err: fmt.Errorf("%w: order_id=order-1", service.ErrOrderNotFound)}
	consumer := &Consumer{orders: fake}

	if err := consumer.handleOrderTimeoutCancel(context.Background(), newTimeoutCancelTask(t, "order-1")); err != nil {
		t.Fatalf("missing order should not be retried, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelRetriesOnFailure(t *testing.T) {
	dbErr := errors.New("database is locked")
	consumer := &Consumer{orders: &fakeOrderCanceler{err: dbErr}}

	err := consumer.handleOrderTimeoutCancel(context.Background(), newTimeoutCancelTask(t, "order-1"))
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected error returned for retry, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelInvalidPayload(t *testing.T) {
	fake := &fakeOrderCanceler{}
	consumer := &Consumer{orders: fake}

	if err := consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if err := consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`{"order_id":" "}`))); err != nil {
		t.Fatalf("blank order id should be skipped, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("service must not be called for invalid payload, got %v", fake.calls)
	}
}

func TestHandleOrderTimeoutCancelWithoutService(t *testing.T) {
	consumer := NewConsumer(nil)
	if err := consumer.handleOrderTimeoutCancel(context.Background(), newTimeoutCancelTask(t, "order-1")); err != nil {
		t.Fatalf("nil service should be skipped, got %v", err)
	}
}

func TestRunExpiredOrderSweepStopsOnCancel(t *testing.T) {
	fake := &fakeOrderCanceler{}
	consumer := &Consumer{orders: fake}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		consumer.runExpiredOrderSweep(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweep loop did not stop")
	}
	if fake.sweepCount() < 1 {
		t.Fatalf("expected at least one sweep")
	}
}

func TestSweepServiceRunsUntilCanceled(t *testing.T) {
	if _, err := NewSweepService(NewConsumer(nil)); err == nil {
		t.Fatalf("sweep service without order service should fail")
	}

	fake := &fakeOrderCanceler{}
	svc, err := NewSweepService(&Consumer{orders: fake})
	if err != nil {
		t.Fatalf("new sweep service failed: %v", err)
	}
	svc.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Start(ctx)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("start should return nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("sweep service did not stop")
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if fake.sweepCount() < 1 {
		t.Fatalf("expected at least one sweep")
	}
}
