package notification

import (
	"context"
	"sync"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	domainErrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/errors"
	"go.uber.org/zap"
)

// ChannelDispatcher is an in-process dispatcher: a buffered channel drained by a fixed worker pool.
// Tasks still buffered when the process dies are lost.
type ChannelDispatcher struct {
	tasks   chan dto.NotificationTask
	workers int
	handler Handler
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewChannelDispatcher(workers, bufferSize int, handler Handler, logger *zap.Logger) *ChannelDispatcher {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}

	return &ChannelDispatcher{
		tasks:   make(chan dto.NotificationTask, bufferSize),
		workers: workers,
		handler: handler,
		logger:  logger,
	}
}

func (d *ChannelDispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for task := range d.tasks {
				handleSafely(context.Background(), d.handler, task, d.logger)
			}
		}()
	}

	d.logger.Info("Notification dispatcher started",
		zap.String("driver", "memory"),
		zap.Int("workers", d.workers))
}

// Dispatch never blocks; a full buffer is reported as ErrDispatchQueueFull.
func (d *ChannelDispatcher) Dispatch(ctx context.Context, task dto.NotificationTask) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return domainErrors.ErrDispatcherClosed
	}

	select {
	case d.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return domainErrors.ErrDispatchQueueFull
	}
}

func (d *ChannelDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Notification dispatcher drained")
		return nil
	case <-ctx.Done():
		d.logger.Warn("Notification dispatcher closed before draining", zap.Int("pending", len(d.tasks)))
		return ctx.Err()
	}
}
