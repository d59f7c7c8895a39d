package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/messaging"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	domainErrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/errors"
	"go.uber.org/zap"
)

const redisErrorBackoff = time.Second

// RedisDispatcher pushes tasks onto a Redis list; its workers pop and handle them.
// Tasks survive a restart of this process.
type RedisDispatcher struct {
	queue       messaging.Queue
	name        string
	workers     int
	pollTimeout time.Duration
	handler     Handler
	logger      *zap.Logger

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisDispatcher(queue messaging.Queue, name string, workers int, pollTimeout time.Duration, handler Handler, logger *zap.Logger) *RedisDispatcher {
	if workers < 1 {
		workers = 1
	}
	if pollTimeout <= 0 {
		pollTimeout = 2 * time.Second
	}

	return &RedisDispatcher{
		queue:       queue,
		name:        name,
		workers:     workers,
		pollTimeout: pollTimeout,
		handler:     handler,
		logger:      logger,
	}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, task dto.NotificationTask) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return domainErrors.ErrDispatcherClosed
	}

	return d.queue.Enqueue(ctx, d.name, task)
}

func (d *RedisDispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.consume(ctx)
		}()
	}

	d.logger.Info("Notification dispatcher started",
		zap.String("driver", "redis"),
		zap.String("queue", d.name),
		zap.Int("workers", d.workers))
}

func (d *RedisDispatcher) consume(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := d.queue.Dequeue(ctx, d.name, d.pollTimeout)
		if err != nil {
			if errors.Is(err, messaging.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}

			d.logger.Error("Failed to pop notification task", zap.Error(err))
			select {
			case <-time.After(redisErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		var task dto.NotificationTask
		if err := msg.Decode(&task); err != nil {
			d.logger.Error("Dropping malformed notification task",
				zap.ByteString("payload", msg.Payload),
				zap.Error(err))
			continue
		}

		handleSafely(context.WithoutCancel(ctx), d.handler, task, d.logger)
	}
}

func (d *RedisDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if closeErr := d.queue.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
