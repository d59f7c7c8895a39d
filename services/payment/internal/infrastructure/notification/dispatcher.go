package notification

import (
	"context"
	"fmt"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/messaging"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"go.uber.org/zap"
)

// Dispatcher queues notification tasks and runs the workers consuming them
type Dispatcher interface {
	Dispatch(ctx context.Context, task dto.NotificationTask) error
	// Start launches the consumers
	Start()
	// Close stops accepting tasks and waits for in-flight ones until ctx is done
	Close(ctx context.Context) error
}

// NewDispatcher builds the dispatcher selected by cfg.Driver
func NewDispatcher(cfg config.NotificationConfig, redisCfg config.RedisConfig, handler Handler, logger *zap.Logger) (Dispatcher, error) {
	switch cfg.Driver {
	case config.NotificationDriverRedis:
		queue, err := messaging.NewRedisQueue(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err != nil {
			return nil, err
		}
		return NewRedisDispatcher(queue, cfg.Queue, cfg.Workers, cfg.PollTimeout, handler, logger), nil
	case config.NotificationDriverMemory, "":
		return NewChannelDispatcher(cfg.Workers, cfg.BufferSize, handler, logger), nil
	default:
		return nil, fmt.Errorf("unknown notification driver %q", cfg.Driver)
	}
}

// handleSafely runs the handler, turning a panic into a logged error
func handleSafely(ctx context.Context, handler Handler, task dto.NotificationTask, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in notification worker",
				zap.Any("recover", r),
				zap.Int64("receiver_id", task.ReceiverID))
		}
	}()

	if err := handler.Handle(ctx, task); err != nil {
		logger.Error("Notification task failed",
			zap.Int64("receiver_id", task.ReceiverID),
			zap.String("title", task.Title),
			zap.Error(err))
	}
}
