package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/messaging"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	domainErrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyRepo fails the first `failures` inserts and records the rest
type flakyRepo struct {
	mu       sync.Mutex
	failures int
	calls    int
	stored   []model.Notification
}

func (r *flakyRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failures {
		return errors.New("database is locked")
	}
	n.ID = int64(len(r.stored) + 1)
	r.stored = append(r.stored, *n)
	return nil
}

func (r *flakyRepo) ListByReceiver(context.Context, int64, int, int) ([]model.Notification, error) {
	return nil, nil
}

func (r *flakyRepo) CountByReceiver(context.Context, int64) (int64, error) { return 0, nil }

func (r *flakyRepo) CountUnread(context.Context, int64) (int64, error) { return 0, nil }

func (r *flakyRepo) MarkRead(context.Context, int64, int64) (bool, error) { return false, nil }

func (r *flakyRepo) Stored() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.stored...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

func sampleTask() dto.NotificationTask {
	return dto.NotificationTask{
		SenderID:      7,
		ReceiverID:    11,
		CourseID:      3,
		Title:         "Học viên mới đăng ký khóa học",
		Content:       "Le Van C đã thanh toán 799.000 VNĐ",
		ReceiverEmail: "teacher11@example.com",
	}
}

func TestWorker_RetriesThenStores(t *testing.T) {
	repo := &flakyRepo{failures: 2}
	mailer := &fakeMailer{}
	worker := NewWorker(repo, mailer, 3, time.Millisecond, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), sampleTask()))

	stored := repo.Stored()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(11), stored[0].ReceiverID)
	require.NotNil(t, stored[0].CourseID)
	assert.Equal(t, int64(3), *stored[0].CourseID)
	assert.Equal(t, []string{"teacher11@example.com"}, mailer.sent)
}

func TestWorker_GivesUpAfterAttempts(t *testing.T) {
	repo := &flakyRepo{failures: 5}
	mailer := &fakeMailer{}
	worker := NewWorker(repo, mailer, 2, time.Millisecond, zap.NewNop())

	err := worker.Handle(context.Background(), sampleTask())

	assert.ErrorContains(t, err, "database is locked")
	assert.Equal(t, 2, repo.calls)
	assert.Empty(t, mailer.sent)
}

func TestWorker_MailFailureIsNotFatal(t *testing.T) {
	repo := &flakyRepo{}
	worker := NewWorker(repo, &fakeMailer{err: errors.New("smtp down")}, 1, 0, zap.NewNop())

	assert.NoError(t, worker.Handle(context.Background(), sampleTask()))
	assert.Len(t, repo.Stored(), 1)
}

func TestChannelDispatcher_DeliversAndDrains(t *testing.T) {
	repo := &flakyRepo{}
	d := NewChannelDispatcher(2, 16, NewWorker(repo, nil, 1, 0, zap.NewNop()), zap.NewNop())
	d.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), sampleTask()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Len(t, repo.Stored(), 5)
	assert.ErrorIs(t, d.Dispatch(context.Background(), sampleTask()), domainErrors.ErrDispatcherClosed)
}

func TestChannelDispatcher_FullBuffer(t *testing.T) {
	// not started, so nothing drains the buffer
	d := NewChannelDispatcher(1, 1, NewWorker(&flakyRepo{}, nil, 1, 0, zap.NewNop()), zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), sampleTask()))
	assert.ErrorIs(t, d.Dispatch(context.Background(), sampleTask()), domainErrors.ErrDispatchQueueFull)
}

func TestRedisDispatcher_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	queue, err := messaging.NewRedisQueue(mr.Addr(), "", 0)
	require.NoError(t, err)

	repo := &flakyRepo{}
	d := NewRedisDispatcher(queue, "test:notifications", 1, 100*time.Millisecond, NewWorker(repo, nil, 1, 0, zap.NewNop()), zap.NewNop())

	// queued before any consumer runs
	require.NoError(t, d.Dispatch(context.Background(), sampleTask()))
	n, err := queue.Len(context.Background(), "test:notifications")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	d.Start()
	assert.Eventually(t, func() bool { return len(repo.Stored()) == 1 }, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.ErrorIs(t, d.Dispatch(context.Background(), sampleTask()), domainErrors.ErrDispatcherClosed)
}

func TestNewDispatcher(t *testing.T) {
	handler := NewWorker(&flakyRepo{}, nil, 1, 0, zap.NewNop())

	d, err := NewDispatcher(config.NotificationConfig{Driver: config.NotificationDriverMemory, Workers: 1, BufferSize: 1}, config.RedisConfig{}, handler, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ChannelDispatcher{}, d)

	mr := miniredis.RunT(t)
	d, err = NewDispatcher(config.NotificationConfig{Driver: config.NotificationDriverRedis, Queue: "q", Workers: 1}, config.RedisConfig{Addr: mr.Addr()}, handler, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisDispatcher{}, d)

	_, err = NewDispatcher(config.NotificationConfig{Driver: "sns"}, config.RedisConfig{}, handler, zap.NewNop())
	assert.Error(t, err)
}
