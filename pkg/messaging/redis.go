package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty 대기 시간 안에 꺼낼 메시지가 없을 때 반환됩니다
var ErrQueueEmpty = errors.New("queue is empty")

// Queue Redis 리스트 기반 작업 큐 인터페이스
type Queue interface {
	Enqueue(ctx context.Context, queue string, message interface{}) error
	Dequeue(ctx context.Context, queue string, timeout time.Duration) (Message, error)
	Len(ctx context.Context, queue string) (int64, error)
	Close() error
}

// Message 큐에서 꺼낸 메시지
type Message struct {
	Queue   string
	Payload []byte
	Time    time.Time
}

// Decode 메시지 페이로드를 JSON으로 역직렬화합니다
func (m Message) Decode(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// redisQueue Redis 큐 구현체
type redisQueue struct {
	client *redis.Client
}

// NewRedisQueue Redis 큐 생성 (연결 확인 포함)
func NewRedisQueue(addr, password string, db int) (Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	return NewRedisQueueFromClient(client), nil
}

// NewRedisQueueFromClient 이미 생성된 클라이언트로 큐를 구성합니다
func NewRedisQueueFromClient(client *redis.Client) Queue {
	return &redisQueue{client: client}
}

// Enqueue 메시지를 JSON으로 직렬화하여 큐 왼쪽에 추가합니다
func (r *redisQueue) Enqueue(ctx context.Context, queue string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	return r.client.LPush(ctx, queue, payload).Err()
}

// Dequeue 큐 오른쪽에서 메시지를 꺼냅니다 (FIFO). timeout 동안 없으면 ErrQueueEmpty
func (r *redisQueue) Dequeue(ctx context.Context, queue string, timeout time.Duration) (Message, error) {
	result, err := r.client.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Message{}, ErrQueueEmpty
		}
		return Message{}, err
	}

	// BRPOP 결과는 [queue, value] 형태입니다
	if len(result) != 2 {
		return Message{}, fmt.Errorf("예상하지 못한 BRPOP 응답: %v", result)
	}

	return Message{
		Queue:   result[0],
		Payload: []byte(result[1]),
		Time:    time.Now(),
	}, nil
}

// Len 큐에 남은 메시지 수
func (r *redisQueue) Len(ctx context.Context, queue string) (int64, error) {
	return r.client.LLen(ctx, queue).Result()
}

// Close Redis 클라이언트 종료
func (r *redisQueue) Close() error {
	return r.client.Close()
}
