package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryJob 待投递的私信，由联邦投递进程消费
type DeliveryJob struct {
	MailID    int64     `json:"mail_id"`
	UID       int64     `json:"uid"`
	ContactID int64     `json:"contact_id"`
	GUID      string    `json:"guid"`
	Network   string    `json:"network"`
	QueuedAt  time.Time `json:"queued_at"`
}

// DeliveryQueue 投递队列
type DeliveryQueue interface {
	Enqueue(ctx context.Context, job DeliveryJob) error
}

// RedisDeliveryQueue Redis 列表实现的投递队列
type RedisDeliveryQueue struct {
	rdb redis.Cmdable
	key string
}

func NewRedisDeliveryQueue(rdb redis.Cmdable, key string) *RedisDeliveryQueue {
	return &RedisDeliveryQueue{rdb: rdb, key: key}
}

// Enqueue 追加到队列尾部，队列不设过期时间，任务只由消费者取走
func (q *RedisDeliveryQueue) Enqueue(ctx context.Context, job DeliveryJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode delivery job: %w", err)
	}

	if err := q.rdb.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue delivery job: %w", err)
	}
	return nil
}
