package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"friendica_api/apperr"
	"friendica_api/format"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultHourlyLimit 每个调用者每小时的默认调用次数
const DefaultHourlyLimit = 150

// CounterStore 按 key 计数，key 在 ttl 后过期
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

// RedisCounters 基于 Redis INCR 的计数器，多实例共享
type RedisCounters struct {
	client redis.Cmdable
}

func NewRedisCounters(client redis.Cmdable) *RedisCounters {
	return &RedisCounters{client: client}
}

func (r *RedisCounters) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "incr rate limit counter")
	}
	return incr.Val(), nil
}

func (r *RedisCounters) Get(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get rate limit counter")
	}
	return n, nil
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryCounters 进程内计数器，Redis 不可用时使用
type MemoryCounters struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryCounters) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.cleanup(now)

	w, ok := m.windows[key]
	if !ok {
		w = &window{resetAt: now.Add(ttl)}
		m.windows[key] = w
	}
	w.count++
	return w.count, nil
}

func (m *MemoryCounters) Get(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || m.now().After(w.resetAt) {
		return 0, nil
	}
	return w.count, nil
}

func (m *MemoryCounters) cleanup(now time.Time) {
	for key, w := range m.windows {
		if now.After(w.resetAt) {
			delete(m.windows, key)
		}
	}
}

// RateLimitStatus account/rate_limit_status 的返回内容
type RateLimitStatus struct {
	RemainingHits      int64  `json:"remaining_hits"`
	HourlyLimit        int64  `json:"hourly_limit"`
	ResetTime          string `json:"reset_time"`
	ResetTimeInSeconds int64  `json:"reset_time_in_seconds"`
}

// RateLimiter 按小时统计每个调用者的请求数
// 计数窗口对齐整点，超过配额时只有 enforce 打开才会拒绝请求
type RateLimiter struct {
	counters CounterStore
	fallback *MemoryCounters
	limit    int64
	enforce  bool
	now      func() time.Time
}

// NewRateLimiter counters 为 nil 时只使用进程内计数
func NewRateLimiter(counters CounterStore, limit int, enforce bool) *RateLimiter {
	if limit <= 0 {
		limit = DefaultHourlyLimit
	}
	fallback := NewMemoryCounters()
	if counters == nil {
		counters = fallback
	}
	return &RateLimiter{
		counters: counters,
		fallback: fallback,
		limit:    int64(limit),
		enforce:  enforce,
		now:      time.Now,
	}
}

// Limit 每小时配额
func (l *RateLimiter) Limit() int64 {
	return l.limit
}

func (l *RateLimiter) window(viewerID int64) (string, time.Time) {
	start := l.now().UTC().Truncate(time.Hour)
	return fmt.Sprintf("ratelimit:%d:%s", viewerID, start.Format("2006010215")), start.Add(time.Hour)
}

// Hit 记录一次调用
func (l *RateLimiter) Hit(ctx context.Context, viewerID int64) error {
	key, resetAt := l.window(viewerID)
	ttl := resetAt.Sub(l.now()) + time.Minute

	n, err := l.counters.Incr(ctx, key, ttl)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("viewer_id", viewerID).Msg("rate limit counter unavailable, using memory")
		n, _ = l.fallback.Incr(ctx, key, ttl)
	}

	if l.enforce && n > l.limit {
		return apperr.TooManyRequests("Rate limit exceeded")
	}
	return nil
}

// Status 当前窗口的剩余次数与重置时间
func (l *RateLimiter) Status(ctx context.Context, viewerID int64) (RateLimitStatus, error) {
	key, resetAt := l.window(viewerID)

	used, err := l.counters.Get(ctx, key)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("viewer_id", viewerID).Msg("rate limit counter unavailable, using memory")
		used, _ = l.fallback.Get(ctx, key)
	}

	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}
	seconds := int64(resetAt.Sub(l.now()).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	return RateLimitStatus{
		RemainingHits:      remaining,
		HourlyLimit:        l.limit,
		ResetTime:          format.Date(resetAt),
		ResetTimeInSeconds: seconds,
	}, nil
}
