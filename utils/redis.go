package utils

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var rdb *redis.Client

// redisOptions 支持 host:port 与 redis:// 两种写法，URL 中的密码和库号优先
func redisOptions(addr, password string, db int) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		if opts.Password == "" {
			opts.Password = password
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr, Password: password, DB: db}, nil
}

// InitRedis 初始化 Redis 连接（限流计数与私信投递队列）
func InitRedis(addr, password string, db int) error {
	opts, err := redisOptions(addr, password, db)
	if err != nil {
		return err
	}
	rdb = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrapf(err, "ping redis %s", opts.Addr)
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Redis connected")
	return nil
}

// GetRedis 获取 Redis 客户端
func GetRedis() *redis.Client {
	return rdb
}

// CloseRedis 关闭 Redis 连接
func CloseRedis() error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}
