package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	AutoMigrate   bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	RedisURL      string `envconfig:"REDIS_URL" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	JWTSecret     string `envconfig:"JWT_SECRET"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	// 站点地址，用于判断联系人是否为本站用户（<BaseURL>/profile/<nick>）
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	SiteName string `envconfig:"SITE_NAME" default:"Friendica Social Network"`

	// API 访问频率（每小时）
	HourlyLimit          int           `envconfig:"API_HOURLY_LIMIT" default:"150"`
	RateLimitEnforce     bool          `envconfig:"API_RATE_LIMIT_ENFORCE" default:"false"`
	NetworkLookupTimeout time.Duration `envconfig:"NETWORK_LOOKUP_TIMEOUT" default:"5s"`

	// 私信投递队列（由联邦投递进程消费）
	DeliveryQueue string `envconfig:"DELIVERY_QUEUE" default:"delivery:mail"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load 读取 .env 与环境变量
func Load() (*Config, error) {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
