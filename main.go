package main

import (
	"context"
	"time"

	"friendica_api/api"
	"friendica_api/config"
	"friendica_api/handler"
	"friendica_api/identity"
	"friendica_api/middleware"
	"friendica_api/network"
	"friendica_api/pagination"
	"friendica_api/service"
	"friendica_api/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func init() {
	// 服务端统一使用 UTC
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	utils.InitLogger("friendica_api", cfg.LogLevel)

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL, cfg.AutoMigrate); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer utils.CloseDB()

	// 初始化 Redis
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer utils.CloseRedis()

	// 初始化认证中间件
	middleware.InitAuth(cfg.JWTSecret)

	db := utils.GetDB()

	// 站点配置（启动时加载到内存）
	settingsSvc := service.NewSiteSettingsService(db)
	if err := settingsSvc.LoadSettings(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to load site settings, using defaults")
	}

	// 创建服务
	contactSvc := service.NewContactService(db)
	postSvc := service.NewPostService(db)
	mailSvc := service.NewMailService(db, service.NewRedisDeliveryQueue(utils.GetRedis(), cfg.DeliveryQueue), cfg.BaseURL)
	notifSvc := service.NewNotificationService(db)
	photoSvc := service.NewPhotoService(db)

	resolver := identity.NewResolver(contactSvc, cfg.BaseURL)
	pager := pagination.NewEngine(contactSvc, contactSvc, resolver)
	matcher := network.NewMatcher(network.NewStatusNetLookup(cfg.NetworkLookupTimeout))
	limiter := api.NewRateLimiter(api.NewRedisCounters(utils.GetRedis()), cfg.HourlyLimit, cfg.RateLimitEnforce)

	// 创建处理器
	users := handler.NewUserRenderer(contactSvc, postSvc, resolver, matcher)
	registry := api.NewRegistry()
	handler.RegisterRoutes(registry, handler.Handlers{
		Site:         handler.NewSiteHandler(settingsSvc, cfg.BaseURL, cfg.SiteName),
		Account:      handler.NewAccountHandler(contactSvc, users, limiter),
		User:         handler.NewUserHandler(contactSvc, resolver, users),
		Relationship: handler.NewRelationshipHandler(contactSvc, resolver, pager, users),
		Status:       handler.NewStatusHandler(postSvc, resolver, users),
		Message:      handler.NewMessageHandler(contactSvc, mailSvc, users),
		Notification: handler.NewNotificationHandler(notifSvc, postSvc, users),
		Photo:        handler.NewPhotoHandler(photoSvc, cfg.BaseURL),
	})

	// 创建 Gin 路由
	r := gin.New()
	r.Use(
		middleware.ErrorHandlerMiddleware(),
		middleware.RequestIDMiddleware(),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
		middleware.AuthMiddleware(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 旧版 API：全部路径交给 Dispatcher
	r.Any("/api/*path", api.NewDispatcher(registry, limiter).Handle)

	// 站点管理
	handler.RegisterAdminRoutes(r, handler.NewSiteSettingsHandler(settingsSvc))

	// 启动服务
	log.Info().Str("port", cfg.Port).Int("endpoints", len(registry.Paths())).Msg("friendica_api service starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
