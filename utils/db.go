package utils

import (
	"context"
	"errors"
	"time"

	"friendica_api/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// GormLogger GORM 日志器：只打印慢查询和真实错误
type GormLogger struct {
	SlowThreshold time.Duration // 慢查询阈值
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Ctx(ctx).Warn().Msgf(msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Ctx(ctx).Error().Msgf(msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query failed")
	case l.SlowThreshold > 0 && elapsed >= l.SlowThreshold:
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow sql")
	}
}

// InitDB 初始化数据库连接
func InitDB(databaseURL string, autoMigrate bool) error {
	var err error
	DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: &GormLogger{
			SlowThreshold: 100 * time.Millisecond, // 慢查询阈值：100ms
		},
	})
	if err != nil {
		return err
	}

	// 获取底层的 sql.DB 以配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 连接池配置
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)

	if autoMigrate {
		if err := DB.AutoMigrate(
			&model.User{},
			&model.Contact{},
			&model.Post{},
			&model.Conversation{},
			&model.Mail{},
			&model.Notification{},
			&model.Photo{},
			&model.SiteSetting{},
		); err != nil {
			return err
		}
	}

	log.Info().Msg("Database connected")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// CloseDB 关闭数据库连接
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
