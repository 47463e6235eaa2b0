package service

import (
	"context"
	"fmt"
	"sync"

	"friendica_api/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettingsService 站点配置服务（config 表，启动时加载到内存）
type SiteSettingsService struct {
	db              *gorm.DB
	settingsCache   map[string]string
	settingsCacheMu sync.RWMutex
}

func NewSiteSettingsService(db *gorm.DB) *SiteSettingsService {
	return &SiteSettingsService{
		db:            db,
		settingsCache: make(map[string]string),
	}
}

func settingKey(cat, key string) string {
	return cat + "." + key
}

// LoadSettings 从数据库加载所有配置到内存缓存
func (s *SiteSettingsService) LoadSettings(ctx context.Context) error {
	var settings []model.SiteSetting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return fmt.Errorf("failed to load site settings: %w", err)
	}

	s.settingsCacheMu.Lock()
	defer s.settingsCacheMu.Unlock()

	for _, setting := range settings {
		s.settingsCache[settingKey(setting.Cat, setting.Key)] = setting.Value
	}

	return nil
}

// GetSetting 获取配置值（从缓存）
func (s *SiteSettingsService) GetSetting(cat, key string) (string, bool) {
	s.settingsCacheMu.RLock()
	defer s.settingsCacheMu.RUnlock()

	value, exists := s.settingsCache[settingKey(cat, key)]
	return value, exists
}

// GetString 获取配置，不存在时返回默认值
func (s *SiteSettingsService) GetString(cat, key, defaultValue string) string {
	if value, ok := s.GetSetting(cat, key); ok && value != "" {
		return value
	}
	return defaultValue
}

// GetBool 获取布尔类型配置
func (s *SiteSettingsService) GetBool(cat, key string, defaultValue bool) bool {
	value, exists := s.GetSetting(cat, key)
	if !exists {
		return defaultValue
	}
	return value == "true" || value == "1"
}

// UpdateSetting 写入配置（同时更新数据库和缓存）
func (s *SiteSettingsService) UpdateSetting(ctx context.Context, cat, key, value string) error {
	setting := model.SiteSetting{Cat: cat, Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cat"}, {Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	s.settingsCacheMu.Lock()
	s.settingsCache[settingKey(cat, key)] = value
	s.settingsCacheMu.Unlock()

	return nil
}

// AllSettings 当前缓存的全部配置（副本）
func (s *SiteSettingsService) AllSettings() map[string]string {
	s.settingsCacheMu.RLock()
	defer s.settingsCacheMu.RUnlock()

	settings := make(map[string]string, len(s.settingsCache))
	for k, v := range s.settingsCache {
		settings[k] = v
	}
	return settings
}
