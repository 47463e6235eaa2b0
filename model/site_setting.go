package model

import "time"

// SiteSetting 站点配置（config 表，按 cat + k 唯一）
type SiteSetting struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Cat       string    `json:"cat" gorm:"type:varchar(50);not null;uniqueIndex:idx_config_cat_k"`
	Key       string    `json:"k" gorm:"column:k;type:varchar(50);not null;uniqueIndex:idx_config_cat_k"`
	Value     string    `json:"v" gorm:"column:v;type:text"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SiteSetting) TableName() string {
	return "config"
}
