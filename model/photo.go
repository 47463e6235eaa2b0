package model

import "time"

// Photo 相册图片表（图片数据由外部存储负责，这里只保存元数据）
type Photo struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID        int64     `json:"uid" gorm:"column:uid;not null;index"`
	ResourceID string    `json:"resource-id" gorm:"column:resource-id;type:varchar(255);not null;index"`
	Album      string    `json:"album" gorm:"type:varchar(255);not null;default:''"`
	Filename   string    `json:"filename" gorm:"type:varchar(255);not null;default:''"`
	Type       string    `json:"type" gorm:"type:varchar(128);not null;default:'image/jpeg'"`
	Desc       string    `json:"desc" gorm:"column:desc;type:text"`
	Scale      int       `json:"scale" gorm:"not null;default:0"`
	Width      int       `json:"width" gorm:"not null;default:0"`
	Height     int       `json:"height" gorm:"not null;default:0"`
	Profile    bool      `json:"profile" gorm:"default:false"`
	CreatedAt  time.Time `json:"created" gorm:"column:created;autoCreateTime"`
	UpdatedAt  time.Time `json:"edited" gorm:"column:edited;autoUpdateTime"`
}

func (Photo) TableName() string {
	return "photo"
}
