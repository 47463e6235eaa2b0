package model

import "time"

// Mail 私信表
type Mail struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID       int64     `json:"uid" gorm:"column:uid;not null;index"`
	GUID      string    `json:"guid" gorm:"column:guid;type:varchar(255);not null;default:''"`
	ContactID int64     `json:"contact-id" gorm:"column:contact-id;not null;default:0"` // 对话另一方（uid 作用域内的联系人）
	ConvID    int64     `json:"convid" gorm:"column:convid;not null;default:0;index"`
	FromName  string    `json:"from-name" gorm:"column:from-name;type:varchar(255);not null;default:''"`
	FromPhoto string    `json:"from-photo" gorm:"column:from-photo;type:varchar(255);not null;default:''"`
	FromURL   string    `json:"from-url" gorm:"column:from-url;type:varchar(255);not null;default:''"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null;default:''"`
	Body      string    `json:"body" gorm:"type:text"`
	Seen      bool      `json:"seen" gorm:"default:false"`
	Reply     bool      `json:"reply" gorm:"default:false"`
	URI       string    `json:"uri" gorm:"type:varchar(255);not null;default:''"`
	ParentURI string    `json:"parent-uri" gorm:"column:parent-uri;type:varchar(255);not null;default:'';index"`
	CreatedAt time.Time `json:"created" gorm:"column:created;autoCreateTime"`
}

func (Mail) TableName() string {
	return "mail"
}
