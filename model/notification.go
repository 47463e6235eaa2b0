package model

import "time"

// 通知类型（notify.type）
const (
	NotifyIntro    = 1
	NotifyConfirm  = 2
	NotifyWall     = 4
	NotifyComment  = 8
	NotifyMail     = 16
	NotifySuggest  = 32
	NotifyTagSelf  = 128
	NotifyPoke     = 512
	NotifyShare    = 1024
	NotifyBirthday = 8192
)

// Notification 通知表
type Notification struct {
	ID     int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID    int64     `json:"uid" gorm:"column:uid;not null;index"`
	Type   int       `json:"type" gorm:"not null;default:0"`
	Name   string    `json:"name" gorm:"type:varchar(255);not null;default:''"`
	URL    string    `json:"url" gorm:"type:varchar(255);not null;default:''"`
	Photo  string    `json:"photo" gorm:"type:varchar(255);not null;default:''"`
	Msg    string    `json:"msg" gorm:"type:text"`
	Link   string    `json:"link" gorm:"type:varchar(255);not null;default:''"`
	PostID int64     `json:"iid" gorm:"column:iid;not null;default:0"`
	Parent int64     `json:"parent" gorm:"not null;default:0"`
	Verb   string    `json:"verb" gorm:"type:varchar(100);not null;default:''"`
	Seen   bool      `json:"seen" gorm:"default:false"`
	Date   time.Time `json:"date" gorm:"column:date;autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notify"
}
