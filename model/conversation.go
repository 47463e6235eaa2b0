package model

import "time"

// Conversation 私信会话表
type Conversation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID       int64     `json:"uid" gorm:"column:uid;not null;index"`
	GUID      string    `json:"guid" gorm:"column:guid;type:varchar(255);not null;default:''"`
	Creator   string    `json:"creator" gorm:"type:varchar(255);not null;default:''"`
	Recips    string    `json:"recips" gorm:"type:text"` // 参与者地址，以 ";" 分隔
	Subject   string    `json:"subject" gorm:"type:text"`
	CreatedAt time.Time `json:"created" gorm:"column:created;autoCreateTime"`
	UpdatedAt time.Time `json:"updated" gorm:"column:updated;autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conv"
}
