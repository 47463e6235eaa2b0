package model

import "time"

// User 本地用户表
type User struct {
	UID         int64     `json:"uid" gorm:"column:uid;primaryKey;autoIncrement"`
	Nickname    string    `json:"nickname" gorm:"type:varchar(255);not null;uniqueIndex"`
	Username    string    `json:"username" gorm:"type:varchar(255);not null;default:''"`
	Timezone    string    `json:"timezone" gorm:"type:varchar(128);not null;default:'UTC'"`
	HideFriends bool      `json:"hide_friends" gorm:"column:hide_friends;default:false"` // 对他人隐藏关注/粉丝列表
	Blocked     bool      `json:"blocked" gorm:"default:false"`
	CreatedAt   time.Time `json:"register_date" gorm:"column:register_date;autoCreateTime"`
}

func (User) TableName() string {
	return "user"
}
