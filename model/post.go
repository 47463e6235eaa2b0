package model

import "time"

// Post 帖子表（由外部投递流程写入，本服务只读，收藏标记除外）
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID       int64     `json:"uid" gorm:"column:uid;not null;index"` // 帖子所属的用户视图，0 表示公共帖子
	ContactID int64     `json:"contact_id" gorm:"not null;index"`     // 作者（uid 作用域内的联系人）
	ParentID  int64     `json:"parent" gorm:"column:parent;not null;default:0"`
	ReplyToID int64     `json:"thr_parent_id" gorm:"column:thr_parent_id;not null;default:0"`
	URI       string    `json:"uri" gorm:"type:varchar(255);not null;default:''"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null;default:''"`
	Body      string    `json:"body" gorm:"type:text"`
	App       string    `json:"app" gorm:"type:varchar(255);not null;default:''"`
	Private   bool      `json:"private" gorm:"default:false"`
	Wall      bool      `json:"wall" gorm:"default:false"`
	Starred   bool      `json:"starred" gorm:"default:false"`
	Mention   bool      `json:"mention" gorm:"default:false"`
	Deleted   bool      `json:"deleted" gorm:"default:false"`
	CreatedAt time.Time `json:"created" gorm:"column:created;autoCreateTime;index"`
}

func (Post) TableName() string {
	return "post"
}
