package model

import (
	"strings"
	"time"
)

// 关系类型（contact.rel）
const (
	RelFollower = 1 // 对方关注我
	RelSharing  = 2 // 我关注对方
	RelFriend   = 3 // 互相关注
)

// FriendKinds friends/ids 等接口使用的关系类型
var FriendKinds = []int{RelSharing, RelFriend}

// FollowerKinds followers/ids 等接口使用的关系类型
var FollowerKinds = []int{RelFollower, RelFriend}

// Contact 联系人表
// UID 为 0 的记录是全站共享的公共联系人（全局 ID），其余记录归属于某个本地用户
type Contact struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UID       int64     `json:"uid" gorm:"column:uid;not null;index:idx_contact_uid_rel"`
	Self      bool      `json:"self" gorm:"default:false"`
	Rel       int       `json:"rel" gorm:"not null;default:0;index:idx_contact_uid_rel"`
	Nick      string    `json:"nick" gorm:"type:varchar(255);not null;default:''"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;default:''"`
	URL       string    `json:"url" gorm:"column:url;type:varchar(255);not null;default:''"`
	NURL      string    `json:"nurl" gorm:"column:nurl;type:varchar(255);not null;default:'';index"`
	Network   string    `json:"network" gorm:"type:varchar(4);not null;default:''"`
	Photo     string    `json:"photo" gorm:"type:varchar(255);not null;default:''"`
	About     string    `json:"about" gorm:"type:text"`
	Location  string    `json:"location" gorm:"type:varchar(255);not null;default:''"`
	Hidden    bool      `json:"hidden" gorm:"default:false"`
	Archive   bool      `json:"archive" gorm:"default:false"`
	Pending   bool      `json:"pending" gorm:"default:false"`
	Deleted   bool      `json:"deleted" gorm:"default:false"`
	Blocked   bool      `json:"blocked" gorm:"default:false"`
	CreatedAt time.Time `json:"created" gorm:"column:created;autoCreateTime"`
}

func (Contact) TableName() string {
	return "contact"
}

// NormalizeURL 规范化主页地址（忽略协议与大小写），用于跨用户匹配同一身份
func NormalizeURL(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	return "http://" + strings.TrimSuffix(url, "/")
}
