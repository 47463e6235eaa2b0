package handler

import (
	"context"

	"friendica_api/model"
	"friendica_api/service"
)

// ContactStore 联系人查询，由 service.ContactService 实现
type ContactStore interface {
	UserByID(ctx context.Context, uid int64) (*model.User, error)
	SelfContact(ctx context.Context, uid int64) (*model.Contact, error)
	ContactByID(ctx context.Context, id int64) (*model.Contact, error)
	ContactByNick(ctx context.Context, uid int64, nick string) (*model.Contact, error)
	ContactsByIDs(ctx context.Context, ids []int64) ([]model.Contact, error)
	SearchContacts(ctx context.Context, q string, limit, offset int) ([]model.Contact, error)
	CountRelationsOf(ctx context.Context, uid int64, kinds []int) (int64, error)
	IsFollowing(ctx context.Context, uid int64, nurl string) (bool, error)
}

// PostStore 帖子查询，由 service.PostService 实现
type PostStore interface {
	Timeline(ctx context.Context, q service.TimelineQuery) ([]model.Post, error)
	PostByID(ctx context.Context, uid, id int64) (*model.Post, error)
	SetStarred(ctx context.Context, uid, id int64, starred bool) (*model.Post, error)
	CountPosts(ctx context.Context, uid int64) (int64, error)
	CountStarred(ctx context.Context, uid int64) (int64, error)
}

// MailStore 私信，由 service.MailService 实现
type MailStore interface {
	List(ctx context.Context, q service.MailQuery) ([]model.Mail, error)
	MarkSeen(ctx context.Context, uid int64, ids []int64) error
	MailByID(ctx context.Context, uid, id int64) (*model.Mail, error)
	Send(ctx context.Context, m service.NewMail) (*model.Mail, error)
	Delete(ctx context.Context, uid, id int64, parentURI string) (bool, error)
}

// NotificationStore 通知，由 service.NotificationService 实现
type NotificationStore interface {
	GetNotifications(ctx context.Context, uid int64, limit int) ([]model.Notification, error)
	GetNotification(ctx context.Context, uid, id int64) (*model.Notification, error)
	MarkSeen(ctx context.Context, n *model.Notification) error
}

// PhotoStore 相册，由 service.PhotoService 实现
type PhotoStore interface {
	ListPhotos(ctx context.Context, uid int64) ([]model.Photo, error)
	DeleteAlbum(ctx context.Context, uid int64, album string) (bool, error)
	RenameAlbum(ctx context.Context, uid int64, album, newName string) (bool, error)
}

// SettingsStore 站点配置，由 service.SiteSettingsService 实现
type SettingsStore interface {
	GetString(cat, key, defaultValue string) string
	GetBool(cat, key string, defaultValue bool) bool
}
