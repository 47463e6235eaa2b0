package handler

import (
	"net/http"

	"friendica_api/api"
	"friendica_api/model"
)

// Handlers 全部接口处理器
type Handlers struct {
	Site         *SiteHandler
	Account      *AccountHandler
	User         *UserHandler
	Relationship *RelationshipHandler
	Status       *StatusHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	Photo        *PhotoHandler
}

const (
	methodGet        = http.MethodGet
	methodPost       = http.MethodPost
	methodPostDelete = http.MethodPost + "," + http.MethodDelete
)

func public(h api.HandlerFunc) api.Endpoint {
	return api.Endpoint{Method: api.MethodAny, Handler: h}
}

func read(method string, h api.HandlerFunc) api.Endpoint {
	return api.Endpoint{Method: method, Auth: true, Handler: h}
}

func write(method string, h api.HandlerFunc) api.Endpoint {
	return api.Endpoint{Method: method, Auth: true, Scope: model.ScopeWrite, Handler: h}
}

// RegisterRoutes 注册全部旧版 API 路径
func RegisterRoutes(r *api.Registry, h Handlers) {
	// 站点
	r.Register("help/test", public(h.Site.Test))
	for _, prefix := range []string{"statusnet", "gnusocial"} {
		r.Register(prefix+"/config", public(h.Site.Config))
		r.Register(prefix+"/version", public(h.Site.Version))
	}

	// 账号
	r.Register("account/verify_credentials", read(methodGet, h.Account.VerifyCredentials))
	rateLimit := read(methodGet, h.Account.RateLimitStatus)
	rateLimit.SkipRateLimit = true
	r.Register("account/rate_limit_status", rateLimit)

	// 用户
	r.Register("users/show", read(methodGet, h.User.Show))
	r.Register("users/search", read(methodGet, h.User.Search))
	r.Register("users/lookup", read(methodGet, h.User.Lookup))

	// 关注关系
	r.Register("friends/ids", read(methodGet, h.Relationship.FriendIDs))
	r.Register("followers/ids", read(methodGet, h.Relationship.FollowerIDs))
	r.Register("friends/list", read(methodGet, h.Relationship.FriendList))
	r.Register("followers/list", read(methodGet, h.Relationship.FollowerList))
	r.Register("statuses/friends", read(methodGet, h.Relationship.StatusesFriends))
	r.Register("statuses/followers", read(methodGet, h.Relationship.StatusesFollowers))

	// 帖子
	r.Register("statuses/home_timeline", read(methodGet, h.Status.HomeTimeline))
	r.Register("statuses/friends_timeline", read(methodGet, h.Status.HomeTimeline))
	r.Register("statuses/public_timeline", read(methodGet, h.Status.PublicTimeline))
	r.Register("statuses/user_timeline", read(methodGet, h.Status.UserTimeline))
	r.Register("statuses/mentions", read(methodGet, h.Status.Mentions))
	r.Register("statuses/replies", read(methodGet, h.Status.Mentions))
	r.Register("statuses/show", read(methodGet, h.Status.Show))
	r.Register("favorites", read(methodGet, h.Status.Favorites))
	r.Register("favorites/create", write(methodPost, h.Status.CreateFavorite))
	r.Register("favorites/destroy", write(methodPost, h.Status.DestroyFavorite))

	// 私信
	r.Register("direct_messages", read(methodGet, h.Message.Inbox))
	r.Register("direct_messages/sent", read(methodGet, h.Message.Sent))
	r.Register("direct_messages/all", read(methodGet, h.Message.All))
	r.Register("direct_messages/conversation", read(methodGet, h.Message.Conversation))
	r.Register("direct_messages/new", write(methodPost, h.Message.New))
	r.Register("direct_messages/destroy", write(methodPostDelete, h.Message.Destroy))

	// 通知
	r.Register("friendica/notification", read(methodGet, h.Notification.List))
	r.Register("friendica/notification/seen", write(methodPost, h.Notification.Seen))

	// 相册
	r.Register("friendica/photos/list", read(methodGet, h.Photo.List))
	r.Register("friendica/photoalbum/delete", write(methodPostDelete, h.Photo.DeleteAlbum))
	r.Register("friendica/photoalbum/update", write(methodPost, h.Photo.UpdateAlbum))
}
