package handler

import (
	"context"
	"regexp"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/model"
)

const notificationLimit = 50

// bbcodeTag 通知正文中的 BBCode 标签，例如 [url=...] 与 [/url]
var bbcodeTag = regexp.MustCompile(`\[/?[a-z]+(=[^\]]*)?\]`)

// Note friendica/notification 的通知对象
type Note struct {
	ID        int64  `json:"id"`
	Type      int    `json:"type"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Photo     string `json:"photo"`
	Date      string `json:"date"`
	Msg       string `json:"msg"`
	MsgPlain  string `json:"msg_plain"`
	UID       int64  `json:"uid"`
	Link      string `json:"link"`
	IID       int64  `json:"iid"`
	Parent    int64  `json:"parent"`
	Seen      bool   `json:"seen"`
	Verb      string `json:"verb"`
	Timestamp int64  `json:"timestamp"`
}

// NotificationHandler friendica/notification*
type NotificationHandler struct {
	notes NotificationStore
	posts PostStore
	users *UserRenderer
}

func NewNotificationHandler(notes NotificationStore, posts PostStore, users *UserRenderer) *NotificationHandler {
	return &NotificationHandler{notes: notes, posts: posts, users: users}
}

// List friendica/notification，最近 50 条
func (h *NotificationHandler) List(ctx context.Context, req *api.Request) (*api.Result, error) {
	list, err := h.notes.GetNotifications(ctx, req.ViewerID(), notificationLimit)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(list))
	for i := range list {
		notes = append(notes, newNote(&list[i]))
	}
	return &api.Result{Root: "notes", Key: "note", Value: notes}, nil
}

func newNote(n *model.Notification) Note {
	return Note{
		ID:        n.ID,
		Type:      n.Type,
		Name:      n.Name,
		URL:       n.URL,
		Photo:     n.Photo,
		Date:      format.Date(n.Date),
		Msg:       n.Msg,
		MsgPlain:  bbcodeTag.ReplaceAllString(n.Msg, ""),
		UID:       n.UID,
		Link:      n.Link,
		IID:       n.PostID,
		Parent:    n.Parent,
		Seen:      n.Seen,
		Verb:      n.Verb,
		Timestamp: n.Date.Unix(),
	}
}

// Seen friendica/notification/seen
// 关联帖子存在时返回帖子，否则返回 success
func (h *NotificationHandler) Seen(ctx context.Context, req *api.Request) (*api.Result, error) {
	id, err := idParam(req, "id")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, apperr.BadRequest("Invalid argument")
	}

	note, err := h.notes.GetNotification(ctx, req.ViewerID(), id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.BadRequest("Invalid argument")
	}

	if err := h.notes.MarkSeen(ctx, note); err != nil {
		return nil, err
	}

	if note.PostID > 0 {
		post, err := h.posts.PostByID(ctx, req.ViewerID(), note.PostID)
		if err != nil {
			return nil, err
		}
		if post != nil {
			status, err := h.users.Status(ctx, req.Viewer, post)
			if err != nil {
				return nil, err
			}
			return &api.Result{Root: "statuses", Key: "status", Value: []*Status{status}}, nil
		}
	}

	return api.NewResult("result", "success"), nil
}
