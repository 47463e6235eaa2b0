package handler

import (
	"context"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/identity"
	"friendica_api/service"
)

// StatusHandler 时间线、单条帖子与收藏
type StatusHandler struct {
	posts    PostStore
	resolver *identity.Resolver
	users    *UserRenderer
}

func NewStatusHandler(posts PostStore, resolver *identity.Resolver, users *UserRenderer) *StatusHandler {
	return &StatusHandler{posts: posts, resolver: resolver, users: users}
}

func (h *StatusHandler) timeline(ctx context.Context, req *api.Request, q service.TimelineQuery) (*api.Result, error) {
	p, err := parseListParams(req)
	if err != nil {
		return nil, err
	}
	q.Count, q.Page, q.SinceID, q.MaxID = p.Count, p.Page, p.SinceID, p.MaxID
	q.ExcludeReplies = req.BoolParam("exclude_replies")

	posts, err := h.posts.Timeline(ctx, q)
	if err != nil {
		return nil, err
	}

	statuses, err := h.users.Statuses(ctx, req.Viewer, posts)
	if err != nil {
		return nil, err
	}
	return &api.Result{Root: "statuses", Key: "status", Value: statuses}, nil
}

// HomeTimeline statuses/home_timeline 与 statuses/friends_timeline
func (h *StatusHandler) HomeTimeline(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.timeline(ctx, req, service.TimelineQuery{Kind: service.TimelineHome, UID: req.ViewerID()})
}

// PublicTimeline statuses/public_timeline
func (h *StatusHandler) PublicTimeline(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.timeline(ctx, req, service.TimelineQuery{Kind: service.TimelinePublic})
}

// UserTimeline statuses/user_timeline，他人的时间线只包含公开帖子
func (h *StatusHandler) UserTimeline(ctx context.Context, req *api.Request) (*api.Result, error) {
	contactID, err := req.Int64Param("user_id", 0)
	if err != nil {
		return nil, err
	}
	owner, err := h.resolver.ResolveViewer(ctx, req.Viewer, contactID, req.Param("screen_name"))
	if err != nil {
		return nil, err
	}

	return h.timeline(ctx, req, service.TimelineQuery{
		Kind:       service.TimelineUser,
		UID:        owner,
		PublicOnly: owner != req.ViewerID(),
	})
}

// Mentions statuses/mentions 与 statuses/replies
func (h *StatusHandler) Mentions(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.timeline(ctx, req, service.TimelineQuery{Kind: service.TimelineMentions, UID: req.ViewerID()})
}

// Favorites 收藏的帖子
func (h *StatusHandler) Favorites(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.timeline(ctx, req, service.TimelineQuery{Kind: service.TimelineFavorites, UID: req.ViewerID()})
}

// Show statuses/show/<id> 或 ?id=
func (h *StatusHandler) Show(ctx context.Context, req *api.Request) (*api.Result, error) {
	id, err := idParam(req, "id")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, apperr.BadRequest("An id is missing")
	}

	post, err := h.posts.PostByID(ctx, req.ViewerID(), id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("There is no status with this id")
	}

	status, err := h.users.Status(ctx, req.Viewer, post)
	if err != nil {
		return nil, err
	}
	return api.NewResult("status", status), nil
}

// CreateFavorite favorites/create
func (h *StatusHandler) CreateFavorite(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.star(ctx, req, true)
}

// DestroyFavorite favorites/destroy
func (h *StatusHandler) DestroyFavorite(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.star(ctx, req, false)
}

func (h *StatusHandler) star(ctx context.Context, req *api.Request, starred bool) (*api.Result, error) {
	id, err := idParam(req, "id")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, apperr.BadRequest("Invalid argument")
	}

	post, err := h.posts.SetStarred(ctx, req.ViewerID(), id, starred)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("Invalid item")
	}

	status, err := h.users.Status(ctx, req.Viewer, post)
	if err != nil {
		return nil, err
	}
	return api.NewResult("status", status), nil
}
