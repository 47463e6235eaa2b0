package handler

import (
	"context"
	"strconv"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/identity"
	"friendica_api/model"
	"friendica_api/pagination"
)

// RelationshipHandler 关注/粉丝列表，使用游标分页
type RelationshipHandler struct {
	contacts ContactStore
	resolver *identity.Resolver
	pager    *pagination.Engine
	users    *UserRenderer
}

func NewRelationshipHandler(contacts ContactStore, resolver *identity.Resolver, pager *pagination.Engine, users *UserRenderer) *RelationshipHandler {
	return &RelationshipHandler{contacts: contacts, resolver: resolver, pager: pager, users: users}
}

// cursorFields 分页响应共有的游标字段
type cursorFields struct {
	NextCursor        int64  `json:"next_cursor"`
	NextCursorStr     string `json:"next_cursor_str"`
	PreviousCursor    int64  `json:"previous_cursor"`
	PreviousCursorStr string `json:"previous_cursor_str"`
	TotalCount        int64  `json:"total_count"`
}

type idsPage struct {
	IDs []any `json:"ids"`
	cursorFields
}

type usersPage struct {
	Users []*User `json:"users"`
	cursorFields
}

func newCursorFields(p *pagination.Page) cursorFields {
	next, prev := p.NextCursor.Int64(), p.PreviousCursor.Int64()
	return cursorFields{
		NextCursor:        next,
		NextCursorStr:     strconv.FormatInt(next, 10),
		PreviousCursor:    prev,
		PreviousCursorStr: strconv.FormatInt(prev, 10),
		TotalCount:        p.TotalCount,
	}
}

// page 解析 user_id / screen_name / cursor / count 并计算一页
func (h *RelationshipHandler) page(ctx context.Context, req *api.Request, kinds []int) (*pagination.Page, error) {
	contactID, err := req.Int64Param("user_id", 0)
	if err != nil {
		return nil, err
	}

	owner, err := h.resolver.ResolveViewer(ctx, req.Viewer, contactID, req.Param("screen_name"))
	if err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursorParam(req.Param("cursor"))
	if err != nil {
		return nil, apperr.BadRequest("Invalid cursor")
	}

	count, err := countParam(req)
	if err != nil {
		return nil, err
	}

	return h.pager.Page(ctx, pagination.Query{
		Kinds:    kinds,
		OwnerID:  owner,
		CallerID: req.ViewerID(),
		Cursor:   cursor,
		Count:    count,
	})
}

func (h *RelationshipHandler) ids(ctx context.Context, req *api.Request, kinds []int) (*api.Result, error) {
	page, err := h.page(ctx, req, kinds)
	if err != nil {
		return nil, err
	}

	return api.NewResult("ids", idsPage{
		IDs:          page.WireIDs(req.BoolParam("stringify_ids")),
		cursorFields: newCursorFields(page),
	}), nil
}

// pageUsers 与 ids 接口一致，共享同一全局 ID 的联系人只渲染一次
func (h *RelationshipHandler) pageUsers(ctx context.Context, req *api.Request, page *pagination.Page) ([]*User, error) {
	contacts, err := h.contacts.ContactsByIDs(ctx, page.UniqueLocalIDs)
	if err != nil {
		return nil, err
	}
	return h.users.Users(ctx, req.Viewer, contacts)
}

func (h *RelationshipHandler) list(ctx context.Context, req *api.Request, kinds []int) (*api.Result, error) {
	page, err := h.page(ctx, req, kinds)
	if err != nil {
		return nil, err
	}

	users, err := h.pageUsers(ctx, req, page)
	if err != nil {
		return nil, err
	}

	return api.NewResult("lists", usersPage{Users: users, cursorFields: newCursorFields(page)}), nil
}

// legacyList statuses/friends 与 statuses/followers 只返回用户数组
func (h *RelationshipHandler) legacyList(ctx context.Context, req *api.Request, kinds []int) (*api.Result, error) {
	page, err := h.page(ctx, req, kinds)
	if err != nil {
		return nil, err
	}

	users, err := h.pageUsers(ctx, req, page)
	if err != nil {
		return nil, err
	}

	return &api.Result{Root: "users", Key: "user", Value: users}, nil
}

// FriendIDs friends/ids
func (h *RelationshipHandler) FriendIDs(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.ids(ctx, req, model.FriendKinds)
}

// FollowerIDs followers/ids
func (h *RelationshipHandler) FollowerIDs(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.ids(ctx, req, model.FollowerKinds)
}

// FriendList friends/list
func (h *RelationshipHandler) FriendList(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.list(ctx, req, model.FriendKinds)
}

// FollowerList followers/list
func (h *RelationshipHandler) FollowerList(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.list(ctx, req, model.FollowerKinds)
}

// StatusesFriends statuses/friends
func (h *RelationshipHandler) StatusesFriends(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.legacyList(ctx, req, model.FriendKinds)
}

// StatusesFollowers statuses/followers
func (h *RelationshipHandler) StatusesFollowers(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.legacyList(ctx, req, model.FollowerKinds)
}
