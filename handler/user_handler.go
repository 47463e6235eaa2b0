package handler

import (
	"context"
	"strconv"
	"strings"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/identity"
	"friendica_api/model"
)

// UserHandler users/*
type UserHandler struct {
	contacts ContactStore
	resolver *identity.Resolver
	users    *UserRenderer
}

func NewUserHandler(contacts ContactStore, resolver *identity.Resolver, users *UserRenderer) *UserHandler {
	return &UserHandler{contacts: contacts, resolver: resolver, users: users}
}

// Show users/show，支持 user_id、screen_name 或路径参数
func (h *UserHandler) Show(ctx context.Context, req *api.Request) (*api.Result, error) {
	contact, err := h.targetContact(ctx, req)
	if err != nil {
		return nil, err
	}

	user, err := h.users.User(ctx, req.Viewer, contact)
	if err != nil {
		return nil, err
	}
	return api.NewResult("user", user), nil
}

// targetContact 解析请求指向的联系人，默认是调用者自己
func (h *UserHandler) targetContact(ctx context.Context, req *api.Request) (*model.Contact, error) {
	userID, err := req.Int64Param("user_id", 0)
	if err != nil {
		return nil, err
	}
	screenName := req.Param("screen_name")

	// users/show/<id> 或 users/show/<screen_name>
	if arg := req.Arg(0); arg != "" && userID == 0 && screenName == "" {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			userID = id
		} else {
			screenName = arg
		}
	}

	return h.resolver.ResolveContact(ctx, req.Viewer, userID, screenName)
}

// Search users/search
func (h *UserHandler) Search(ctx context.Context, req *api.Request) (*api.Result, error) {
	q := req.Param("q")
	if q == "" {
		return nil, apperr.BadRequest("No search term specified")
	}

	p, err := parseListParams(req)
	if err != nil {
		return nil, err
	}

	contacts, err := h.contacts.SearchContacts(ctx, q, p.Count, (p.Page-1)*p.Count)
	if err != nil {
		return nil, err
	}

	users, err := h.users.Users(ctx, req.Viewer, contacts)
	if err != nil {
		return nil, err
	}
	return &api.Result{Root: "users", Key: "user", Value: users}, nil
}

// Lookup users/lookup，user_id 为逗号分隔的联系人 ID
func (h *UserHandler) Lookup(ctx context.Context, req *api.Request) (*api.Result, error) {
	var ids []int64
	for _, raw := range strings.Split(req.Param("user_id"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.BadRequest("Invalid user_id")
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound("User not found")
	}

	contacts, err := h.contacts.ContactsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	visible := contacts[:0]
	for _, c := range contacts {
		if !c.Deleted {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 {
		return nil, apperr.NotFound("User not found")
	}

	users, err := h.users.Users(ctx, req.Viewer, visible)
	if err != nil {
		return nil, err
	}
	return &api.Result{Root: "users", Key: "user", Value: users}, nil
}
