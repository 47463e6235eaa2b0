package handler

import (
	"context"

	"friendica_api/api"
	"friendica_api/apperr"
)

// AccountHandler account/*
type AccountHandler struct {
	contacts ContactStore
	users    *UserRenderer
	limiter  *api.RateLimiter
}

func NewAccountHandler(contacts ContactStore, users *UserRenderer, limiter *api.RateLimiter) *AccountHandler {
	return &AccountHandler{contacts: contacts, users: users, limiter: limiter}
}

// VerifyCredentials 返回调用者自己的用户对象
func (h *AccountHandler) VerifyCredentials(ctx context.Context, req *api.Request) (*api.Result, error) {
	self, err := h.contacts.SelfContact(ctx, req.ViewerID())
	if err != nil {
		return nil, err
	}
	if self == nil {
		return nil, apperr.Unauthorized("This API requires login")
	}

	user, err := h.users.User(ctx, req.Viewer, self)
	if err != nil {
		return nil, err
	}
	return api.NewResult("user", user), nil
}

// RateLimitStatus 当前小时剩余的调用次数
func (h *AccountHandler) RateLimitStatus(ctx context.Context, req *api.Request) (*api.Result, error) {
	status, err := h.limiter.Status(ctx, req.ViewerID())
	if err != nil {
		return nil, err
	}
	return api.NewResult("hash", status), nil
}
