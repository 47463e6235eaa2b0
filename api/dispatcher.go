package api

import (
	"net/http"
	"strings"

	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/middleware"
	"friendica_api/model"
	"friendica_api/network"
	"friendica_api/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Dispatcher 把 /api/* 请求分发到已注册的接口
// 依次处理：查找接口、方法匹配、登录与授权范围、访问频率、调用处理函数、渲染
type Dispatcher struct {
	registry *Registry
	limiter  *RateLimiter
}

func NewDispatcher(registry *Registry, limiter *RateLimiter) *Dispatcher {
	return &Dispatcher{registry: registry, limiter: limiter}
}

// Handle gin 路由入口，挂载在 "/api/*path"
func (d *Dispatcher) Handle(c *gin.Context) {
	rawPath := strings.Trim(c.Param("path"), "/")
	path, f, _ := format.SplitExtension(rawPath)
	// 同一请求内渲染的所有联系人共享一次远程查询额度
	ctx := network.WithLookupBudget(c.Request.Context(), network.LookupsPerRequest)

	name, endpoint, args, ok := d.registry.Lookup(path)
	if !ok {
		log.Ctx(ctx).Debug().Str("path", rawPath).Msg("api endpoint not found")
		utils.ErrorResponse(c, f, apperr.NotFound("API endpoint not found"), "")
		return
	}
	request := "api/" + rawPath

	if !endpoint.Allows(c.Request.Method) {
		utils.ErrorResponse(c, f, apperr.MethodNotAllowed("Method not allowed for this endpoint"), request)
		return
	}

	viewer, _ := middleware.GetViewer(c)
	if err := d.authorize(endpoint, viewer); err != nil {
		utils.ErrorResponse(c, f, err, request)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		utils.ErrorResponse(c, f, apperr.BadRequest("Invalid request parameters"), request)
		return
	}

	if viewer != nil && !endpoint.SkipRateLimit && d.limiter != nil {
		if err := d.limiter.Hit(ctx, viewer.ID); err != nil {
			utils.ErrorResponse(c, f, err, request)
			return
		}
	}

	req := &Request{
		Method: c.Request.Method,
		Path:   name,
		Args:   args,
		Params: c.Request.Form,
		Viewer: viewer,
		Format: f,
	}

	result, err := endpoint.Handler(ctx, req)
	if err != nil {
		if apperr.From(err).Code != apperr.CodeInternal {
			log.Ctx(ctx).Debug().Err(err).Str("path", name).Msg("api request rejected")
		}
		utils.ErrorResponse(c, f, err, request)
		return
	}
	if result == nil {
		log.Ctx(ctx).Error().Str("path", name).Msg("api handler returned no result")
		utils.ErrorResponse(c, f, apperr.Internal("", nil), request)
		return
	}

	utils.WriteDocument(c, http.StatusOK, f, result.Document())
}

func (d *Dispatcher) authorize(e Endpoint, viewer *model.Viewer) error {
	if !e.Auth && e.Scope == "" {
		return nil
	}
	if viewer == nil {
		return apperr.Unauthorized("This API requires login")
	}
	if e.Scope != "" && !viewer.HasScope(e.Scope) {
		return apperr.Forbidden("This API requires " + e.Scope + " access")
	}
	return nil
}
