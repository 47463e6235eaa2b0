package handler

import (
	"context"
	"strings"

	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/middleware"
	"friendica_api/model"
	"friendica_api/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SiteSettingsAdmin 站点配置的写入与重新加载，由 service.SiteSettingsService 实现
type SiteSettingsAdmin interface {
	SettingsStore
	AllSettings() map[string]string
	UpdateSetting(ctx context.Context, cat, key, value string) error
	LoadSettings(ctx context.Context) error
}

// SiteSettingsHandler 站点配置管理接口（不属于旧版 API，直接挂在 gin 上）
type SiteSettingsHandler struct {
	settings SiteSettingsAdmin
}

func NewSiteSettingsHandler(settings SiteSettingsAdmin) *SiteSettingsHandler {
	return &SiteSettingsHandler{settings: settings}
}

func adminError(c *gin.Context, err error) {
	utils.ErrorResponse(c, format.JSON, err, strings.TrimPrefix(c.Request.URL.Path, "/"))
}

// GetSettings 获取所有站点配置
// GET /admin/settings
func (h *SiteSettingsHandler) GetSettings(c *gin.Context) {
	utils.SuccessResponse(c, format.JSON, format.Document{
		Root:  "settings",
		Key:   "settings",
		Value: h.settings.AllSettings(),
	})
}

// UpdateSetting 更新站点配置
// POST /admin/settings/:cat/:key
func (h *SiteSettingsHandler) UpdateSetting(c *gin.Context) {
	cat, key := c.Param("cat"), c.Param("key")

	var req struct {
		Value *string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		adminError(c, apperr.BadRequest("invalid request body"))
		return
	}

	if err := h.settings.UpdateSetting(c.Request.Context(), cat, key, *req.Value); err != nil {
		adminError(c, err)
		return
	}
	log.Ctx(c.Request.Context()).Info().Str("cat", cat).Str("key", key).Msg("site setting updated")

	utils.SuccessResponse(c, format.JSON, format.Document{
		Root:  "setting",
		Key:   "setting",
		Value: gin.H{"cat": cat, "key": key, "value": *req.Value},
	})
}

// ReloadSettings 从数据库重新加载站点配置
// POST /admin/settings/reload
func (h *SiteSettingsHandler) ReloadSettings(c *gin.Context) {
	if err := h.settings.LoadSettings(c.Request.Context()); err != nil {
		adminError(c, err)
		return
	}

	utils.SuccessResponse(c, format.JSON, format.Document{
		Root:  "result",
		Key:   "result",
		Value: gin.H{"message": "settings reloaded successfully"},
	})
}

// AdminAuthMiddleware 管理接口要求 admin 授权范围
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := middleware.GetViewer(c)
		if !ok {
			adminError(c, apperr.Unauthorized("This API requires login"))
			c.Abort()
			return
		}
		if !viewer.HasScope(model.ScopeAdmin) {
			adminError(c, apperr.Forbidden("This API requires admin access"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RegisterAdminRoutes 注册站点管理接口
func RegisterAdminRoutes(r gin.IRouter, h *SiteSettingsHandler) {
	admin := r.Group("/admin")
	admin.Use(AdminAuthMiddleware())
	{
		admin.GET("/settings", h.GetSettings)
		admin.POST("/settings/reload", h.ReloadSettings)
		admin.POST("/settings/:cat/:key", h.UpdateSetting)
	}
}
