package handler

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"friendica_api/api"
)

const (
	// statusnet/version 固定返回的兼容版本
	statusNetVersion = "0.9.7"
	platformName     = "Friendica"
	platformVersion  = "2024.12"
)

// SiteHandler help/test、statusnet/config 与 statusnet/version
type SiteHandler struct {
	settings SettingsStore
	baseURL  string
	siteName string
}

func NewSiteHandler(settings SettingsStore, baseURL, siteName string) *SiteHandler {
	return &SiteHandler{settings: settings, baseURL: strings.TrimSuffix(baseURL, "/"), siteName: siteName}
}

type siteConfig struct {
	Site siteInfo `json:"site"`
}

type siteInfo struct {
	Name           string        `json:"name"`
	Server         string        `json:"server"`
	Theme          string        `json:"theme"`
	Path           string        `json:"path"`
	Logo           string        `json:"logo"`
	Fancy          bool          `json:"fancy"`
	Language       string        `json:"language"`
	Email          string        `json:"email"`
	BroughtBy      string        `json:"broughtby"`
	BroughtByURL   string        `json:"broughtbyurl"`
	Timezone       string        `json:"timezone"`
	Closed         bool          `json:"closed"`
	InviteOnly     bool          `json:"inviteonly"`
	Private        bool          `json:"private"`
	TextLimit      string        `json:"textlimit"`
	SSLServer      string        `json:"sslserver"`
	SSL            string        `json:"ssl"`
	ShortURLLength string        `json:"shorturllength"`
	Friendica      platformBuild `json:"friendica"`
}

type platformBuild struct {
	Platform string `json:"FRIENDICA_PLATFORM"`
	Version  string `json:"FRIENDICA_VERSION"`
	DFRN     string `json:"DFRN_PROTOCOL_VERSION"`
}

// Test help/test
func (h *SiteHandler) Test(ctx context.Context, req *api.Request) (*api.Result, error) {
	return api.NewResult("ok", "ok"), nil
}

// Config statusnet/config
func (h *SiteHandler) Config(ctx context.Context, req *api.Request) (*api.Result, error) {
	server, path, ssl := h.baseURL, "", false
	if u, err := url.Parse(h.baseURL); err == nil && u.Host != "" {
		server = u.Host
		path = strings.TrimPrefix(u.Path, "/")
		ssl = u.Scheme == "https"
	}

	sslServer := ""
	if ssl {
		sslServer = server
	}

	textLimit := h.settings.GetString("config", "api_import_size", h.settings.GetString("config", "max_import_size", "200000"))

	info := siteInfo{
		Name:           h.settings.GetString("config", "sitename", h.siteName),
		Server:         server,
		Theme:          "default",
		Path:           path,
		Logo:           h.baseURL + "/images/friendica-64.png",
		Fancy:          true,
		Language:       h.settings.GetString("system", "language", "en"),
		Email:          h.settings.GetString("config", "admin_email", ""),
		Timezone:       h.settings.GetString("system", "default_timezone", "UTC"),
		Closed:         h.settings.GetString("config", "register_policy", "2") == "0",
		InviteOnly:     h.settings.GetBool("system", "invitation_only", false),
		Private:        h.settings.GetBool("system", "block_public", false),
		TextLimit:      textLimit,
		SSLServer:      sslServer,
		SSL:            strconv.FormatBool(ssl),
		ShortURLLength: "30",
		Friendica: platformBuild{
			Platform: platformName,
			Version:  platformVersion,
			DFRN:     "2.23",
		},
	}

	return api.NewResult("config", siteConfig{Site: info}), nil
}

// Version statusnet/version
func (h *SiteHandler) Version(ctx context.Context, req *api.Request) (*api.Result, error) {
	return api.NewResult("version", statusNetVersion), nil
}
