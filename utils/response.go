package utils

import (
	"net/http"

	"friendica_api/apperr"
	"friendica_api/format"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorStatus 旧版 API 的错误信封 {"status": {...}}
type ErrorStatus struct {
	Error   string `json:"error"`
	Code    string `json:"code"`    // HTTP 状态行，例如 "404 Not Found"
	Request string `json:"request"` // 请求路径
}

// ErrorDocument 构造错误信封文档
func ErrorDocument(err *apperr.Error, request string) format.Document {
	return format.Document{
		Root: "status",
		Key:  "status",
		Value: ErrorStatus{
			Error:   err.PublicMessage(),
			Code:    err.Code.StatusLine(),
			Request: request,
		},
		Envelope: true,
	}
}

// WriteDocument 按格式渲染并写出响应
func WriteDocument(c *gin.Context, status int, f format.Format, doc format.Document) {
	body, contentType, err := format.Render(f, doc)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Stack().Err(err).Str("root", doc.Root).Msg("render response failed")
		if doc.Envelope {
			c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		ErrorResponse(c, f, apperr.Internal("", err), c.Request.URL.Path)
		return
	}
	c.Data(status, contentType, body)
}

// ErrorResponse 错误响应：HTTP 状态码与信封中的 code 一致，内部错误不暴露原因
func ErrorResponse(c *gin.Context, f format.Format, err error, request string) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		log.Ctx(c.Request.Context()).Error().Stack().Err(err).Str("request", request).Msg("api request failed")
	}
	WriteDocument(c, appErr.Code.HTTPStatus(), f, ErrorDocument(appErr, request))
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, f format.Format, doc format.Document) {
	WriteDocument(c, http.StatusOK, f, doc)
}
