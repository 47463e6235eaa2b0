package middleware

import (
	"strings"

	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrorHandlerMiddleware 统一错误处理中间件
// 捕获 panic 和未处理的错误，按请求后缀的格式返回旧版错误信封
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = errors.Errorf("%v", r)
				}
				log.Ctx(c.Request.Context()).Error().Stack().Err(errors.WithStack(err)).Msg("panic recovered")

				if !c.Writer.Written() {
					writeError(c, apperr.Internal("", err))
				}

				// 终止后续处理
				c.Abort()
			}
		}()

		// 继续处理请求
		c.Next()

		// 检查是否有错误（通过 c.Errors）
		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			if !c.Writer.Written() {
				writeError(c, err.Err)
			}
		}
	}
}

func writeError(c *gin.Context, err error) {
	path := c.Request.URL.Path
	_, f, _ := format.SplitExtension(path)
	utils.ErrorResponse(c, f, err, strings.TrimPrefix(path, "/"))
}
