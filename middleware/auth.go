package middleware

import (
	"strings"

	"friendica_api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const viewerKey = "viewer"

var jwtSecret []byte

// InitAuth 初始化认证中间件
func InitAuth(secret string) {
	jwtSecret = []byte(secret)
}

// Claims JWT 声明
type Claims struct {
	UserID int64  `json:"user_id"`
	Scope  string `json:"scope"` // 以空格分隔，例如 "read write"
	jwt.RegisteredClaims
}

// AuthMiddleware 解析 Bearer Token 并写入调用者
// 缺少或无效的 Token 不会中断请求，是否需要登录由 API Dispatcher 按接口决定
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Ctx(c.Request.Context()).Debug().Msg("unsupported authorization header")
			c.Next()
			return
		}

		viewer, err := ValidateToken(parts[1])
		if err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(err).Msg("invalid token")
			c.Next()
			return
		}

		// 将调用者存入上下文
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// ValidateToken 验证 JWT Token
func ValidateToken(tokenString string) (*model.Viewer, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}

	scopes := strings.Fields(claims.Scope)
	if len(scopes) == 0 {
		scopes = []string{model.ScopeRead}
	}

	return &model.Viewer{ID: claims.UserID, Scopes: scopes, Local: true}, nil
}

// IssueToken 签发 Token（测试与运维脚本使用）
func IssueToken(userID int64, scopes ...string) (string, error) {
	claims := Claims{
		UserID: userID,
		Scope:  strings.Join(scopes, " "),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// GetViewer 从上下文获取调用者
func GetViewer(c *gin.Context) (*model.Viewer, bool) {
	v, exists := c.Get(viewerKey)
	if !exists {
		return nil, false
	}
	viewer, ok := v.(*model.Viewer)
	return viewer, ok
}
