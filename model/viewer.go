package model

// 授权范围
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
	ScopeAdmin = "admin" // 站点管理接口
)

// Viewer 当前请求的已认证调用者
type Viewer struct {
	ID     int64
	Scopes []string
	Local  bool // 是否为本站用户
}

// HasScope 检查调用者是否拥有指定授权范围
func (v *Viewer) HasScope(scope string) bool {
	if v == nil {
		return false
	}
	for _, s := range v.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
