package api

import (
	"fmt"
	"sort"
	"strings"
)

// MethodAny 接受任意 HTTP 方法
const MethodAny = "*"

// Endpoint 已注册的接口
type Endpoint struct {
	Method        string // "*"、"GET" 或以逗号分隔的多个方法，例如 "POST,DELETE"
	Auth          bool   // 需要登录
	Scope         string // 需要的授权范围，为空表示不检查
	SkipRateLimit bool   // 不计入访问频率
	Handler       HandlerFunc
}

// Allows 检查请求方法是否匹配
func (e Endpoint) Allows(method string) bool {
	if e.Method == "" || e.Method == MethodAny {
		return true
	}
	for _, m := range strings.Split(e.Method, ",") {
		if strings.EqualFold(strings.TrimSpace(m), method) {
			return true
		}
	}
	return false
}

// Registry 路径 -> 接口，启动时构建，之后只读
type Registry struct {
	endpoints map[string]Endpoint
}

func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string]Endpoint)}
}

// Register 注册接口，重复注册或缺少处理函数会 panic
func (r *Registry) Register(path string, e Endpoint) {
	path = strings.Trim(path, "/")
	if path == "" || e.Handler == nil {
		panic(fmt.Sprintf("api: invalid endpoint %q", path))
	}
	if _, exists := r.endpoints[path]; exists {
		panic(fmt.Sprintf("api: duplicate endpoint %q", path))
	}
	r.endpoints[path] = e
}

// Lookup 先精确匹配，再按最长前缀匹配，前缀之后的路径段作为参数返回
func (r *Registry) Lookup(path string) (string, Endpoint, []string, bool) {
	path = strings.Trim(path, "/")
	if e, ok := r.endpoints[path]; ok {
		return path, e, nil, true
	}

	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i > 0; i-- {
		prefix := strings.Join(segments[:i], "/")
		if e, ok := r.endpoints[prefix]; ok {
			return prefix, e, segments[i:], true
		}
	}
	return "", Endpoint{}, nil, false
}

// Paths 已注册的全部路径（排序后）
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.endpoints))
	for p := range r.endpoints {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
