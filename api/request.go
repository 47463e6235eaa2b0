package api

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/model"
)

// HandlerFunc 接口处理函数：返回待渲染的结果或业务错误
type HandlerFunc func(ctx context.Context, req *Request) (*Result, error)

// Request 一次 API 调用的全部输入
type Request struct {
	Method string
	Path   string   // 注册路径，例如 "statuses/show"
	Args   []string // 注册路径之后的路径段，例如 ["12"]
	Params url.Values
	Viewer *model.Viewer // 未登录时为 nil
	Format format.Format
}

// Param 查询参数或表单参数
func (r *Request) Param(name string) string {
	return strings.TrimSpace(r.Params.Get(name))
}

// Arg 第 i 个路径参数，不存在时返回空串
func (r *Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return r.Args[i]
}

// Int64Param 整数参数；缺省时返回 def，无法解析时返回 400
func (r *Request) Int64Param(name string, def int64) (int64, error) {
	raw := r.Param(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return v, nil
}

// IntParam 同 Int64Param，超出 int 范围时返回 400
func (r *Request) IntParam(name string, def int) (int, error) {
	v, err := r.Int64Param(name, int64(def))
	if err != nil {
		return 0, err
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return int(v), nil
}

// BoolParam "true" 或 "1" 视为真
func (r *Request) BoolParam(name string) bool {
	switch strings.ToLower(r.Param(name)) {
	case "true", "1":
		return true
	}
	return false
}

// ViewerID 当前调用者 ID，未登录时为 0
func (r *Request) ViewerID() int64 {
	if r.Viewer == nil {
		return 0
	}
	return r.Viewer.ID
}

// Result 成功结果，XML 以 Root 为根元素，Value 挂在 Key 下
type Result struct {
	Root  string
	Key   string
	Value any
}

// NewResult Root 与 Key 相同时的常见写法
func NewResult(root string, value any) *Result {
	return &Result{Root: root, Key: root, Value: value}
}

// Document 转换为渲染文档
func (r *Result) Document() format.Document {
	key := r.Key
	if key == "" {
		key = r.Root
	}
	return format.Document{Root: r.Root, Key: key, Value: r.Value}
}
