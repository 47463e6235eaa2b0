package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind 游标类型
type Kind int

const (
	KindStart    Kind = iota // -1：从头开始 / 没有上一页
	KindNone                 // 0：该方向没有更多数据
	KindForward              // 正数：id 之后的数据
	KindBackward             // 负数：id 之前的数据
)

// Cursor 分页游标；只在序列化边界与旧版整数编码互转
type Cursor struct {
	kind Kind
	id   int64
}

func Start() Cursor {
	return Cursor{kind: KindStart}
}

func None() Cursor {
	return Cursor{kind: KindNone}
}

func Forward(id int64) Cursor {
	return Cursor{kind: KindForward, id: id}
}

func Backward(id int64) Cursor {
	return Cursor{kind: KindBackward, id: id}
}

// ParseCursor 从旧版整数编码解析游标
// 注意 -1 永远是 Start，因此 Backward(1) 无法从线上格式还原
func ParseCursor(v int64) Cursor {
	switch {
	case v == -1:
		return Start()
	case v == 0:
		return None()
	case v > 0:
		return Forward(v)
	default:
		return Backward(-v)
	}
}

// ParseCursorParam 解析请求参数中的游标，空值视为 -1
func ParseCursorParam(raw string) (Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Start(), nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor %q", raw)
	}
	return ParseCursor(v), nil
}

func (c Cursor) Kind() Kind {
	return c.kind
}

// ID 游标指向的本地 ID（Start/None 时为 0）
func (c Cursor) ID() int64 {
	return c.id
}

// Int64 转换为旧版整数编码
func (c Cursor) Int64() int64 {
	switch c.kind {
	case KindStart:
		return -1
	case KindForward:
		return c.id
	case KindBackward:
		return -c.id
	default:
		return 0
	}
}

func (c Cursor) String() string {
	return strconv.FormatInt(c.Int64(), 10)
}
