package pagination

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	DefaultCount = 20
	MaxCount     = 200
)

// Order 查询排序
type Order int

const (
	Ascending Order = iota
	Descending
)

// Filter 关系查询条件
// 实现方必须同时排除 self、deleted、hidden、archive、pending 的记录
type Filter struct {
	OwnerID  int64
	Kinds    []int
	AfterID  int64 // >0 时只取 id > AfterID
	BeforeID int64 // >0 时只取 id < BeforeID
}

// RelationStore 关系数据的存储契约
type RelationStore interface {
	CountRelations(ctx context.Context, f Filter) (int64, error)
	SelectRelationIDs(ctx context.Context, f Filter, order Order, limit int) ([]int64, error)
}

// ProfileStore 用户隐私设置
type ProfileStore interface {
	HidesRelations(ctx context.Context, uid int64) (bool, error)
}

// IDTranslator 本地联系人 ID -> 全局 ID
type IDTranslator interface {
	GlobalID(ctx context.Context, localID, ownerID int64) (int64, error)
}

// Query 分页请求
type Query struct {
	Kinds    []int
	OwnerID  int64 // 关系列表所属用户
	CallerID int64 // 当前调用者
	Cursor   Cursor
	Count    int
}

// Page 分页结果
type Page struct {
	IDs            []int64 // 全局 ID，按本地 ID 升序
	LocalIDs       []int64 // 本页选出的本地 ID，游标据此计算
	UniqueLocalIDs []int64 // 去重后保留的本地 ID，与 IDs 一一对应
	NextCursor     Cursor
	PreviousCursor Cursor
	TotalCount     int64
}

// Engine 关系列表的游标分页
type Engine struct {
	store    RelationStore
	profiles ProfileStore
	ids      IDTranslator
}

func NewEngine(store RelationStore, profiles ProfileStore, ids IDTranslator) *Engine {
	return &Engine{store: store, profiles: profiles, ids: ids}
}

// ClampCount 处理默认值与上限
func ClampCount(count int) int {
	if count <= 0 {
		return DefaultCount
	}
	if count > MaxCount {
		return MaxCount
	}
	return count
}

// Page 计算一页关系 ID
func (e *Engine) Page(ctx context.Context, q Query) (*Page, error) {
	count := ClampCount(q.Count)

	// 他人设置了隐藏关系列表：返回空页，不报错
	if q.OwnerID != q.CallerID {
		hidden, err := e.profiles.HidesRelations(ctx, q.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if hidden {
			return &Page{
				IDs:            []int64{},
				LocalIDs:       []int64{},
				UniqueLocalIDs: []int64{},
				NextCursor:     Start(),
				PreviousCursor: None(),
			}, nil
		}
	}

	filter := Filter{OwnerID: q.OwnerID, Kinds: q.Kinds}

	total, err := e.store.CountRelations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count relations: %w", err)
	}

	order := Ascending
	switch q.Cursor.Kind() {
	case KindForward:
		filter.AfterID = q.Cursor.ID()
	case KindBackward:
		// 上一页：倒序取最靠近边界的数据，再翻转回升序
		filter.BeforeID = q.Cursor.ID()
		order = Descending
	}

	localIDs := []int64{}
	if q.Cursor.Kind() != KindNone {
		localIDs, err = e.store.SelectRelationIDs(ctx, filter, order, count)
		if err != nil {
			return nil, fmt.Errorf("failed to select relations: %w", err)
		}
		if len(localIDs) > count {
			localIDs = localIDs[:count]
		}
		if order == Descending {
			slices.Reverse(localIDs)
		}
	}

	page := &Page{
		LocalIDs:       localIDs,
		NextCursor:     None(),
		PreviousCursor: None(),
		TotalCount:     total,
	}
	applyBoundaries(page, q.Cursor, count)

	page.IDs, page.UniqueLocalIDs, err = e.translate(ctx, localIDs, q.OwnerID)
	if err != nil {
		return nil, err
	}

	return page, nil
}

// applyBoundaries 旧版边界规则，顺序不可调整
func applyBoundaries(page *Page, cursor Cursor, count int) {
	rows := len(page.LocalIDs)

	if rows > 0 {
		page.PreviousCursor = Backward(page.LocalIDs[0])
		page.NextCursor = Forward(page.LocalIDs[rows-1])
	}

	// 没有下一页
	if page.TotalCount <= int64(rows) || rows < count {
		page.NextCursor = None()
	}

	// 向前翻页到底
	if cursor.Kind() == KindBackward && rows == 0 {
		page.NextCursor = Start()
	}

	// 第一页没有上一页
	if cursor.Kind() == KindStart {
		page.PreviousCursor = None()
	}

	if cursor.Kind() == KindForward && rows == 0 {
		page.PreviousCursor = Backward(cursor.ID())
	}
}

// translate 本地 ID 转为全局 ID，多个本地联系人对应同一全局 ID 时只保留第一个
func (e *Engine) translate(ctx context.Context, localIDs []int64, ownerID int64) ([]int64, []int64, error) {
	ids := make([]int64, 0, len(localIDs))
	kept := make([]int64, 0, len(localIDs))
	seen := make(map[int64]bool, len(localIDs))

	for _, localID := range localIDs {
		id, err := e.ids.GlobalID(ctx, localID, ownerID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to translate contact %d: %w", localID, err)
		}
		if seen[id] {
			log.Warn().Int64("contact_id", localID).Int64("public_id", id).Msg("duplicate public contact in relation page")
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		kept = append(kept, localID)
	}

	return ids, kept, nil
}

// WireIDs 按客户端需要输出数字或字符串 ID
func (p *Page) WireIDs(stringify bool) []any {
	out := make([]any, len(p.IDs))
	for i, id := range p.IDs {
		if stringify {
			out[i] = strconv.FormatInt(id, 10)
		} else {
			out[i] = id
		}
	}
	return out
}
