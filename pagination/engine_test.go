package pagination

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	id      int64
	uid     int64
	rel     int
	self    bool
	deleted bool
	hidden  bool
	archive bool
	pending bool
}

// fakeStore 在内存中模拟关系表，过滤规则与数据库实现一致
type fakeStore struct {
	rows      []fakeRow
	hidden    map[int64]bool
	selectErr error
	selects   int
}

func (s *fakeStore) match(f Filter, r fakeRow) bool {
	if r.uid != f.OwnerID || r.self || r.deleted || r.hidden || r.archive || r.pending {
		return false
	}
	if !slices.Contains(f.Kinds, r.rel) {
		return false
	}
	if f.AfterID > 0 && r.id <= f.AfterID {
		return false
	}
	if f.BeforeID > 0 && r.id >= f.BeforeID {
		return false
	}
	return true
}

func (s *fakeStore) CountRelations(ctx context.Context, f Filter) (int64, error) {
	f.AfterID, f.BeforeID = 0, 0
	var n int64
	for _, r := range s.rows {
		if s.match(f, r) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) SelectRelationIDs(ctx context.Context, f Filter, order Order, limit int) ([]int64, error) {
	s.selects++
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	var ids []int64
	for _, r := range s.rows {
		if s.match(f, r) {
			ids = append(ids, r.id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if order == Descending {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *fakeStore) HidesRelations(ctx context.Context, uid int64) (bool, error) {
	return s.hidden[uid], nil
}

// offsetIDs 全局 ID = 本地 ID + 1000
type offsetIDs struct{}

func (offsetIDs) GlobalID(ctx context.Context, localID, ownerID int64) (int64, error) {
	return localID + 1000, nil
}

func newFriends(owner int64, n int) *fakeStore {
	s := &fakeStore{hidden: map[int64]bool{}}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, fakeRow{id: int64(i), uid: owner, rel: 3})
	}
	return s
}

func newEngine(s *fakeStore) *Engine {
	return NewEngine(s, s, offsetIDs{})
}

func query(cursor Cursor, count int) Query {
	return Query{Kinds: []int{2, 3}, OwnerID: 1, CallerID: 1, Cursor: cursor, Count: count}
}

func TestParseCursor(t *testing.T) {
	assert.Equal(t, KindStart, ParseCursor(-1).Kind())
	assert.Equal(t, KindNone, ParseCursor(0).Kind())
	assert.Equal(t, Forward(15), ParseCursor(15))
	assert.Equal(t, Backward(15), ParseCursor(-15))

	for _, v := range []int64{-1, 0, 7, -7, 200} {
		assert.Equal(t, v, ParseCursor(v).Int64())
	}

	c, err := ParseCursorParam("")
	require.NoError(t, err)
	assert.Equal(t, Start(), c)

	_, err = ParseCursorParam("abc")
	assert.Error(t, err)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 20, ClampCount(0))
	assert.Equal(t, 20, ClampCount(-5))
	assert.Equal(t, 7, ClampCount(7))
	assert.Equal(t, 200, ClampCount(500))
}

func TestPageExcludesFilteredRelations(t *testing.T) {
	s := newFriends(1, 3)
	s.rows = append(s.rows,
		fakeRow{id: 4, uid: 1, rel: 3, self: true},
		fakeRow{id: 5, uid: 1, rel: 3, deleted: true},
		fakeRow{id: 6, uid: 1, rel: 3, hidden: true},
		fakeRow{id: 7, uid: 1, rel: 3, archive: true},
		fakeRow{id: 8, uid: 1, rel: 3, pending: true},
		fakeRow{id: 9, uid: 1, rel: 1},
		fakeRow{id: 10, uid: 2, rel: 3},
		fakeRow{id: 11, uid: 1, rel: 2},
	)

	page, err := newEngine(s).Page(context.Background(), query(Start(), 20))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 11}, page.LocalIDs)
	assert.Equal(t, []int64{1001, 1002, 1003, 1011}, page.IDs)
	assert.EqualValues(t, 4, page.TotalCount)
	assert.Equal(t, None(), page.NextCursor)
	assert.Equal(t, None(), page.PreviousCursor)
}

func TestPageEmptyRelationSet(t *testing.T) {
	page, err := newEngine(newFriends(1, 0)).Page(context.Background(), query(Start(), 20))
	require.NoError(t, err)

	assert.Empty(t, page.IDs)
	assert.NotNil(t, page.IDs)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.Equal(t, int64(0), page.NextCursor.Int64())
	assert.Equal(t, int64(0), page.PreviousCursor.Int64())
}

func TestPageExactlyCountRows(t *testing.T) {
	page, err := newEngine(newFriends(1, 5)).Page(context.Background(), query(Start(), 5))
	require.NoError(t, err)

	assert.Len(t, page.IDs, 5)
	assert.Equal(t, None(), page.NextCursor, "total reached, no next page")
}

func TestPageFewerThanCountRows(t *testing.T) {
	page, err := newEngine(newFriends(1, 3)).Page(context.Background(), query(Forward(1), 5))
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3}, page.LocalIDs)
	assert.Equal(t, None(), page.NextCursor)
	assert.Equal(t, Backward(2), page.PreviousCursor)
}

func TestPageCursorPastEnd(t *testing.T) {
	page, err := newEngine(newFriends(1, 5)).Page(context.Background(), query(Forward(99), 5))
	require.NoError(t, err)

	assert.Empty(t, page.IDs)
	assert.Equal(t, int64(0), page.NextCursor.Int64())
	assert.Equal(t, int64(-99), page.PreviousCursor.Int64())
}

func TestPageCursorBeforeStart(t *testing.T) {
	page, err := newEngine(newFriends(1, 5)).Page(context.Background(), query(Backward(1), 5))
	require.NoError(t, err)

	assert.Empty(t, page.IDs)
	assert.Equal(t, int64(-1), page.NextCursor.Int64(), "end of results sentinel")
	assert.Equal(t, int64(0), page.PreviousCursor.Int64())
}

func TestPageNoneCursorSelectsNothing(t *testing.T) {
	s := newFriends(1, 5)
	page, err := newEngine(s).Page(context.Background(), query(None(), 5))
	require.NoError(t, err)

	assert.Empty(t, page.IDs)
	assert.EqualValues(t, 5, page.TotalCount)
	assert.Equal(t, 0, s.selects)
}

func TestPageHiddenProfile(t *testing.T) {
	s := newFriends(1, 5)
	s.hidden[1] = true

	q := query(Start(), 20)
	q.CallerID = 2
	page, err := newEngine(s).Page(context.Background(), q)
	require.NoError(t, err)

	assert.Empty(t, page.IDs)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.Equal(t, int64(-1), page.NextCursor.Int64())
	assert.Equal(t, int64(0), page.PreviousCursor.Int64())

	// 自己查看自己的列表不受隐藏设置影响
	own, err := newEngine(s).Page(context.Background(), query(Start(), 20))
	require.NoError(t, err)
	assert.Len(t, own.IDs, 5)
}

func TestPageStoreError(t *testing.T) {
	s := newFriends(1, 5)
	s.selectErr = errors.New("db down")

	_, err := newEngine(s).Page(context.Background(), query(Start(), 5))
	assert.ErrorIs(t, err, s.selectErr)
}

func TestForwardWalkVisitsEveryIDOnce(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 6, 23} {
		for _, count := range []int{1, 2, 5, 7} {
			s := newFriends(1, total)
			e := newEngine(s)

			var visited []int64
			cursor := Start()
			for step := 0; step <= total+1; step++ {
				page, err := e.Page(context.Background(), query(cursor, count))
				require.NoError(t, err)
				assert.LessOrEqual(t, len(page.IDs), count)
				visited = append(visited, page.LocalIDs...)
				if page.NextCursor.Int64() == 0 {
					break
				}
				cursor = page.NextCursor
			}

			want := make([]int64, 0, total)
			for i := 1; i <= total; i++ {
				want = append(want, int64(i))
			}
			assert.Equal(t, want, append([]int64{}, visited...), "total=%d count=%d", total, count)
		}
	}
}

func TestPreviousCursorReproducesPrecedingPage(t *testing.T) {
	s := newFriends(1, 23)
	e := newEngine(s)
	count := 5

	var pages [][]int64
	var prevs []Cursor
	cursor := Start()
	for {
		page, err := e.Page(context.Background(), query(cursor, count))
		require.NoError(t, err)
		pages = append(pages, page.LocalIDs)
		prevs = append(prevs, page.PreviousCursor)
		if page.NextCursor.Int64() == 0 {
			break
		}
		cursor = page.NextCursor
	}
	require.Len(t, pages, 5)

	for i := 1; i < len(pages); i++ {
		back, err := e.Page(context.Background(), query(prevs[i], count))
		require.NoError(t, err)
		assert.Equal(t, pages[i-1], back.LocalIDs, "page %d", i)
	}
}

// 枚举 (游标方向, 返回行数, 总数) 的组合，固定旧版边界行为
func TestBoundaryCombinations(t *testing.T) {
	cases := []struct {
		name     string
		cursor   Cursor
		rows     []int64
		total    int64
		count    int
		wantNext int64
		wantPrev int64
	}{
		{"start empty", Start(), nil, 0, 5, 0, 0},
		{"start partial", Start(), []int64{1, 2}, 2, 5, 0, 0},
		{"start full with more", Start(), []int64{1, 2, 3, 4, 5}, 9, 5, 5, 0},
		{"start full exactly total", Start(), []int64{1, 2, 3, 4, 5}, 5, 5, 0, 0},
		{"forward empty", Forward(9), nil, 9, 5, 0, -9},
		{"forward partial", Forward(5), []int64{6, 7}, 7, 5, 0, -6},
		{"forward full with more", Forward(5), []int64{6, 7, 8, 9, 10}, 12, 5, 10, -6},
		{"forward full total smaller than rows", Forward(5), []int64{6, 7, 8, 9, 10}, 3, 5, 0, -6},
		{"backward empty", Backward(3), nil, 9, 5, -1, 0},
		{"backward full", Backward(11), []int64{6, 7, 8, 9, 10}, 12, 5, 10, -6},
		// 旧版行为：靠近开头的不满页没有 next_cursor，尽管后面还有数据
		{"backward partial near start", Backward(3), []int64{1, 2}, 12, 5, 0, -1},
		{"none", None(), nil, 12, 5, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := &Page{LocalIDs: tc.rows, TotalCount: tc.total, NextCursor: None(), PreviousCursor: None()}
			applyBoundaries(page, tc.cursor, tc.count)
			assert.Equal(t, tc.wantNext, page.NextCursor.Int64())
			assert.Equal(t, tc.wantPrev, page.PreviousCursor.Int64())
		})
	}
}

// sharedIDs 本地 ID 2 与 3 指向同一个公共联系人
type sharedIDs struct{}

func (sharedIDs) GlobalID(ctx context.Context, localID, ownerID int64) (int64, error) {
	if localID == 3 {
		localID = 2
	}
	return localID + 1000, nil
}

func TestPageDropsDuplicatePublicContacts(t *testing.T) {
	s := newFriends(1, 4)
	page, err := NewEngine(s, s, sharedIDs{}).Page(context.Background(), query(Start(), 10))
	require.NoError(t, err)

	assert.Equal(t, []int64{1001, 1002, 1004}, page.IDs)
	assert.Equal(t, []int64{1, 2, 4}, page.UniqueLocalIDs)
	assert.Equal(t, []int64{1, 2, 3, 4}, page.LocalIDs)
	assert.Equal(t, int64(4), page.TotalCount)
}

func TestWireIDs(t *testing.T) {
	page := &Page{IDs: []int64{5, 9007199254740993}}

	assert.Equal(t, []any{int64(5), int64(9007199254740993)}, page.WireIDs(false))
	assert.Equal(t, []any{"5", "9007199254740993"}, page.WireIDs(true))
}
