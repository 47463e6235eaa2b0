package network

import (
	"context"
	"sync"
)

// LookupsPerRequest 单个 API 请求内最多发起的远程查询次数
const LookupsPerRequest = 1

type budgetKey struct{}

// lookupBudget 请求范围内的识别缓存与剩余查询次数
type lookupBudget struct {
	mu        sync.Mutex
	remaining int
	matches   map[string]Match
}

// WithLookupBudget 为 ctx 设置远程查询上限，同一地址在 ctx 内只识别一次
// ctx 已带有额度时原样返回，外层的额度优先
func WithLookupBudget(ctx context.Context, n int) context.Context {
	if budgetFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, budgetKey{}, &lookupBudget{remaining: n, matches: make(map[string]Match)})
}

func budgetFrom(ctx context.Context) *lookupBudget {
	b, _ := ctx.Value(budgetKey{}).(*lookupBudget)
	return b
}

// take 消耗一次查询额度；没有设置额度时不受限
func (b *lookupBudget) take() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

func (b *lookupBudget) cached(url string) (Match, bool) {
	if b == nil {
		return Match{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.matches[url]
	return m, ok
}

func (b *lookupBudget) store(url string, m Match) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.matches[url] = m
	b.mu.Unlock()
}
