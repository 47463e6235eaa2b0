package network

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// 协议标签
const (
	DFRN        = "dfrn"
	Diaspora    = "dspr"
	OStatus     = "stat"
	ActivityPub = "apub"
	PumpIO      = "pump"
	Twitter     = "twit"
	Phantom     = "unkn" // 无法识别
)

// ErrUnclassifiable 主页地址无法识别为任何已知协议
var ErrUnclassifiable = errors.New("unclassifiable profile url")

// Match 识别结果
type Match struct {
	Tag    string
	Host   string
	Handle string
}

// UserLookup 远程查询 GNU Social 用户的真实昵称
type UserLookup interface {
	ScreenName(ctx context.Context, host, userID string) (string, error)
}

type rule struct {
	pattern *regexp.Regexp
	tag     string
	lookup  bool // 匹配后需要远程查询才能确定 handle
}

// 规则顺序即优先级，不能调整：最后一条 host/handle 是兜底规则
var rules = []rule{
	{pattern: regexp.MustCompile(`(?i)^https?://(twitter\.com)/([^/]+)/?$`), tag: Twitter},
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/profile/([^/]+)/?$`), tag: DFRN},
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/u/([^/]+)/?$`), tag: Diaspora},
	// Hubzilla 频道无法直接通信，按 Diaspora 处理
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/channel/([^/]+)/?$`), tag: Diaspora},
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/user/([^/]+)/?$`), tag: OStatus, lookup: true},
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/users/([^/]+)/?$`), tag: ActivityPub},
	{pattern: regexp.MustCompile(`(?i)^https?://(.+)/@([^/]+)/?$`), tag: ActivityPub},
	{pattern: regexp.MustCompile(`(?i)^https?://([^/]+)/([^/]+)/?$`), tag: PumpIO},
}

// Matcher 根据主页地址识别联邦协议
type Matcher struct {
	lookup UserLookup
}

func NewMatcher(lookup UserLookup) *Matcher {
	return &Matcher{lookup: lookup}
}

// Classify 识别主页地址所属协议，并提取 host 与 handle
// 只有 GNU Social 规则会发起一次远程查询，查询失败或超出 ctx 的查询额度时继续尝试后续规则
func (m *Matcher) Classify(ctx context.Context, profileURL string) Match {
	url := stripQuery(profileURL)

	budget := budgetFrom(ctx)
	if match, ok := budget.cached(url); ok {
		return match
	}
	match := m.classify(ctx, url, budget)
	budget.store(url, match)
	return match
}

func (m *Matcher) classify(ctx context.Context, url string, budget *lookupBudget) Match {
	for _, r := range rules {
		parts := r.pattern.FindStringSubmatch(url)
		if parts == nil {
			continue
		}

		match := Match{Tag: r.tag, Host: parts[1], Handle: parts[2]}
		if !r.lookup {
			return match
		}

		if m.lookup == nil {
			continue
		}
		if !budget.take() {
			log.Ctx(ctx).Debug().Str("url", url).Msg("statusnet lookup budget exhausted, trying next rule")
			continue
		}
		screenName, err := m.lookup.ScreenName(ctx, match.Host, match.Handle)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("statusnet lookup failed, trying next rule")
			continue
		}
		match.Handle = screenName
		return match
	}

	return Match{Tag: Phantom}
}

// FormatMention 生成 "显示名 (handle@host)" 形式的提及文本
func (m *Matcher) FormatMention(ctx context.Context, profileURL, displayName string) (string, error) {
	mention, err := m.Classify(ctx, profileURL).Mention(displayName)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, profileURL)
	}
	return mention, nil
}

// Mention 按识别结果生成提及文本
func (match Match) Mention(displayName string) (string, error) {
	if match.Tag == Phantom {
		return "", ErrUnclassifiable
	}
	return fmt.Sprintf("%s (%s@%s)", displayName, match.Handle, match.Host), nil
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
