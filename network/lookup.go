package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultLookupTimeout 远程查询的超时时间
const DefaultLookupTimeout = 5 * time.Second

// StatusNetLookup 通过 GNU Social 的 users/show 接口查询用户昵称
type StatusNetLookup struct {
	client *resty.Client
	scheme string
}

func NewStatusNetLookup(timeout time.Duration) *StatusNetLookup {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	c := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &StatusNetLookup{client: c, scheme: "http"}
}

// ScreenName 查询 userID 对应的 screen_name
func (l *StatusNetLookup) ScreenName(ctx context.Context, host, userID string) (string, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", userID).
		Get(fmt.Sprintf("%s://%s/api/users/show.json", l.scheme, host))
	if err != nil {
		return "", fmt.Errorf("statusnet request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("statusnet status %d", resp.StatusCode())
	}

	var user struct {
		ScreenName string `json:"screen_name"`
	}
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return "", fmt.Errorf("decode statusnet user: %w", err)
	}
	if user.ScreenName == "" {
		return "", fmt.Errorf("statusnet user %s@%s has no screen_name", userID, host)
	}

	return user.ScreenName, nil
}
