package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	names map[string]string
	calls int
}

func (f *fakeLookup) ScreenName(ctx context.Context, host, userID string) (string, error) {
	f.calls++
	if name, ok := f.names[host+"/"+userID]; ok {
		return name, nil
	}
	return "", errors.New("not found")
}

func TestClassify(t *testing.T) {
	lookup := &fakeLookup{names: map[string]string{"gnu.example/42": "dave"}}
	m := NewMatcher(lookup)

	cases := []struct {
		url    string
		tag    string
		host   string
		handle string
	}{
		{"https://twitter.com/alice", Twitter, "twitter.com", "alice"},
		{"https://example.social/profile/bob", DFRN, "example.social", "bob"},
		{"http://example.social/profile/bob/", DFRN, "example.social", "bob"},
		{"https://example.social/sub/profile/bob?tab=posts", DFRN, "example.social/sub", "bob"},
		{"https://pod.example/u/carol", Diaspora, "pod.example", "carol"},
		{"https://hub.example/channel/erin", Diaspora, "hub.example", "erin"},
		{"https://gnu.example/user/42", OStatus, "gnu.example", "dave"},
		{"https://mastodon.example/users/frank", ActivityPub, "mastodon.example", "frank"},
		{"https://mastodon.example/@grace", ActivityPub, "mastodon.example", "grace"},
		{"https://pump.example/heidi", PumpIO, "pump.example", "heidi"},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			match := m.Classify(context.Background(), tc.url)
			assert.Equal(t, tc.tag, match.Tag)
			assert.Equal(t, tc.host, match.Host)
			assert.Equal(t, tc.handle, match.Handle)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	m := NewMatcher(nil)

	for _, url := range []string{
		"https://random.example/unmatched/path/structure/x",
		"ftp://files.example/alice",
		"not a url",
		"https://host.example/",
	} {
		assert.Equal(t, Phantom, m.Classify(context.Background(), url).Tag, url)
	}
}

func TestClassifyLookupOnlyForStatusNetRule(t *testing.T) {
	lookup := &fakeLookup{}
	m := NewMatcher(lookup)

	m.Classify(context.Background(), "https://example.social/profile/bob")
	m.Classify(context.Background(), "https://twitter.com/alice")
	assert.Equal(t, 0, lookup.calls)

	match := m.Classify(context.Background(), "https://gnu.example/user/7")
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, Phantom, match.Tag, "failed lookup falls through to the next rules")
}

func TestClassifyLookupBudget(t *testing.T) {
	lookup := &fakeLookup{names: map[string]string{
		"gnu.example/1": "one",
		"gnu.example/2": "two",
		"gnu.example/3": "three",
	}}
	m := NewMatcher(lookup)
	ctx := WithLookupBudget(context.Background(), 2)

	assert.Equal(t, "one", m.Classify(ctx, "https://gnu.example/user/1").Handle)
	assert.Equal(t, "two", m.Classify(ctx, "https://gnu.example/user/2?x=1").Handle)
	assert.Equal(t, Phantom, m.Classify(ctx, "https://gnu.example/user/3").Tag)
	assert.Equal(t, 2, lookup.calls)

	// 已识别的地址直接复用结果
	assert.Equal(t, "one", m.Classify(ctx, "https://gnu.example/user/1").Handle)
	assert.Equal(t, 2, lookup.calls)

	// 外层额度优先，不会被重置
	assert.Equal(t, ctx, WithLookupBudget(ctx, 10))

	// 没有额度的 ctx 不受限
	assert.Equal(t, "three", m.Classify(context.Background(), "https://gnu.example/user/3").Handle)
	assert.Equal(t, 3, lookup.calls)
}

func TestFormatMention(t *testing.T) {
	m := NewMatcher(nil)

	mention, err := m.FormatMention(context.Background(), "https://example.social/profile/bob", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob (bob@example.social)", mention)

	_, err = m.FormatMention(context.Background(), "https://random.example/a/b/c", "Nobody")
	assert.ErrorIs(t, err, ErrUnclassifiable)
}

func TestStatusNetLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/show.json", r.URL.Path)
		switch r.URL.Query().Get("user_id") {
		case "5":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":5,"screen_name":"carol"}`))
		case "6":
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	m := NewMatcher(NewStatusNetLookup(time.Second))

	match := m.Classify(context.Background(), srv.URL+"/user/5")
	assert.Equal(t, Match{Tag: OStatus, Host: host, Handle: "carol"}, match)

	assert.Equal(t, Phantom, m.Classify(context.Background(), srv.URL+"/user/6").Tag)
	assert.Equal(t, Phantom, m.Classify(context.Background(), srv.URL+"/user/404").Tag)
}

func TestStatusNetLookupTimeoutFallsThrough(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(`{"screen_name":"late"}`))
	}))
	defer srv.Close()
	defer close(release)

	m := NewMatcher(NewStatusNetLookup(50 * time.Millisecond))

	start := time.Now()
	match := m.Classify(context.Background(), srv.URL+"/user/9")
	assert.Equal(t, Phantom, match.Tag)
	assert.Less(t, time.Since(start), time.Second)
}
