package handler

import (
	"context"
	"strconv"

	"friendica_api/format"
	"friendica_api/identity"
	"friendica_api/model"
	"friendica_api/network"
)

// User 旧版 API 的用户对象
type User struct {
	ID                   int64  `json:"id"`
	IDStr                string `json:"id_str"`
	Name                 string `json:"name"`
	ScreenName           string `json:"screen_name"`
	Location             string `json:"location"`
	Description          string `json:"description"`
	ProfileImageURL      string `json:"profile_image_url"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
	URL                  string `json:"url"`
	Protected            bool   `json:"protected"`
	FollowersCount       int64  `json:"followers_count"`
	FriendsCount         int64  `json:"friends_count"`
	CreatedAt            string `json:"created_at"`
	FavouritesCount      int64  `json:"favourites_count"`
	TimeZone             string `json:"time_zone"`
	StatusesCount        int64  `json:"statuses_count"`
	Following            bool   `json:"following"`
	Verified             bool   `json:"verified"`
	StatusnetBlocking    bool   `json:"statusnet_blocking"`
	Notifications        bool   `json:"notifications"`
	StatusnetProfileURL  string `json:"statusnet_profile_url"`
	UID                  int64  `json:"uid"`
	CID                  int64  `json:"cid"`
	Self                 bool   `json:"self"`
	Network              string `json:"network"`
}

// Status 旧版 API 的帖子对象
type Status struct {
	Text                    string  `json:"text"`
	Truncated               bool    `json:"truncated"`
	CreatedAt               string  `json:"created_at"`
	InReplyToStatusID       *int64  `json:"in_reply_to_status_id"`
	InReplyToStatusIDStr    *string `json:"in_reply_to_status_id_str"`
	Source                  string  `json:"source"`
	ID                      int64   `json:"id"`
	IDStr                   string  `json:"id_str"`
	Geo                     *string `json:"geo"`
	Favorited               bool    `json:"favorited"`
	User                    *User   `json:"user"`
	StatusnetHTML           string  `json:"statusnet_html"`
	StatusnetConversationID int64   `json:"statusnet_conversation_id"`
	FriendicaPrivate        bool    `json:"friendica_private"`
}

// UserRenderer 把联系人记录转换为用户对象
// 远程联系人的名称与 network 字段由 network.Matcher 根据主页地址生成，
// 一次渲染内同一地址只识别一次，远程查询不超过 network.LookupsPerRequest
type UserRenderer struct {
	contacts ContactStore
	posts    PostStore
	resolver *identity.Resolver
	matcher  *network.Matcher
}

func NewUserRenderer(contacts ContactStore, posts PostStore, resolver *identity.Resolver, matcher *network.Matcher) *UserRenderer {
	return &UserRenderer{contacts: contacts, posts: posts, resolver: resolver, matcher: matcher}
}

// User 渲染单个联系人
func (r *UserRenderer) User(ctx context.Context, viewer *model.Viewer, c *model.Contact) (*User, error) {
	ctx = network.WithLookupBudget(ctx, network.LookupsPerRequest)
	id, err := r.resolver.GlobalID(ctx, c.ID, c.UID)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:                   id,
		IDStr:                strconv.FormatInt(id, 10),
		Name:                 c.Name,
		ScreenName:           c.Nick,
		Location:             c.Location,
		Description:          c.About,
		ProfileImageURL:      c.Photo,
		ProfileImageURLHTTPS: c.Photo,
		URL:                  c.URL,
		CreatedAt:            format.Date(c.CreatedAt),
		TimeZone:             "UTC",
		StatusnetBlocking:    c.Blocked,
		StatusnetProfileURL:  c.URL,
		UID:                  c.UID,
		CID:                  c.ID,
		Self:                 c.Self,
		Network:              c.Network,
	}

	if r.resolver.IsLocal(c.URL) {
		if u.Network == "" {
			u.Network = network.DFRN
		}
	} else {
		match := r.matcher.Classify(ctx, c.URL)
		if mention, err := match.Mention(c.Name); err == nil {
			u.Name = mention
			u.Network = match.Tag
		} else if u.Network == "" {
			u.Network = network.Phantom
		}
	}

	if c.Self {
		if err := r.fillCounts(ctx, u, c.UID); err != nil {
			return nil, err
		}
	}

	if viewer != nil && !(c.Self && c.UID == viewer.ID) {
		nurl := c.NURL
		if nurl == "" {
			nurl = model.NormalizeURL(c.URL)
		}
		following, err := r.contacts.IsFollowing(ctx, viewer.ID, nurl)
		if err != nil {
			return nil, err
		}
		u.Following = following
	}

	return u, nil
}

func (r *UserRenderer) fillCounts(ctx context.Context, u *User, uid int64) error {
	var err error
	if u.FollowersCount, err = r.contacts.CountRelationsOf(ctx, uid, model.FollowerKinds); err != nil {
		return err
	}
	if u.FriendsCount, err = r.contacts.CountRelationsOf(ctx, uid, model.FriendKinds); err != nil {
		return err
	}
	if u.StatusesCount, err = r.posts.CountPosts(ctx, uid); err != nil {
		return err
	}
	if u.FavouritesCount, err = r.posts.CountStarred(ctx, uid); err != nil {
		return err
	}

	user, err := r.contacts.UserByID(ctx, uid)
	if err != nil {
		return err
	}
	if user != nil {
		u.Protected = user.HideFriends
		if user.Timezone != "" {
			u.TimeZone = user.Timezone
		}
	}
	return nil
}

// Users 批量渲染，保持输入顺序
func (r *UserRenderer) Users(ctx context.Context, viewer *model.Viewer, contacts []model.Contact) ([]*User, error) {
	ctx = network.WithLookupBudget(ctx, network.LookupsPerRequest)
	users := make([]*User, 0, len(contacts))
	for i := range contacts {
		u, err := r.User(ctx, viewer, &contacts[i])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Statuses 渲染帖子列表，作者按联系人 ID 批量查询
func (r *UserRenderer) Statuses(ctx context.Context, viewer *model.Viewer, posts []model.Post) ([]*Status, error) {
	ctx = network.WithLookupBudget(ctx, network.LookupsPerRequest)
	ids := make([]int64, 0, len(posts))
	seen := make(map[int64]bool, len(posts))
	for _, p := range posts {
		if !seen[p.ContactID] {
			seen[p.ContactID] = true
			ids = append(ids, p.ContactID)
		}
	}

	contacts, err := r.contacts.ContactsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors := make(map[int64]*User, len(contacts))
	for i := range contacts {
		u, err := r.User(ctx, viewer, &contacts[i])
		if err != nil {
			return nil, err
		}
		authors[contacts[i].ID] = u
	}

	statuses := make([]*Status, 0, len(posts))
	for i := range posts {
		statuses = append(statuses, newStatus(&posts[i], authors[posts[i].ContactID]))
	}
	return statuses, nil
}

// Status 渲染单条帖子
func (r *UserRenderer) Status(ctx context.Context, viewer *model.Viewer, p *model.Post) (*Status, error) {
	statuses, err := r.Statuses(ctx, viewer, []model.Post{*p})
	if err != nil {
		return nil, err
	}
	return statuses[0], nil
}

func newStatus(p *model.Post, author *User) *Status {
	text := p.Body
	if p.Title != "" {
		text = p.Title + "\n" + p.Body
	}

	source := p.App
	if source == "" {
		source = "web"
	}

	conversationID := p.ParentID
	if conversationID == 0 {
		conversationID = p.ID
	}

	s := &Status{
		Text:                    text,
		CreatedAt:               format.Date(p.CreatedAt),
		Source:                  source,
		ID:                      p.ID,
		IDStr:                   strconv.FormatInt(p.ID, 10),
		Favorited:               p.Starred,
		User:                    author,
		StatusnetHTML:           p.Body,
		StatusnetConversationID: conversationID,
		FriendicaPrivate:        p.Private,
	}
	if p.ReplyToID > 0 && p.ReplyToID != p.ID {
		replyTo := p.ReplyToID
		replyToStr := strconv.FormatInt(replyTo, 10)
		s.InReplyToStatusID = &replyTo
		s.InReplyToStatusIDStr = &replyToStr
	}
	return s
}
