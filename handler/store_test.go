package handler

import (
	"context"
	"slices"
	"strings"
	"time"

	"friendica_api/model"
	"friendica_api/pagination"
	"friendica_api/service"
)

// memStore 内存实现的全部存储接口
type memStore struct {
	users    []model.User
	contacts []model.Contact
	posts    []model.Post
	mails    []model.Mail
	notes    []model.Notification
	photos   []model.Photo
	settings map[string]string

	lastTimeline service.TimelineQuery
	lastMail     service.MailQuery
	seenMails    []int64
	sent         []service.NewMail
}

// ---- ContactStore / identity.Store ----

func (s *memStore) UserByID(ctx context.Context, uid int64) (*model.User, error) {
	for i := range s.users {
		if s.users[i].UID == uid {
			return &s.users[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) OwnerByNick(ctx context.Context, nick string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].Nickname == nick {
			return &s.users[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) SelfContact(ctx context.Context, uid int64) (*model.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].UID == uid && s.contacts[i].Self {
			return &s.contacts[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) ContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			return &s.contacts[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) ContactByNick(ctx context.Context, uid int64, nick string) (*model.Contact, error) {
	for i := range s.contacts {
		c := &s.contacts[i]
		if c.UID == uid && c.Nick == nick && !c.Self && !c.Deleted {
			return c, nil
		}
	}
	return nil, nil
}

func (s *memStore) PublicContactByNURL(ctx context.Context, nurl string) (*model.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].UID == 0 && s.contacts[i].NURL == nurl {
			return &s.contacts[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) PublicContactByNick(ctx context.Context, nick string) (*model.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].UID == 0 && s.contacts[i].Nick == nick {
			return &s.contacts[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) ContactsByIDs(ctx context.Context, ids []int64) ([]model.Contact, error) {
	out := []model.Contact{}
	for _, id := range ids {
		if c, _ := s.ContactByID(ctx, id); c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memStore) SearchContacts(ctx context.Context, q string, limit, offset int) ([]model.Contact, error) {
	out := []model.Contact{}
	for _, c := range s.contacts {
		if c.UID == 0 && strings.Contains(strings.ToLower(c.Nick+" "+c.Name), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return []model.Contact{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func listed(c model.Contact) bool {
	return !c.Self && !c.Deleted && !c.Hidden && !c.Archive && !c.Pending
}

func (s *memStore) relations(uid int64, kinds []int) []model.Contact {
	out := []model.Contact{}
	for _, c := range s.contacts {
		if c.UID == uid && listed(c) && slices.Contains(kinds, c.Rel) {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) CountRelationsOf(ctx context.Context, uid int64, kinds []int) (int64, error) {
	return int64(len(s.relations(uid, kinds))), nil
}

func (s *memStore) IsFollowing(ctx context.Context, uid int64, nurl string) (bool, error) {
	for _, c := range s.relations(uid, model.FriendKinds) {
		if c.NURL == nurl {
			return true, nil
		}
	}
	return false, nil
}

// ---- pagination ----

func (s *memStore) CountRelations(ctx context.Context, f pagination.Filter) (int64, error) {
	return s.CountRelationsOf(ctx, f.OwnerID, f.Kinds)
}

func (s *memStore) SelectRelationIDs(ctx context.Context, f pagination.Filter, order pagination.Order, limit int) ([]int64, error) {
	ids := []int64{}
	for _, c := range s.relations(f.OwnerID, f.Kinds) {
		if (f.AfterID > 0 && c.ID <= f.AfterID) || (f.BeforeID > 0 && c.ID >= f.BeforeID) {
			continue
		}
		ids = append(ids, c.ID)
	}
	slices.Sort(ids)
	if order == pagination.Descending {
		slices.Reverse(ids)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *memStore) HidesRelations(ctx context.Context, uid int64) (bool, error) {
	u, _ := s.UserByID(ctx, uid)
	return u != nil && u.HideFriends, nil
}

// ---- PostStore ----

func (s *memStore) Timeline(ctx context.Context, q service.TimelineQuery) ([]model.Post, error) {
	s.lastTimeline = q
	out := []model.Post{}
	for _, p := range s.posts {
		var ok bool
		switch q.Kind {
		case service.TimelineHome:
			ok = p.UID == q.UID
		case service.TimelinePublic:
			ok = p.Wall && !p.Private
		case service.TimelineUser:
			ok = p.UID == q.UID && p.Wall && (!q.PublicOnly || !p.Private)
		case service.TimelineMentions:
			ok = p.UID == q.UID && p.Mention
		case service.TimelineFavorites:
			ok = p.UID == q.UID && p.Starred
		}
		if ok && !p.Deleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) PostByID(ctx context.Context, uid, id int64) (*model.Post, error) {
	for i := range s.posts {
		p := &s.posts[i]
		if p.ID == id && !p.Deleted && (p.UID == uid || (p.Wall && !p.Private)) {
			return p, nil
		}
	}
	return nil, nil
}

func (s *memStore) SetStarred(ctx context.Context, uid, id int64, starred bool) (*model.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id && s.posts[i].UID == uid {
			s.posts[i].Starred = starred
			return &s.posts[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) CountPosts(ctx context.Context, uid int64) (int64, error) {
	var n int64
	for _, p := range s.posts {
		if p.UID == uid && p.Wall {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountStarred(ctx context.Context, uid int64) (int64, error) {
	var n int64
	for _, p := range s.posts {
		if p.UID == uid && p.Starred {
			n++
		}
	}
	return n, nil
}

// ---- MailStore ----

func (s *memStore) List(ctx context.Context, q service.MailQuery) ([]model.Mail, error) {
	s.lastMail = q
	out := []model.Mail{}
	for _, m := range s.mails {
		if m.UID != q.UID {
			continue
		}
		var ok bool
		switch q.Box {
		case service.MailInbox:
			ok = m.FromURL != q.SelfURL
		case service.MailSent:
			ok = m.FromURL == q.SelfURL
		case service.MailAll:
			ok = true
		case service.MailConversation:
			ok = m.ParentURI == q.ParentURI
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) MarkSeen(ctx context.Context, uid int64, ids []int64) error {
	s.seenMails = append(s.seenMails, ids...)
	for i := range s.mails {
		if s.mails[i].UID == uid && slices.Contains(ids, s.mails[i].ID) {
			s.mails[i].Seen = true
		}
	}
	return nil
}

func (s *memStore) MailByID(ctx context.Context, uid, id int64) (*model.Mail, error) {
	for i := range s.mails {
		if s.mails[i].UID == uid && s.mails[i].ID == id {
			return &s.mails[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) Send(ctx context.Context, m service.NewMail) (*model.Mail, error) {
	s.sent = append(s.sent, m)
	title := m.Title
	parent := "https://social.example/objects/new"
	if m.ReplyTo != nil {
		title = "Re: " + m.ReplyTo.Title
		parent = m.ReplyTo.ParentURI
	} else if title == "" {
		title = service.DefaultMailTitle(m.Body)
	}
	mail := model.Mail{
		ID:        int64(1000 + len(s.sent)),
		UID:       m.UID,
		ContactID: m.Recipient.ID,
		FromName:  m.Sender.Name,
		FromURL:   m.Sender.URL,
		Title:     title,
		Body:      m.Body,
		Seen:      true,
		ParentURI: parent,
		CreatedAt: time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC),
	}
	s.mails = append(s.mails, mail)
	return &mail, nil
}

func (s *memStore) Delete(ctx context.Context, uid, id int64, parentURI string) (bool, error) {
	for i := range s.mails {
		m := s.mails[i]
		if m.UID == uid && m.ID == id && (parentURI == "" || m.ParentURI == parentURI) {
			s.mails = slices.Delete(s.mails, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// ---- NotificationStore ----

func (s *memStore) GetNotifications(ctx context.Context, uid int64, limit int) ([]model.Notification, error) {
	out := []model.Notification{}
	for _, n := range s.notes {
		if n.UID == uid && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memStore) GetNotification(ctx context.Context, uid, id int64) (*model.Notification, error) {
	for i := range s.notes {
		if s.notes[i].UID == uid && s.notes[i].ID == id {
			return &s.notes[i], nil
		}
	}
	return nil, nil
}

// noteStore 通知的 MarkSeen 与私信同名，单独包一层
type noteStore struct {
	*memStore
}

func (s noteStore) MarkSeen(ctx context.Context, n *model.Notification) error {
	for i := range s.notes {
		if s.notes[i].ID == n.ID || (n.PostID > 0 && s.notes[i].PostID == n.PostID) {
			s.notes[i].Seen = true
		}
	}
	n.Seen = true
	return nil
}

// ---- PhotoStore ----

func (s *memStore) ListPhotos(ctx context.Context, uid int64) ([]model.Photo, error) {
	out := []model.Photo{}
	for _, p := range s.photos {
		if p.UID == uid && p.Scale == 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) DeleteAlbum(ctx context.Context, uid int64, album string) (bool, error) {
	kept := s.photos[:0]
	deleted := false
	for _, p := range s.photos {
		if p.UID == uid && p.Album == album {
			deleted = true
			continue
		}
		kept = append(kept, p)
	}
	s.photos = kept
	return deleted, nil
}

func (s *memStore) RenameAlbum(ctx context.Context, uid int64, album, newName string) (bool, error) {
	renamed := false
	for i := range s.photos {
		if s.photos[i].UID == uid && s.photos[i].Album == album {
			s.photos[i].Album = newName
			renamed = true
		}
	}
	return renamed, nil
}

// ---- SettingsStore ----

func (s *memStore) GetString(cat, key, defaultValue string) string {
	if v, ok := s.settings[cat+"."+key]; ok {
		return v
	}
	return defaultValue
}

func (s *memStore) GetBool(cat, key string, defaultValue bool) bool {
	if v, ok := s.settings[cat+"."+key]; ok {
		return v == "true" || v == "1"
	}
	return defaultValue
}

func (s *memStore) AllSettings() map[string]string {
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out
}

func (s *memStore) UpdateSetting(ctx context.Context, cat, key, value string) error {
	s.settings[cat+"."+key] = value
	return nil
}

func (s *memStore) LoadSettings(ctx context.Context) error {
	return nil
}
