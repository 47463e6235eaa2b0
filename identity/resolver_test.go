package identity

import (
	"context"
	"errors"
	"testing"

	"friendica_api/apperr"
	"friendica_api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://social.example"

type memStore struct {
	contacts []model.Contact
	users    []model.User
	err      error
}

func (s *memStore) ContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			return &s.contacts[i], nil
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

func (s *memStore) OwnerByNick(ctx context.Context, nick string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].Nickname == nick {
			return &s.users[i], nil
		}
	}
	return nil, nil
}

func contact(id, uid int64, nick, url string) model.Contact {
	return model.Contact{ID: id, UID: uid, Nick: nick, URL: url, NURL: model.NormalizeURL(url)}
}

func fixture() *memStore {
	alice := contact(1, 1, "alice", baseURL+"/profile/alice")
	alice.Self = true
	bob := contact(2, 2, "bob", baseURL+"/profile/bob")
	bob.Self = true
	return &memStore{
		users: []model.User{
			{UID: 1, Nickname: "alice"},
			{UID: 2, Nickname: "bob"},
		},
		contacts: []model.Contact{
			alice,
			bob,
			// alice 的联系人：本站的 bob 与一个远程用户
			contact(10, 1, "bob", baseURL+"/profile/bob"),
			contact(11, 1, "remote", "https://other.example/profile/remote"),
			contact(100, 0, "bob", baseURL+"/profile/bob"),
			contact(101, 0, "remote", "https://other.example/profile/remote"),
		},
	}
}

func viewer(id int64) *model.Viewer {
	return &model.Viewer{ID: id, Scopes: []string{model.ScopeRead}, Local: true}
}

func TestResolveViewerDefaultsToCaller(t *testing.T) {
	r := NewResolver(fixture(), baseURL)

	uid, err := r.ResolveViewer(context.Background(), viewer(1), 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, uid)
}

func TestResolveViewerByLocalContact(t *testing.T) {
	r := NewResolver(fixture(), baseURL)

	uid, err := r.ResolveViewer(context.Background(), viewer(1), 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, uid)
}

func TestResolveViewerRejectsRemoteContact(t *testing.T) {
	r := NewResolver(fixture(), baseURL)

	_, err := r.ResolveViewer(context.Background(), viewer(1), 11, "")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestResolveViewerUnknownInputsFailIdentically(t *testing.T) {
	r := NewResolver(fixture(), baseURL)

	_, byID := r.ResolveViewer(context.Background(), viewer(1), 999, "")
	_, byName := r.ResolveViewer(context.Background(), viewer(1), 0, "nobody")

	require.Error(t, byID)
	require.Error(t, byName)
	assert.Equal(t, byID.Error(), byName.Error())
	assert.True(t, apperr.IsCode(byID, apperr.CodeNotFound))
	assert.True(t, apperr.IsCode(byName, apperr.CodeNotFound))
}

func TestResolveViewerScreenNameWins(t *testing.T) {
	r := NewResolver(fixture(), baseURL)

	// 联系人 10 指向 bob，但 screen_name 指定 alice
	uid, err := r.ResolveViewer(context.Background(), viewer(2), 10, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, uid)

	// 即使联系人 ID 无效，也只看 screen_name
	uid, err = r.ResolveViewer(context.Background(), viewer(2), 999, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, uid)
}

func TestResolveViewerStoreError(t *testing.T) {
	store := fixture()
	store.err = errors.New("db down")
	r := NewResolver(store, baseURL)

	_, err := r.ResolveViewer(context.Background(), viewer(1), 10, "")
	assert.ErrorIs(t, err, store.err)
	assert.False(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestGlobalID(t *testing.T) {
	store := fixture()
	store.contacts = append(store.contacts, contact(12, 1, "lonely", "https://lonely.example/profile/x"))
	r := NewResolver(store, baseURL)

	id, err := r.GlobalID(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 100, id)

	id, err = r.GlobalID(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 101, id)

	id, err = r.GlobalID(context.Background(), 12, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 12, id, "falls back to the local id")

	id, err = r.GlobalID(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 100, id, "public ids map to themselves")
}

func TestResolveContact(t *testing.T) {
	r := NewResolver(fixture(), baseURL)
	ctx := context.Background()

	self, err := r.ResolveContact(ctx, viewer(1), 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, self.ID)

	bob, err := r.ResolveContact(ctx, viewer(1), 0, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 2, bob.ID, "local owners resolve to their self contact")

	remote, err := r.ResolveContact(ctx, viewer(1), 0, "remote")
	require.NoError(t, err)
	assert.EqualValues(t, 101, remote.ID)

	byID, err := r.ResolveContact(ctx, viewer(1), 101, "")
	require.NoError(t, err)
	assert.Equal(t, "remote", byID.Nick)

	_, err = r.ResolveContact(ctx, viewer(1), 0, "ghost")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestIsLocal(t *testing.T) {
	r := NewResolver(fixture(), baseURL+"/")

	assert.True(t, r.IsLocal(baseURL+"/profile/alice"))
	assert.False(t, r.IsLocal("https://other.example/profile/alice"))
	assert.False(t, r.IsLocal(baseURL+"/photos/alice"))
}
