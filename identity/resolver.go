package identity

import (
	"context"
	"fmt"
	"strings"

	"friendica_api/apperr"
	"friendica_api/model"

	"github.com/rs/zerolog/log"
)

// Store 身份解析所需的查询；记录不存在时返回 (nil, nil)
type Store interface {
	ContactByID(ctx context.Context, id int64) (*model.Contact, error)
	SelfContact(ctx context.Context, uid int64) (*model.Contact, error)
	PublicContactByNURL(ctx context.Context, nurl string) (*model.Contact, error)
	PublicContactByNick(ctx context.Context, nick string) (*model.Contact, error)
	OwnerByNick(ctx context.Context, nick string) (*model.User, error)
}

// Resolver 把调用方提供的标识（联系人 ID、昵称、当前会话）解析为内部用户
type Resolver struct {
	store   Store
	baseURL string
}

func NewResolver(store Store, baseURL string) *Resolver {
	return &Resolver{store: store, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func userNotFound() *apperr.Error {
	return apperr.NotFound("User not found")
}

// IsLocal 判断主页地址是否属于本站用户
func (r *Resolver) IsLocal(url string) bool {
	return strings.HasPrefix(url, r.baseURL+"/profile/")
}

// ResolveViewer 解析关系列表所属的本地用户 ID
// 默认返回调用者自己；screenName 优先于 contactID；
// 只有本站联系人才能通过 contactID 解析（远程用户的关系数据不在本站）
func (r *Resolver) ResolveViewer(ctx context.Context, caller *model.Viewer, contactID int64, screenName string) (int64, error) {
	uid := caller.ID
	if contactID == 0 && screenName == "" {
		return uid, nil
	}

	if screenName == "" {
		contact, err := r.store.ContactByID(ctx, contactID)
		if err != nil {
			return 0, fmt.Errorf("failed to load contact: %w", err)
		}
		if contact != nil && r.IsLocal(contact.URL) {
			screenName = contact.Nick
		}
	}

	// 两种失败返回同样的错误，不泄露是哪一步没找到
	if screenName == "" {
		return 0, userNotFound()
	}

	owner, err := r.store.OwnerByNick(ctx, screenName)
	if err != nil {
		return 0, fmt.Errorf("failed to load owner: %w", err)
	}
	if owner == nil {
		return 0, userNotFound()
	}

	return owner.UID, nil
}

// GlobalID 本地联系人 ID 转换为全站共享的公共联系人 ID
// 没有公共记录时退回本地 ID
func (r *Resolver) GlobalID(ctx context.Context, localID, ownerID int64) (int64, error) {
	contact, err := r.store.ContactByID(ctx, localID)
	if err != nil {
		return 0, fmt.Errorf("failed to load contact: %w", err)
	}
	if contact == nil || contact.UID == 0 {
		return localID, nil
	}
	if contact.UID != ownerID {
		log.Warn().Int64("contact_id", localID).Int64("owner", ownerID).Int64("uid", contact.UID).Msg("contact owner mismatch")
	}

	public, err := r.store.PublicContactByNURL(ctx, contactNURL(contact))
	if err != nil {
		return 0, fmt.Errorf("failed to load public contact: %w", err)
	}
	if public == nil {
		log.Debug().Int64("contact_id", localID).Msg("no public contact, using local id")
		return localID, nil
	}

	return public.ID, nil
}

// ResolveContact 解析 users/show 之类接口要展示的联系人
// 默认返回调用者自己的 self 联系人
func (r *Resolver) ResolveContact(ctx context.Context, caller *model.Viewer, userID int64, screenName string) (*model.Contact, error) {
	var (
		contact *model.Contact
		err     error
	)

	switch {
	case screenName != "":
		contact, err = r.contactByScreenName(ctx, screenName)
	case userID != 0:
		contact, err = r.store.ContactByID(ctx, userID)
	default:
		contact, err = r.store.SelfContact(ctx, caller.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contact: %w", err)
	}
	if contact == nil || contact.Deleted {
		return nil, userNotFound()
	}

	return contact, nil
}

func (r *Resolver) contactByScreenName(ctx context.Context, screenName string) (*model.Contact, error) {
	owner, err := r.store.OwnerByNick(ctx, screenName)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		return r.store.SelfContact(ctx, owner.UID)
	}
	return r.store.PublicContactByNick(ctx, screenName)
}

func contactNURL(c *model.Contact) string {
	if c.NURL != "" {
		return c.NURL
	}
	return model.NormalizeURL(c.URL)
}
