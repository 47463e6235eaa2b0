package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"friendica_api/model"
	"friendica_api/pagination"

	"gorm.io/gorm"
)

// 关系列表固定排除的记录
const visibleRelation = "self = false AND deleted = false AND hidden = false AND archive = false AND pending = false"

// ContactService 联系人与关系查询
// 同时实现 pagination.RelationStore、pagination.ProfileStore 与 identity.Store
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) relationQuery(tx *gorm.DB, f pagination.Filter) *gorm.DB {
	q := tx.Model(&model.Contact{}).
		Where("uid = ?", f.OwnerID).
		Where("rel IN ?", f.Kinds).
		Where(visibleRelation)
	if f.AfterID > 0 {
		q = q.Where("id > ?", f.AfterID)
	}
	if f.BeforeID > 0 {
		q = q.Where("id < ?", f.BeforeID)
	}
	return q
}

// CountRelations 统计关系数量（不受游标边界影响的调用方应传入零值边界）
func (s *ContactService) CountRelations(ctx context.Context, f pagination.Filter) (int64, error) {
	var count int64
	if err := s.relationQuery(s.db.WithContext(ctx), f).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count relations: %w", err)
	}
	return count, nil
}

// SelectRelationIDs 查询关系的本地联系人 ID
func (s *ContactService) SelectRelationIDs(ctx context.Context, f pagination.Filter, order pagination.Order, limit int) ([]int64, error) {
	direction := "id ASC"
	if order == pagination.Descending {
		direction = "id DESC"
	}

	var ids []int64
	err := s.relationQuery(s.db.WithContext(ctx), f).
		Order(direction).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select relations: %w", err)
	}
	return ids, nil
}

// HidesRelations 用户是否对他人隐藏关注/粉丝列表
func (s *ContactService) HidesRelations(ctx context.Context, uid int64) (bool, error) {
	user, err := s.UserByID(ctx, uid)
	if err != nil {
		return false, err
	}
	return user != nil && user.HideFriends, nil
}

// UserByID 本地用户
func (s *ContactService) UserByID(ctx context.Context, uid int64) (*model.User, error) {
	var user model.User
	return first(s.db.WithContext(ctx).Where("uid = ?", uid), &user)
}

// OwnerByNick 按昵称查找本地用户
func (s *ContactService) OwnerByNick(ctx context.Context, nick string) (*model.User, error) {
	var user model.User
	return first(s.db.WithContext(ctx).Where("nickname = ? AND blocked = false", nick), &user)
}

// ContactByID 按 ID 查找联系人
func (s *ContactService) ContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	var contact model.Contact
	return first(s.db.WithContext(ctx).Where("id = ?", id), &contact)
}

// SelfContact 用户自己的联系人记录
func (s *ContactService) SelfContact(ctx context.Context, uid int64) (*model.Contact, error) {
	var contact model.Contact
	return first(s.db.WithContext(ctx).Where("uid = ? AND self = true", uid), &contact)
}

// PublicContactByNURL 公共联系人（uid = 0）
func (s *ContactService) PublicContactByNURL(ctx context.Context, nurl string) (*model.Contact, error) {
	var contact model.Contact
	return first(s.db.WithContext(ctx).Where("uid = 0 AND nurl = ?", nurl).Order("id ASC"), &contact)
}

// PublicContactByNick 按昵称查找公共联系人
func (s *ContactService) PublicContactByNick(ctx context.Context, nick string) (*model.Contact, error) {
	var contact model.Contact
	return first(s.db.WithContext(ctx).Where("uid = 0 AND nick = ? AND deleted = false", nick).Order("id ASC"), &contact)
}

// ContactByNick 用户视图下按昵称查找联系人
func (s *ContactService) ContactByNick(ctx context.Context, uid int64, nick string) (*model.Contact, error) {
	var contact model.Contact
	return first(s.db.WithContext(ctx).Where("uid = ? AND nick = ? AND self = false AND deleted = false", uid, nick).Order("id ASC"), &contact)
}

// ContactsByIDs 批量查询联系人，结果按 ids 的顺序返回，不存在的 ID 被忽略
func (s *ContactService) ContactsByIDs(ctx context.Context, ids []int64) ([]model.Contact, error) {
	if len(ids) == 0 {
		return []model.Contact{}, nil
	}

	var contacts []model.Contact
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	byID := make(map[int64]model.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	ordered := make([]model.Contact, 0, len(contacts))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// SearchContacts 按昵称或名称搜索公共联系人
func (s *ContactService) SearchContacts(ctx context.Context, q string, limit, offset int) ([]model.Contact, error) {
	pattern := "%" + escapeLike(q) + "%"

	var contacts []model.Contact
	err := s.db.WithContext(ctx).
		Where("uid = 0 AND deleted = false AND blocked = false").
		Where("(nick ILIKE ? OR name ILIKE ?)", pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// CountRelationsOf 用户的关注数或粉丝数
func (s *ContactService) CountRelationsOf(ctx context.Context, uid int64, kinds []int) (int64, error) {
	return s.CountRelations(ctx, pagination.Filter{OwnerID: uid, Kinds: kinds})
}

// IsFollowing viewer 是否关注了 nurl 对应的联系人
func (s *ContactService) IsFollowing(ctx context.Context, uid int64, nurl string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Contact{}).
		Where("uid = ? AND nurl = ? AND rel IN ?", uid, nurl, model.FriendKinds).
		Where(visibleRelation).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check relationship: %w", err)
	}
	return count > 0, nil
}

// first 查询单条记录，不存在时返回 (nil, nil)
func first[T any](q *gorm.DB, dest *T) (*T, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %T: %w", dest, err)
	}
	return dest, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
