package service

import (
	"context"
	"fmt"
	"math"

	"friendica_api/model"

	"gorm.io/gorm"
)

// TimelineKind 时间线类型
type TimelineKind int

const (
	TimelineHome TimelineKind = iota
	TimelinePublic
	TimelineUser
	TimelineMentions
	TimelineFavorites
)

// TimelineQuery 时间线查询；SinceID/MaxID 为 0 表示不限制
type TimelineQuery struct {
	Kind           TimelineKind
	UID            int64
	PublicOnly     bool // 只返回公开帖子（查看他人的时间线）
	SinceID        int64
	MaxID          int64
	Count          int
	Page           int // 从 1 开始
	ExcludeReplies bool
}

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) timelineQuery(tx *gorm.DB, q TimelineQuery) *gorm.DB {
	db := tx.Model(&model.Post{}).Where("deleted = false")

	switch q.Kind {
	case TimelinePublic:
		db = db.Where("wall = true AND private = false")
	case TimelineUser:
		db = db.Where("uid = ? AND wall = true", q.UID)
	case TimelineMentions:
		db = db.Where("uid = ? AND mention = true", q.UID)
	case TimelineFavorites:
		db = db.Where("uid = ? AND starred = true", q.UID)
	default:
		db = db.Where("uid = ?", q.UID)
	}

	if q.PublicOnly {
		db = db.Where("private = false")
	}
	if q.SinceID > 0 {
		db = db.Where("id > ?", q.SinceID)
	}
	if q.MaxID > 0 {
		db = db.Where("id <= ?", q.MaxID)
	}
	if q.ExcludeReplies {
		db = db.Where("(parent = 0 OR parent = id)")
	}

	return db.Order("id DESC").Limit(q.Count).Offset(pageOffset(q.Page, q.Count))
}

// pageOffset 第 page 页（从 1 开始）的偏移量，溢出时取最大值
func pageOffset(page, count int) int {
	if page < 1 || count < 1 {
		return 0
	}
	if page-1 > math.MaxInt/count {
		return math.MaxInt
	}
	return (page - 1) * count
}

// Timeline 按 ID 倒序返回帖子
func (s *PostService) Timeline(ctx context.Context, q TimelineQuery) ([]model.Post, error) {
	var posts []model.Post
	if err := s.timelineQuery(s.db.WithContext(ctx), q).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	return posts, nil
}

// PostByID 查询 uid 可见的帖子：自己视图下的帖子或公开帖子
func (s *PostService) PostByID(ctx context.Context, uid, id int64) (*model.Post, error) {
	var post model.Post
	return first(s.db.WithContext(ctx).
		Where("id = ? AND deleted = false", id).
		Where("(uid = ? OR (wall = true AND private = false))", uid), &post)
}

// SetStarred 收藏或取消收藏，只能操作自己视图下的帖子
func (s *PostService) SetStarred(ctx context.Context, uid, id int64, starred bool) (*model.Post, error) {
	result := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND uid = ? AND deleted = false", id, uid).
		Update("starred", starred)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update starred: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var post model.Post
	return first(s.db.WithContext(ctx).Where("id = ?", id), &post)
}

// CountPosts 用户发布的帖子数
func (s *PostService) CountPosts(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("uid = ? AND wall = true AND deleted = false", uid).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// CountStarred 用户收藏的帖子数
func (s *PostService) CountStarred(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("uid = ? AND starred = true AND deleted = false", uid).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
