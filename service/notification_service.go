package service

import (
	"context"
	"fmt"

	"friendica_api/model"

	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// GetNotifications 获取通知列表（按时间倒序）
func (s *NotificationService) GetNotifications(ctx context.Context, uid int64, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return notifications, nil
}

// GetNotification 获取单条通知，不存在时返回 (nil, nil)
func (s *NotificationService) GetNotification(ctx context.Context, uid, id int64) (*model.Notification, error) {
	var notification model.Notification
	return first(s.db.WithContext(ctx).Where("uid = ? AND id = ?", uid, id), &notification)
}

// MarkSeen 标记已读；同一帖子的其他通知一并标记
func (s *NotificationService) MarkSeen(ctx context.Context, n *model.Notification) error {
	db := s.db.WithContext(ctx).Model(&model.Notification{}).Where("uid = ?", n.UID)
	if n.PostID > 0 {
		db = db.Where("(id = ? OR (iid = ? AND seen = false))", n.ID, n.PostID)
	} else {
		db = db.Where("id = ?", n.ID)
	}

	if err := db.Update("seen", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	n.Seen = true
	return nil
}
