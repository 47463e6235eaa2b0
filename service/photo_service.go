package service

import (
	"context"
	"fmt"

	"friendica_api/model"

	"gorm.io/gorm"
)

type PhotoService struct {
	db *gorm.DB
}

func NewPhotoService(db *gorm.DB) *PhotoService {
	return &PhotoService{db: db}
}

// ListPhotos 用户的全部图片，每个资源只返回 scale 最小（原图）的一条
func (s *PhotoService) ListPhotos(ctx context.Context, uid int64) ([]model.Photo, error) {
	var photos []model.Photo
	err := s.db.WithContext(ctx).
		Where("uid = ?", uid).
		Where(`scale = (SELECT MIN(p.scale) FROM photo p WHERE p.uid = photo.uid AND p."resource-id" = photo."resource-id")`).
		Order("created DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// DeleteAlbum 删除相册内全部图片，返回是否存在该相册
func (s *PhotoService) DeleteAlbum(ctx context.Context, uid int64, album string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("uid = ? AND album = ?", uid, album).
		Delete(&model.Photo{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete album: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RenameAlbum 重命名相册，返回是否存在该相册
func (s *PhotoService) RenameAlbum(ctx context.Context, uid int64, album, newName string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Photo{}).
		Where("uid = ? AND album = ?", uid, album).
		Update("album", newName)
	if result.Error != nil {
		return false, fmt.Errorf("failed to rename album: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
