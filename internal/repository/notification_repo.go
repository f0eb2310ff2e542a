package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	UpdateNotification(ctx context.Context, notification *model.Notification) error
	GetNotification(ctx context.Context, userID uint64, id uint64) (*model.Notification, error)
	GetActiveAggregate(ctx context.Context, userID uint64, aggregationKey string, since time.Time) (*model.Notification, error)
	GetNotifications(ctx context.Context, userID uint64, onlyUnread bool, archived bool, limit, offset int) ([]*model.Notification, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id uint64) (int64, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	Archive(ctx context.Context, userID uint64, id uint64) (int64, error)
	ArchiveAll(ctx context.Context, userID uint64) (int64, error)
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db: db}
}

func (s *NotificationRepoImpl) CreateNotification(ctx context.Context, notification *model.Notification) error {
	return withRetry(ctx, "notification.Create", func() error {
		return s.db.WithContext(ctx).Create(notification).Error
	})
}

// UpdateNotification 保存聚合合并后的通知，更新 data 与 updated_at
func (s *NotificationRepoImpl) UpdateNotification(ctx context.Context, notification *model.Notification) error {
	return withRetry(ctx, "notification.Update", func() error {
		return s.db.WithContext(ctx).
			Model(&model.Notification{}).
			Where("id = ?", notification.ID).
			Updates(map[string]interface{}{
				"actor_id":   notification.ActorID,
				"data":       notification.Data,
				"updated_at": notification.UpdatedAt,
			}).Error
	})
}

func (s *NotificationRepoImpl) GetNotification(ctx context.Context, userID uint64, id uint64) (*model.Notification, error) {
	var notification model.Notification
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &notification, nil
}

// GetActiveAggregate 查找可合并的通知：同 (user_id, aggregation_key)、
// 未读、未归档且最近一次更新仍在聚合窗口内
func (s *NotificationRepoImpl) GetActiveAggregate(ctx context.Context, userID uint64, aggregationKey string, since time.Time) (*model.Notification, error) {
	var notification model.Notification
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND aggregation_key = ? AND is_read = ? AND is_archived = ? AND updated_at >= ?",
			userID, aggregationKey, false, false, since).
		Order("updated_at desc").
		First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &notification, nil
}

func (s *NotificationRepoImpl) GetNotifications(ctx context.Context, userID uint64, onlyUnread bool, archived bool, limit, offset int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_archived = ?", userID, archived)
	if onlyUnread {
		query = query.Where("is_read = ?", false)
	}
	result := query.
		Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (s *NotificationRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_archived = ?", userID, false, false).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// MarkRead 标记单条已读，返回受影响行数。已读行再次标记返回 0，幂等。
func (s *NotificationRepoImpl) MarkRead(ctx context.Context, userID uint64, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *NotificationRepoImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_archived = ?", userID, false, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Archive 归档单向，不做反向操作
func (s *NotificationRepoImpl) Archive(ctx context.Context, userID uint64, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_archived = ?", id, userID, false).
		Update("is_archived", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ArchiveAll 批量归档收件箱里所有未归档的通知，返回归档条数。
// 再次调用归档 0 条，幂等。
func (s *NotificationRepoImpl) ArchiveAll(ctx context.Context, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_archived = ?", userID, false).
		Update("is_archived", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
