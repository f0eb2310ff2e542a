package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationPreferenceRepo interface {
	GetPreference(ctx context.Context, userID uint64) (*model.NotificationPreference, error)
	UpsertPreference(ctx context.Context, preference *model.NotificationPreference) error
}

type NotificationPreferenceRepoImpl struct {
	db *gorm.DB
}

func NewNotificationPreferenceRepo(db *gorm.DB) NotificationPreferenceRepo {
	return &NotificationPreferenceRepoImpl{db: db}
}

func (s *NotificationPreferenceRepoImpl) GetPreference(ctx context.Context, userID uint64) (*model.NotificationPreference, error) {
	var preference model.NotificationPreference
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&preference)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &preference, nil
}

// UpsertPreference 按 user_id 冲突更新，惰性创建和显式修改共用
func (s *NotificationPreferenceRepoImpl) UpsertPreference(ctx context.Context, preference *model.NotificationPreference) error {
	return withRetry(ctx, "preference.Upsert", func() error {
		return s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"enable_follower_notifications", "email_follower_notifications",
					"enable_comment_notifications", "email_comment_notifications",
					"enable_rating_notifications", "email_rating_notifications",
					"enable_like_notifications", "email_like_notifications",
					"enable_chapter_notifications", "email_chapter_notifications",
					"aggregation_enabled", "updated_at",
				}),
			}).
			Create(preference).Error
	})
}
