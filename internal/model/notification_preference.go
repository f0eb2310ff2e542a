package model

import (
	"time"
)

// NotificationPreference 每用户通知开关，首次读取时按默认值惰性创建。
// 站内开关默认开启，邮件开关默认关闭。
type NotificationPreference struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_id" json:"user_id"`

	EnableFollowerNotifications bool `gorm:"not null;default:1" json:"enable_follower_notifications"`
	EmailFollowerNotifications  bool `gorm:"not null;default:0" json:"email_follower_notifications"`
	EnableCommentNotifications  bool `gorm:"not null;default:1" json:"enable_comment_notifications"`
	EmailCommentNotifications   bool `gorm:"not null;default:0" json:"email_comment_notifications"`
	EnableRatingNotifications   bool `gorm:"not null;default:1" json:"enable_rating_notifications"`
	EmailRatingNotifications    bool `gorm:"not null;default:0" json:"email_rating_notifications"`
	EnableLikeNotifications     bool `gorm:"not null;default:1" json:"enable_like_notifications"`
	EmailLikeNotifications      bool `gorm:"not null;default:0" json:"email_like_notifications"`
	EnableChapterNotifications  bool `gorm:"not null;default:1" json:"enable_chapter_notifications"`
	EmailChapterNotifications   bool `gorm:"not null;default:0" json:"email_chapter_notifications"`
	AggregationEnabled          bool `gorm:"not null;default:1" json:"aggregation_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultNotificationPreference 返回默认偏好
func DefaultNotificationPreference(userID uint64) *NotificationPreference {
	return &NotificationPreference{
		UserID:                      userID,
		EnableFollowerNotifications: true,
		EnableCommentNotifications:  true,
		EnableRatingNotifications:   true,
		EnableLikeNotifications:     true,
		EnableChapterNotifications:  true,
		AggregationEnabled:          true,
	}
}
