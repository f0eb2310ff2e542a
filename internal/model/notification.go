package model

import (
	"time"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotifyNewFollower  NotificationType = "new_follower"
	NotifyNewComment   NotificationType = "new_comment"
	NotifyCommentReply NotificationType = "comment_reply"
	NotifyNewRating    NotificationType = "new_rating"
	NotifyRatingReply  NotificationType = "rating_reply"
	NotifyCommentLike  NotificationType = "comment_like"
	NotifyNewChapter   NotificationType = "new_chapter"
	NotifySystem       NotificationType = "system"
)

// NotificationPriority 仅用于排序/展示权重
type NotificationPriority int8

const (
	PriorityLow    NotificationPriority = 1
	PriorityNormal NotificationPriority = 2
	PriorityHigh   NotificationPriority = 3
)

// Notification 用户通知。
// 可聚合类型在 (user_id, aggregation_key) 上最多保留一条未读未归档的行；
// 归档单向，行不删除。
type Notification struct {
	ID             uint64               `gorm:"primaryKey"`
	UserID         uint64               `gorm:"not null;index:idx_user_inbox" json:"user_id"`
	Type           NotificationType     `gorm:"type:varchar(32);not null" json:"type"`
	ActorID        uint64               `gorm:"not null;default:0" json:"actor_id"` // 0 代表系统
	AggregationKey string               `gorm:"type:varchar(64);index:idx_user_agg" json:"aggregation_key"`
	Data           []byte               `gorm:"type:json" json:"data"`
	Priority       NotificationPriority `gorm:"not null;default:2" json:"priority"`
	IsRead         bool                 `gorm:"not null;default:0;index:idx_user_inbox" json:"is_read"`
	IsArchived     bool                 `gorm:"not null;default:0;index:idx_user_inbox" json:"is_archived"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `gorm:"index" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationData 通知负载。字段按类型取用，聚合时合并 ActorIDs/ActorCount。
type NotificationData struct {
	NovelID    uint64   `json:"novel_id,omitempty"`
	NovelTitle string   `json:"novel_title,omitempty"`
	ChapterID  uint64   `json:"chapter_id,omitempty"`
	ChapterSeq int      `json:"chapter_seq,omitempty"`
	CommentID  uint64   `json:"comment_id,omitempty"`
	RatingID   uint64   `json:"rating_id,omitempty"`
	Score      int      `json:"score,omitempty"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Title      string   `json:"title,omitempty"` // 系统公告标题
	Body       string   `json:"body,omitempty"`  // 系统公告正文
	ActorIDs   []uint64 `json:"actor_ids,omitempty"`
	ActorCount int      `json:"actor_count,omitempty"`
}

// TypePriority 每种通知类型的固定展示权重
func TypePriority(t NotificationType) NotificationPriority {
	switch t {
	case NotifySystem:
		return PriorityHigh
	case NotifyCommentLike:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// IsAggregable 判断类型是否参与聚合
func IsAggregable(t NotificationType) bool {
	switch t {
	case NotifyNewFollower, NotifyNewComment, NotifyNewRating, NotifyCommentLike:
		return true
	default:
		return false
	}
}
