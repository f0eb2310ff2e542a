package model

import (
	"time"
)

type NovelComment struct {
	ID         uint64    `gorm:"primaryKey"`
	NovelID    uint64    `gorm:"not null;index:idx_novel_id" json:"novel_id"`
	UserID     uint64    `gorm:"not null" json:"user_id"`
	RootID     uint64    `gorm:"not null;default:0;index:idx_root_id" json:"root_id"` // 0 表示一级评论
	ReplyToUID uint64    `gorm:"not null;default:0" json:"reply_to_uid"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	IsDeleted  bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
}

func (NovelComment) TableName() string {
	return "novel_comments"
}

// CommentLike 评论点赞，(user_id, comment_id) 唯一
type CommentLike struct {
	UserID    uint64    `gorm:"primaryKey" json:"user_id"`
	CommentID uint64    `gorm:"primaryKey;index:idx_comment_id" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
