package dto

import "time"

// CreateCommentDTO 发表评论或回复
type CreateCommentDTO struct {
	Content    string `json:"content" validate:"required,min=1,max=2000"`
	RootID     uint64 `json:"root_id"`
	ReplyToUID uint64 `json:"reply_to_uid"`
}

// CommentDTO 评论
type CommentDTO struct {
	ID         uint64    `json:"id"`
	NovelID    uint64    `json:"novel_id"`
	UserID     uint64    `json:"user_id"`
	Nickname   string    `json:"nickname"`
	AvatarURL  string    `json:"avatar_url"`
	RootID     uint64    `json:"root_id"`
	ReplyToUID uint64    `json:"reply_to_uid"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// RateNovelDTO 评分
type RateNovelDTO struct {
	Score  int    `json:"score" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=5000"`
}

// RatingDTO 评分记录
type RatingDTO struct {
	ID        uint64    `json:"id"`
	NovelID   uint64    `json:"novel_id"`
	UserID    uint64    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Score     int       `json:"score"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
