package model

import (
	"time"
)

// NovelRating 评分，一个用户对一本书只保留一条
type NovelRating struct {
	ID        uint64    `gorm:"primaryKey"`
	NovelID   uint64    `gorm:"not null;index:idx_novel_user,unique" json:"novel_id"`
	UserID    uint64    `gorm:"not null;index:idx_novel_user,unique" json:"user_id"`
	Score     int       `gorm:"not null" json:"score"` // 1-5
	Review    string    `gorm:"type:text" json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NovelRating) TableName() string {
	return "novel_ratings"
}
