package model

import (
	"time"
)

// RecentNovelViewer 阅读量去重标记。
// 同一 (novel_id, viewer_key) 最多存在一行；expires_at 之前的重复阅读不再计数。
type RecentNovelViewer struct {
	ID        uint64    `gorm:"primaryKey"`
	NovelID   uint64    `gorm:"not null;index:idx_novel_viewer,unique" json:"novel_id"`
	ViewerKey string    `gorm:"type:varchar(64);not null;index:idx_novel_viewer,unique" json:"viewer_key"`
	ExpiresAt time.Time `gorm:"not null;index:idx_expires_at" json:"expires_at"`
}

func (RecentNovelViewer) TableName() string {
	return "recent_novel_viewers"
}
