package model

import (
	"time"
)

// NovelDailyMetric 每日指标快照，用于作者后台趋势图
type NovelDailyMetric struct {
	ID            uint64    `gorm:"primaryKey"`
	NovelID       uint64    `gorm:"not null;index:idx_novel_date,unique"`
	MetricDate    time.Time `gorm:"not null;index:idx_novel_date,unique;column:metric_date"`
	TotalViews    int64     `gorm:"not null;default:0"`
	TotalComments int       `gorm:"not null;default:0"`
	TotalRatings  int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

func (NovelDailyMetric) TableName() string {
	return "novel_daily_metrics"
}
