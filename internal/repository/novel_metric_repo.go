package repository

import (
	"Inkstone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NovelMetricRepo interface {
	UpsertDailyMetric(ctx context.Context, metric *model.NovelDailyMetric) error
	GetMetricsRange(ctx context.Context, novelID uint64, from, to time.Time) ([]*model.NovelDailyMetric, error)
}

type NovelMetricRepoImpl struct {
	db *gorm.DB
}

func NewNovelMetricRepo(db *gorm.DB) NovelMetricRepo {
	return &NovelMetricRepoImpl{db: db}
}

// UpsertDailyMetric 快照任务当天重复执行时覆盖旧值
func (s *NovelMetricRepoImpl) UpsertDailyMetric(ctx context.Context, metric *model.NovelDailyMetric) error {
	return withRetry(ctx, "metric.UpsertDaily", func() error {
		return s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "novel_id"}, {Name: "metric_date"}},
				DoUpdates: clause.AssignmentColumns([]string{"total_views", "total_comments", "total_ratings"}),
			}).
			Create(metric).Error
	})
}

func (s *NovelMetricRepoImpl) GetMetricsRange(ctx context.Context, novelID uint64, from, to time.Time) ([]*model.NovelDailyMetric, error) {
	var metrics []*model.NovelDailyMetric
	result := s.db.WithContext(ctx).
		Where("novel_id = ? AND metric_date >= ? AND metric_date <= ?", novelID, from, to).
		Order("metric_date asc").
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}
