package job

import (
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// NovelMetricJob 每日零点把全量小说的累计计数落一份快照，
// 作者后台的趋势图按相邻两天快照的差值画增量
type NovelMetricJob struct {
	metricSvc service.NovelMetricService
}

func NewNovelMetricJob(metricSvc service.NovelMetricService) *NovelMetricJob {
	return &NovelMetricJob{metricSvc: metricSvc}
}

func (s *NovelMetricJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	count, err := s.metricSvc.SnapshotAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "snapshot novel metrics error", "err", err)
		return
	}

	log.InfoContext(ctx, "snapshot novel metrics success", "novel_count", count)
}
